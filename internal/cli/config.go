package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitfind/pkg/config"
)

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect gitfind configuration",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.flags.configPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return fmt.Errorf("get config path: %w", err)
				}
				path = p
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, the config file, .env,
the environment and flags. The token is masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			if cfg.Path != "" {
				printSuccess(errOut, "Loaded %s", cfg.Path)
			} else {
				printInfo(errOut, "No config file found, using defaults")
				printDetail(errOut, "Create one at: %s", defaultPathHint())
			}
			fmt.Fprint(out, cfg.String())
			return nil
		},
	}
}

func defaultPathHint() string {
	p, err := config.DefaultPath()
	if err != nil {
		return "$XDG_CONFIG_HOME/" + appName + "/config.toml"
	}
	return p
}
