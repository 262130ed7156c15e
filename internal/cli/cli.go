package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gitfind/pkg/buildinfo"
	"github.com/matzehuels/gitfind/pkg/config"
	"github.com/matzehuels/gitfind/pkg/integrations/github"
	"github.com/matzehuels/gitfind/pkg/observability"
	"github.com/matzehuels/gitfind/pkg/summary"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "gitfind"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	flags globalFlags
}

// globalFlags are the persistent flags that override configuration.
type globalFlags struct {
	configPath string
	token      string
	apiBase    string
	timeout    time.Duration
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "gitfind summarizes GitHub repositories",
		Long: `gitfind queries the GitHub REST API for a repository and aggregates its
stars, forks, contributors, primary languages and latest commit into a
single summary record.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			observability.SetHTTPHooks(newHTTPLogHooks(c.Logger))
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/gitfind/config.toml)")
	pf.StringVar(&c.flags.token, "token", "", "GitHub token (overrides "+config.EnvToken+")")
	pf.StringVar(&c.flags.apiBase, "api-base", "", "GitHub API base URL")
	pf.DurationVar(&c.flags.timeout, "timeout", 0, "per-request timeout (e.g. 10s)")

	root.AddCommand(c.summaryCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the layered configuration and applies any flags the user
// set explicitly.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.Options{Path: c.flags.configPath})
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("token") {
		cfg.Token = c.flags.token
	}
	if f.Changed("api-base") {
		cfg.APIBase = c.flags.apiBase
	}
	if f.Changed("timeout") {
		cfg.Timeout = c.flags.timeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c.Logger.Debug("loaded config", "path", cfg.Path, "api_base", cfg.APIBase, "timeout", cfg.Timeout, "token", cfg.Token != "")
	return cfg, nil
}

// newSummarizer wires a GitHub client configured from cfg into a Summarizer.
func (c *CLI) newSummarizer(cfg *config.Config) *summary.Summarizer {
	client := github.NewClient(cfg.Token,
		github.WithBaseURL(cfg.APIBase),
		github.WithTimeout(cfg.Timeout),
		github.WithUserAgent(cfg.UserAgent),
	)
	return summary.New(client, summary.WithLogger(c.Logger))
}
