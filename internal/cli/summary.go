package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gitfind/pkg/errors"
	"github.com/matzehuels/gitfind/pkg/summary"
)

// Output formats for the summary command.
const (
	formatText  = "text"
	formatJSON  = "json"
	formatTable = "table"
)

// summaryCommand creates the summary command.
func (c *CLI) summaryCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "summary <repo>",
		Short: "Summarize a GitHub repository",
		Long: `Fetch repository metadata, contributors, languages and the latest commit
from the GitHub API and print a summary record.

The repository may be given as a URL or as owner/name.

Examples:
  gitfind summary https://github.com/python/cpython
  gitfind summary python/cpython --format json
  gitfind summary git@github.com:golang/go.git --format table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateChoice("format", format, formatText, formatJSON, formatTable); err != nil {
				return err
			}
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return c.runSummary(cmd.Context(), cmd.OutOrStdout(), c.newSummarizer(cfg), args[0], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or table")

	return cmd
}

func (c *CLI) runSummary(ctx context.Context, w io.Writer, s *summary.Summarizer, ref, format string) error {
	prog := newProgress(c.Logger)

	var spinner *Spinner
	if format == formatText && isTerminal(os.Stderr) {
		spinner = newSpinnerWithContext(ctx, os.Stderr, "Fetching "+ref+"...")
		spinner.Start()
	}

	rec, err := s.Summarize(ctx, ref)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	prog.done("Summarized " + rec.Ref)

	return writeRecord(w, rec, format)
}

// writeRecord renders rec in the given format.
func writeRecord(w io.Writer, rec *summary.Record, format string) error {
	switch format {
	case formatJSON:
		return writeJSON(w, rec)
	case formatTable:
		return writeTable(w, rec)
	default:
		return writeText(w, rec)
	}
}

func writeJSON(w io.Writer, rec *summary.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func writeText(w io.Writer, rec *summary.Record) error {
	fmt.Fprintln(w, StyleTitle.Render(rec.DisplayName()))
	fmt.Fprintln(w)

	for _, f := range recordFields(rec) {
		printKeyValue(w, f.key, f.style.Render(f.value))
	}

	fmt.Fprintln(w)
	_, err := fmt.Fprintln(w, rec.Report)
	return err
}

func writeTable(w io.Writer, rec *summary.Record) error {
	fields := recordFields(rec)
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{f.key, f.value})
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	keyStyle := cellStyle.Foreground(colorGray)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Field", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1: // header
				return headerStyle
			case col == 0:
				return keyStyle
			default:
				return cellStyle
			}
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

type field struct {
	key   string
	value string
	style lipgloss.Style
}

// recordFields lists the displayed fields of rec in a fixed order.
// Absent values render as "-".
func recordFields(rec *summary.Record) []field {
	langs := "-"
	if len(rec.Languages) > 0 {
		langs = strings.Join(rec.Languages, ", ")
	}

	return []field{
		{"Repository", rec.Ref, StyleLink},
		{"Description", orDash(rec.Description), StyleValue},
		{"Stars", strconv.Itoa(rec.Stars), StyleStar},
		{"Forks", strconv.Itoa(rec.Forks), StyleNumber},
		{"Contributors", strconv.Itoa(rec.Contributors), StyleNumber},
		{"Languages", langs, StyleHighlight},
		{"Last commit", orDash(rec.LastCommitAt), StyleValue},
		{"Last pushed", orDash(rec.LastPushedAt), StyleValue},
	}
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
