// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-agent/internal/archive"
	"github.com/pdiddy/research-agent/internal/pipeline"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse research runs saved with research --save",
	Long: `History reads the local SQLite archive of saved research runs. Use
subcommands to list, show, search, or export them.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := archive.Open(archiveConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		formatRuns(cmd.OutOrStdout(), runs)
		return nil
	},
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved run with its summary and sources",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q", args[0])
		}
		jsonOutput, _ := cmd.Flags().GetBool("json")

		store, err := archive.Open(archiveConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(run)
		}
		fmt.Fprintf(out, "Run %d: %s (%s)\n\n", run.ID, run.Query, run.CreatedAt.Local().Format("2006-01-02 15:04"))
		pipeline.FormatText(run.ResearchResult, out)
		return nil
	},
}

// --- search subcommand ---

var historySearchCmd = &cobra.Command{
	Use:   "search <text...>",
	Short: "Find saved runs whose query, summary, or sources contain text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := archive.Open(archiveConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Search(cmd.Context(), text, limit)
		if err != nil {
			return err
		}
		formatRuns(cmd.OutOrStdout(), runs)
		return nil
	},
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every saved run to YAML or JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		if format != "yaml" && format != "json" {
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}

		store, err := archive.Open(archiveConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		w := cmd.OutOrStdout()
		if output != "" {
			f, ferr := os.Create(output)
			if ferr != nil {
				return fmt.Errorf("creating %s: %w", output, ferr)
			}
			defer func() {
				if cerr := f.Close(); err == nil {
					err = cerr
				}
			}()
			w = f
		}

		if format == "json" {
			err = store.ExportJSON(cmd.Context(), w)
		} else {
			err = store.ExportYAML(cmd.Context(), w)
		}
		if err != nil {
			return err
		}
		if output != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
		}
		return nil
	},
}

// --- shared helpers ---

func formatRuns(w io.Writer, runs []archive.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return
	}

	fmt.Fprintf(w, "%-6s  %-16s  %-7s  %s\n", "ID", "Created", "Sources", "Query")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, r := range runs {
		query := r.Query
		if utf8.RuneCountInString(query) > 45 {
			query = string([]rune(query)[:42]) + "..."
		}
		fmt.Fprintf(w, "%-6d  %-16s  %-7d  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.NumSources, query)
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
}

func init() {
	historyListCmd.Flags().Int("limit", 0, "maximum runs to list (0 = default 20)")
	historySearchCmd.Flags().Int("limit", 0, "maximum runs to list (0 = default 20)")
	historyShowCmd.Flags().Bool("json", false, "output the run as JSON")
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("output", "", "write to file instead of stdout")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
