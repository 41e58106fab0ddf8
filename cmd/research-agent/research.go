// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-agent/internal/archive"
	"github.com/pdiddy/research-agent/internal/extract"
	"github.com/pdiddy/research-agent/internal/notify"
	"github.com/pdiddy/research-agent/internal/pipeline"
	"github.com/pdiddy/research-agent/internal/search"
	"github.com/pdiddy/research-agent/internal/secrets"
	"github.com/pdiddy/research-agent/internal/summarize"
	"github.com/pdiddy/research-agent/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [query...]",
	Short: "Research a question and print a cited summary",
	Long: `Research searches the web for the query, extracts readable text from the
top results in rank order, and summarizes them. Each claim in the summary
cites its source as [Source N], where N is the source's position in the
printed Sources list.

Failures along the way (search errors, unreachable pages, completion errors)
are reported as warnings and never abort the run.

--save-results writes the search results to a YAML file; --from-results
replays such a file instead of searching, reusing its query when none is
given.`,
	Example: `  research-agent research latest developments in quantum computing
  research-agent research --json --save "rust async runtimes"
  research-agent research --from-results results.yaml`,
	RunE: runResearch,
}

func runResearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	fromResults, _ := cmd.Flags().GetString("from-results")
	saveResults, _ := cmd.Flags().GetString("save-results")

	var replay *search.ResultsFile
	if fromResults != "" {
		rf, err := search.ReadResultsFile(fromResults)
		if err != nil {
			return err
		}
		replay = rf
		if query == "" {
			query = strings.TrimSpace(rf.Query)
		}
	}
	if query == "" {
		return errors.New("query required")
	}

	searchFlag, _ := cmd.Flags().GetString("search-api-key")
	openaiFlag, _ := cmd.Flags().GetString("openai-api-key")
	model, _ := cmd.Flags().GetString("model")
	numResults, _ := cmd.Flags().GetInt("num-results")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	save, _ := cmd.Flags().GetBool("save")

	if model == "" {
		model = viper.GetString("openai_model")
	}

	n := notify.NewLogger(logger)

	searchCfg := types.SearchConfig{
		APIKey:   loadedSecrets.Resolve(secrets.SearchAPIKey, searchFlag, viper.GetString("search_api_key")),
		Endpoint: viper.GetString("search_endpoint"),
	}
	summaryCfg := types.SummaryConfig{
		APIKey:  loadedSecrets.Resolve(secrets.OpenAIAPIKey, openaiFlag, viper.GetString("openai_api_key")),
		Model:   model,
		BaseURL: viper.GetString("openai_base_url"),
	}

	var provider search.Provider
	if replay != nil {
		provider = search.FileProvider{File: replay}
	} else {
		provider = search.New(searchCfg, n)
	}
	if saveResults != "" {
		provider = search.SavingProvider{Provider: provider, Path: saveResults, Notifier: n}
	}

	p := pipeline.New(
		provider,
		extract.New(types.ExtractConfig{}, logger),
		summarize.New(summaryCfg, n),
		types.PipelineConfig{NumResults: numResults, Delay: pipeline.DefaultDelay},
		logger,
	)

	ctx := cmd.Context()
	result := p.Research(ctx, query)

	out := cmd.OutOrStdout()
	if jsonOutput {
		if err := pipeline.FormatJSON(result, out); err != nil {
			return err
		}
	} else {
		pipeline.FormatText(result, out)
	}

	if !save {
		return nil
	}

	store, err := archive.Open(archiveConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Save(ctx, query, result, time.Now())
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "saved run %d\n", id)
	return nil
}

func init() {
	researchCmd.Flags().Bool("json", false, "output the result as JSON")
	researchCmd.Flags().Bool("save", false, "store the run in the archive")
	researchCmd.Flags().String("search-api-key", "", "SerpAPI key (default: SEARCH_API_KEY or .secrets/search-api-key)")
	researchCmd.Flags().String("openai-api-key", "", "OpenAI API key (default: OPENAI_API_KEY or .secrets/openai-api-key)")
	researchCmd.Flags().String("model", "", "chat completion model (default: openai_model or gpt-3.5-turbo)")
	researchCmd.Flags().String("save-results", "", "write the search results to this YAML file")
	researchCmd.Flags().String("from-results", "", "replay search results from a file written by --save-results")
	researchCmd.Flags().IntP("num-results", "n", pipeline.DefaultNumResults, "number of search results to read")

	rootCmd.AddCommand(researchCmd)
}
