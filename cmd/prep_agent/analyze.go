package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tuanngo/preppath/internal/analysis"
	"github.com/tuanngo/preppath/internal/areas"
	"github.com/tuanngo/preppath/internal/ingestion"
	"github.com/tuanngo/preppath/internal/llm"
	"github.com/tuanngo/preppath/internal/observability"
)

var (
	analyzeJobPath    string
	analyzeJobURL     string
	analyzeUseBrowser bool
	analyzeLanguage   string
	analyzeVerbose    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a job description without persisting anything",
	Long: `Extract structured requirements and knowledge areas from a job description
supplied as a file (--job) or a posting URL (--url) and print them as JSON.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeJobPath, "job", "", "Path to a JD file (.pdf, .docx, .txt)")
	analyzeCmd.Flags().StringVar(&analyzeJobURL, "url", "", "Job posting URL")
	analyzeCmd.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Use a headless browser for SPA job boards")
	analyzeCmd.Flags().StringVar(&analyzeLanguage, "language", "", "Output language code (vi or en)")
	analyzeCmd.Flags().BoolVar(&analyzeVerbose, "verbose", false, "Print detailed progress")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if (analyzeJobPath == "") == (analyzeJobURL == "") {
		return fmt.Errorf("provide exactly one of --job or --url")
	}

	ctx := cmd.Context()

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		return fmt.Errorf("generation backend unavailable: %w", err)
	}
	defer func() { _ = client.Close() }()

	extractor := analysis.NewExtractor(client)

	var text string
	if analyzeJobPath != "" {
		content, err := os.ReadFile(analyzeJobPath)
		if err != nil {
			return fmt.Errorf("failed to read job file: %w", err)
		}
		text, err = ingestion.FromFile(content, filepath.Base(analyzeJobPath))
		if err != nil {
			return err
		}
	} else {
		raw, err := ingestion.FromURL(ctx, analyzeJobURL, ingestion.URLOptions{
			UseBrowser: analyzeUseBrowser,
			Verbose:    analyzeVerbose,
		})
		if err != nil {
			return err
		}
		isolated, err := extractor.IsolateJobContent(ctx, raw, analyzeJobURL)
		if err != nil {
			return err
		}
		text = ingestion.CleanText(isolated)
	}

	requirements, err := extractor.Extract(ctx, text, analysis.Options{Language: analyzeLanguage})
	if err != nil {
		return err
	}

	areaList := areas.NewDeriver(client).Derive(ctx, requirements, nil, analyzeLanguage)

	if analyzeVerbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintRequirements(requirements)
		printer.PrintKnowledgeAreas(areaList)
	}

	out := map[string]any{
		"requirements":    requirements,
		"knowledge_areas": areaList,
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
