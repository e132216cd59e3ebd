package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/waview/waview/internal/analyzer"
	"github.com/waview/waview/internal/output"
	"github.com/waview/waview/internal/parser"
)

var (
	outputFmt  string
	outputFile string
	fromStr    string
	toStr      string
	latestN    int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <export.txt>",
	Short: "Print a one-shot analysis report",
	Long: `Parse a WhatsApp chat export and print the analysis report to the
terminal, without starting the dashboard.

Examples:
  waview analyze chat.txt
  waview analyze chat.txt -o json > report.json
  waview analyze chat.txt --from 2024-01-01 --to 2024-06-30`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&outputFmt, "output", "o", "text", "output format: text, json")
	analyzeCmd.Flags().StringVar(&outputFile, "file", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().StringVar(&fromStr, "from", "", "start date filter (YYYY-MM-DD)")
	analyzeCmd.Flags().StringVar(&toStr, "to", "", "end date filter (YYYY-MM-DD, inclusive)")
	analyzeCmd.Flags().IntVar(&latestN, "latest", analyzer.DefaultLatest, "number of latest messages to include")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	from, err := parseDate(fromStr)
	if err != nil {
		return fmt.Errorf("parsing --from: %w", err)
	}
	to, err := parseDate(toStr)
	if err != nil {
		return fmt.Errorf("parsing --to: %w", err)
	}
	if to != nil {
		// Inclusive end of day.
		endOfDay := to.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		to = &endOfDay
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	chat, err := parser.Parse(f, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if from != nil || to != nil {
		chat = chat.Filter(from, to)
	}

	report := analyzer.Analyze(chat)
	if latestN != analyzer.DefaultLatest {
		if latestN < 0 {
			return fmt.Errorf("--latest must be non-negative, got %d", latestN)
		}
		report.Latest = analyzer.LatestMessages(chat, latestN)
	}

	var renderer output.Renderer
	switch strings.ToLower(outputFmt) {
	case "json":
		renderer = output.NewJSONRenderer()
	default:
		renderer = output.NewTextRenderer()
	}

	w := os.Stdout
	if outputFile != "" {
		out, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer out.Close()
		w = out
	}

	return renderer.Render(w, report)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("unknown date format: %q (expected YYYY-MM-DD)", s)
	}
	return &t, nil
}
