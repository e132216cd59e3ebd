package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/waview/waview/internal/analyzer"
)

const sampleExport = `1/2/24, 9:00 AM - Alice: morning
1/2/24, 9:05 AM - Bob: hey
1/2/24, 9:10 AM - Alice: coffee?
1/2/24, 9:12 AM - Bob: sure
1/2/24, 9:15 AM - Alice: see you at ten
1/2/24, 9:20 AM - Bob: deal
`

func runAnalyzeCommand(t *testing.T, args ...string) *analyzer.Report {
	t.Helper()

	dir := t.TempDir()
	in := filepath.Join(dir, "chat.txt")
	if err := os.WriteFile(in, []byte(sampleExport), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "report.json")

	rootCmd.SetArgs(append([]string{"analyze", in, "-o", "json", "--file", out}, args...))
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var report analyzer.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	return &report
}

func TestAnalyzeLatestFlag(t *testing.T) {
	defer func() { latestN = analyzer.DefaultLatest }()

	report := runAnalyzeCommand(t, "--latest", "2")
	if len(report.Latest) != 2 {
		t.Fatalf("expected 2 latest messages, got %d", len(report.Latest))
	}
	if report.Latest[1].Sender != "Bob" || report.Latest[1].Body != "deal" {
		t.Errorf("unexpected last message: %+v", report.Latest[1])
	}
}

func TestAnalyzeLatestDefault(t *testing.T) {
	defer func() { latestN = analyzer.DefaultLatest }()

	report := runAnalyzeCommand(t)
	if len(report.Latest) != analyzer.DefaultLatest {
		t.Fatalf("expected %d latest messages, got %d", analyzer.DefaultLatest, len(report.Latest))
	}
}
