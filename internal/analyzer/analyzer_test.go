package analyzer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"rackscope/internal/analyzer"
	"rackscope/internal/export"
	"rackscope/internal/fileutil"
	"rackscope/internal/rack"
	"rackscope/internal/testsupport"
)

func padFixture() testsupport.RackFixture {
	return testsupport.RackFixture{
		Chains: []testsupport.ChainFixture{{Name: "Main", Devices: []testsupport.DeviceFixture{{Tag: "Reverb"}}}},
	}
}

func newService(t *testing.T, opts ...testsupport.ConfigOption) (*analyzer.Service, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenLibrary(t, cfg)
	writer, err := export.NewWriterFromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("NewWriterFromConfig: %v", err)
	}
	return analyzer.New(cfg, store, writer, nil), cfg.Paths.ExportDir
}

func TestAnalyzeFileStoresAndExports(t *testing.T) {
	svc, exportDir := newService(t, testsupport.WithExportFormats("json", "xml"))
	path := testsupport.WriteRackFile(t, t.TempDir(), "Pad.adg", padFixture())

	res, err := svc.AnalyzeFile(context.Background(), path, analyzer.Options{})
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if res.Outcome != analyzer.OutcomeDecoded {
		t.Fatalf("outcome = %s", res.Outcome)
	}
	if res.Document.Name != "Pad" || res.Document.Category != rack.CategoryAudioEffect {
		t.Fatalf("unexpected document %+v", res.Document)
	}
	if res.Analysis == nil || res.Analysis.ID == "" {
		t.Fatal("expected analysis to be stored")
	}
	if len(res.Artifacts) != 2 {
		t.Fatalf("expected two artifacts, got %+v", res.Artifacts)
	}
	if _, err := os.Stat(filepath.Join(exportDir, "Pad_analysis.json")); err != nil {
		t.Fatalf("expected json artifact: %v", err)
	}
}

func TestAnalyzeFileReusesUnchangedContent(t *testing.T) {
	svc, _ := newService(t)
	path := testsupport.WriteRackFile(t, t.TempDir(), "Pad.adg", padFixture())
	ctx := context.Background()

	first, err := svc.AnalyzeFile(ctx, path, analyzer.Options{})
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	second, err := svc.AnalyzeFile(ctx, path, analyzer.Options{})
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if second.Outcome != analyzer.OutcomeCached || second.Analysis.ID != first.Analysis.ID {
		t.Fatalf("expected cached analysis %s, got %s (%s)", first.Analysis.ID, second.Analysis.ID, second.Outcome)
	}

	forced, err := svc.AnalyzeFile(ctx, path, analyzer.Options{Force: true})
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if forced.Outcome != analyzer.OutcomeDecoded || forced.Analysis.ID == first.Analysis.ID {
		t.Fatalf("expected a fresh analysis when forced, got %+v", forced)
	}
}

func TestAnalyzeBytesRenamedContentDecodesAgain(t *testing.T) {
	svc, exportDir := newService(t, testsupport.WithExportFormats("json"))
	data := padFixture().Gzip(t)
	ctx := context.Background()

	first, err := svc.AnalyzeBytes(ctx, "Warm Pad.adg", data, analyzer.Options{})
	if err != nil {
		t.Fatalf("AnalyzeBytes: %v", err)
	}
	renamed, err := svc.AnalyzeBytes(ctx, "Cold Lead.adg", data, analyzer.Options{})
	if err != nil {
		t.Fatalf("AnalyzeBytes: %v", err)
	}
	if renamed.Outcome != analyzer.OutcomeDecoded || renamed.Analysis.ID == first.Analysis.ID {
		t.Fatalf("expected a fresh analysis for the renamed file, got %s (%s)", renamed.Outcome, renamed.Analysis.ID)
	}
	if renamed.Document.Name != "Cold Lead" || renamed.SourcePath != "Cold Lead.adg" {
		t.Fatalf("document name = %q source = %q, want Cold Lead", renamed.Document.Name, renamed.SourcePath)
	}
	if _, err := os.Stat(filepath.Join(exportDir, "Cold Lead_analysis.json")); err != nil {
		t.Fatalf("expected artifact for the renamed file: %v", err)
	}

	again, err := svc.AnalyzeBytes(ctx, "Warm Pad.adg", data, analyzer.Options{})
	if err != nil {
		t.Fatalf("AnalyzeBytes: %v", err)
	}
	if again.Outcome != analyzer.OutcomeCached || again.Analysis.ID != first.Analysis.ID || again.Document.Name != "Warm Pad" {
		t.Fatalf("expected cached Warm Pad analysis %s, got %+v", first.Analysis.ID, again)
	}
}

func TestAnalyzeFileSkipStore(t *testing.T) {
	svc, _ := newService(t)
	path := testsupport.WriteRackFile(t, t.TempDir(), "Pad.adg", padFixture())

	res, err := svc.AnalyzeFile(context.Background(), path, analyzer.Options{SkipStore: true, SkipExport: true})
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if res.Analysis != nil || len(res.Artifacts) != 0 {
		t.Fatalf("expected nothing persisted, got %+v", res)
	}
}

func TestAnalyzeFileRejectsInput(t *testing.T) {
	svc, _ := newService(t, testsupport.WithMaxFileMiB(1))
	dir := t.TempDir()
	ctx := context.Background()

	txt := filepath.Join(dir, "notes.txt")
	testsupport.WriteFile(t, txt, 10)
	if _, err := svc.AnalyzeFile(ctx, txt, analyzer.Options{}); !errors.Is(err, analyzer.ErrUnsupportedExtension) {
		t.Fatalf("expected ErrUnsupportedExtension, got %v", err)
	}

	big := filepath.Join(dir, "big.adg")
	testsupport.WriteFile(t, big, 1<<20+1)
	if _, err := svc.AnalyzeFile(ctx, big, analyzer.Options{}); !errors.Is(err, fileutil.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	garbage := filepath.Join(dir, "garbage.adg")
	testsupport.WriteFile(t, garbage, 64)
	if _, err := svc.AnalyzeFile(ctx, garbage, analyzer.Options{}); !errors.Is(err, rack.ErrDecompression) {
		t.Fatalf("expected decompression error, got %v", err)
	}
}

func TestAnalyzeBytes(t *testing.T) {
	svc, _ := newService(t)
	res, err := svc.AnalyzeBytes(context.Background(), "Upload.adv", padFixture().Gzip(t), analyzer.Options{})
	if err != nil {
		t.Fatalf("AnalyzeBytes: %v", err)
	}
	if res.Document.Name != "Upload" || res.Analysis == nil {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestAnalyzeBatchIsolatesFailures(t *testing.T) {
	svc, _ := newService(t, testsupport.WithWorkers(2))
	dir := t.TempDir()
	good := testsupport.WriteRackFile(t, dir, "Good.adg", padFixture())
	nested := testsupport.WriteRackFile(t, dir, "Nested.adg", testsupport.NestedFixture(2))
	bad := filepath.Join(dir, "Bad.adg")
	testsupport.WriteFile(t, bad, 32)

	results, err := svc.AnalyzeBatch(context.Background(), []string{good, bad, nested}, analyzer.Options{})
	if err != nil {
		t.Fatalf("AnalyzeBatch: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Fatalf("unexpected errors: %v, %v", results[0].Err, results[2].Err)
	}
	if results[1].Outcome != analyzer.OutcomeFailed || results[1].Err == nil {
		t.Fatalf("expected failure for bad file, got %+v", results[1])
	}
	if results[2].Document.Stats().MaxDepth != 2 {
		t.Fatalf("results out of order: %+v", results[2].Document)
	}

	counts := analyzer.Summarize(results)
	if counts[analyzer.OutcomeDecoded] != 2 || counts[analyzer.OutcomeFailed] != 1 {
		t.Fatalf("unexpected summary %v", counts)
	}
}

func TestAnalyzeBatchCancelled(t *testing.T) {
	svc, _ := newService(t)
	path := testsupport.WriteRackFile(t, t.TempDir(), "Pad.adg", padFixture())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.AnalyzeBatch(ctx, []string{path}, analyzer.Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCollectFiles(t *testing.T) {
	svc, _ := newService(t)
	dir := t.TempDir()
	a := testsupport.WriteRackFile(t, filepath.Join(dir, "sub"), "B.adg", padFixture())
	b := testsupport.WriteRackFile(t, dir, "A.ADV", padFixture())
	testsupport.WriteFile(t, filepath.Join(dir, "readme.txt"), 5)
	explicit := filepath.Join(t.TempDir(), "notes.txt")
	testsupport.WriteFile(t, explicit, 5)

	files, err := svc.CollectFiles([]string{dir, explicit})
	if err != nil {
		t.Fatalf("CollectFiles: %v", err)
	}
	want := []string{b, a, explicit}
	if len(files) != len(want) {
		t.Fatalf("CollectFiles = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("CollectFiles = %v, want %v", files, want)
		}
	}

	if _, err := svc.CollectFiles([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Fatal("expected error for missing input")
	}
}
