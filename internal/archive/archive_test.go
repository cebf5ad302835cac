package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()

	cfg := types.ArchiveConfig{
		ArchiveDir: filepath.Join(tmpDir, "archive"),
		MaxResults: 20,
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return store, tmpDir
}

func sampleOpinions() []types.Opinion {
	return []types.Opinion{
		{
			CaseName:     "Roe v. Wade",
			Court:        "Supreme Court of the United States",
			DateFiled:    "1973-01-22",
			URL:          "https://www.courtlistener.com/opinion/108713/roe-v-wade/",
			DocketNumber: "70-18",
			Citation:     "410 U.S. 113, 93 S. Ct. 705",
		},
		{
			CaseName:     "Brown v. Board of Education",
			Court:        "Supreme Court of the United States",
			DateFiled:    "1954-05-17",
			URL:          "https://www.courtlistener.com/opinion/105234/brown-v-board/",
			DocketNumber: "1",
			Citation:     "347 U.S. 483",
		},
		{
			CaseName:  "United States v. Carolene Products Co.",
			Court:     "U.S. Court of Appeals for the Ninth Circuit",
			DateFiled: "1938-04-25",
			URL:       "https://www.courtlistener.com/opinion/103325/carolene/",
			Citation:  "304 U.S. 144",
		},
	}
}

func saveHelper(t *testing.T, store *Store, queryText string) {
	t.Helper()
	var buf strings.Builder
	if _, err := store.Save(context.Background(), sampleOpinions(), queryText, &buf); err != nil {
		t.Fatal(err)
	}
}

// --- schema tests ---

func TestNewStoreCreatesSchema(t *testing.T) {
	store, _ := testSetup(t)

	for _, table := range []string{"opinions", "opinions_fts"} {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type IN ('table','view') AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestNewStoreCreatesDBFile(t *testing.T) {
	store, tmpDir := testSetup(t)
	defer store.Close()

	dbPath := filepath.Join(tmpDir, "archive", indexDir, dbFile)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file not created at %s", dbPath)
	}
}

// --- save tests ---

func TestSave(t *testing.T) {
	store, _ := testSetup(t)

	var buf strings.Builder
	summary, err := store.Save(context.Background(), sampleOpinions(), "landmark cases", &buf)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if summary.Stored != 3 {
		t.Errorf("Stored = %d, want 3", summary.Stored)
	}
	if summary.Updated != 0 {
		t.Errorf("Updated = %d, want 0", summary.Updated)
	}
	if !strings.Contains(buf.String(), "archived: 3 new, 0 updated") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSaveUpsertsByURL(t *testing.T) {
	store, _ := testSetup(t)
	saveHelper(t, store, "first query")

	// Saving again updates rather than duplicating.
	updated := sampleOpinions()
	updated[0].Citation = "410 U.S. 113"

	var buf strings.Builder
	summary, err := store.Save(context.Background(), updated, "second query", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Updated != 3 || summary.Stored != 0 {
		t.Errorf("summary = %+v, want 3 updated", summary)
	}

	var count int
	if err := store.db.QueryRow(`SELECT count(*) FROM opinions`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("row count = %d, want 3 after re-save", count)
	}

	results, err := store.Retrieve(context.Background(), QueryOptions{Court: "Supreme"})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.Query != "second query" {
			t.Errorf("query = %q, want re-save to win", r.Query)
		}
	}
}

func TestSaveSummaryTotal(t *testing.T) {
	s := SaveSummary{Stored: 2, Updated: 3}
	if s.Total() != 5 {
		t.Errorf("Total() = %d, want 5", s.Total())
	}
}

// --- retrieve tests ---

func TestRetrieveFullTextSearch(t *testing.T) {
	store, _ := testSetup(t)
	saveHelper(t, store, "landmark cases")

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{"case name term", "Brown", 1},
		{"citation term", `"410 U.S. 113"`, 1},
		{"shared term", "v", 3},
		{"no match", "zoning", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.Retrieve(context.Background(), QueryOptions{Query: tt.query})
			if err != nil {
				t.Fatal(err)
			}
			if len(results) != tt.wantCount {
				t.Errorf("got %d results, want %d", len(results), tt.wantCount)
			}
		})
	}
}

func TestRetrieveStructuredFilters(t *testing.T) {
	store, _ := testSetup(t)
	saveHelper(t, store, "landmark cases")

	tests := []struct {
		name      string
		opts      QueryOptions
		wantCount int
	}{
		{"court substring", QueryOptions{Court: "Ninth Circuit"}, 1},
		{"date from", QueryOptions{DateFrom: "1950-01-01"}, 2},
		{"date to", QueryOptions{DateTo: "1950-01-01"}, 1},
		{"date range", QueryOptions{DateFrom: "1950-01-01", DateTo: "1960-01-01"}, 1},
		{"combined", QueryOptions{Court: "Supreme", DateFrom: "1970-01-01"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.Retrieve(context.Background(), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if len(results) != tt.wantCount {
				t.Errorf("got %d results, want %d", len(results), tt.wantCount)
			}
		})
	}
}

func TestRetrieveStructuredSortOrder(t *testing.T) {
	store, _ := testSetup(t)
	saveHelper(t, store, "landmark cases")

	results, err := store.Retrieve(context.Background(), QueryOptions{Court: "Supreme"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// Newest filing first for structured queries.
	if results[0].DateFiled < results[1].DateFiled {
		t.Errorf("results not sorted newest first: %q before %q",
			results[0].DateFiled, results[1].DateFiled)
	}
}

func TestRetrieveRespectsMaxResults(t *testing.T) {
	store, _ := testSetup(t)
	saveHelper(t, store, "landmark cases")

	results, err := store.Retrieve(context.Background(), QueryOptions{
		Court:      "Court",
		MaxResults: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) > 2 {
		t.Errorf("got %d results, want <= 2", len(results))
	}
}

func TestRetrieveIncludesMetadata(t *testing.T) {
	store, _ := testSetup(t)
	saveHelper(t, store, "landmark cases")

	results, err := store.Retrieve(context.Background(), QueryOptions{Query: "Roe"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.Query != "landmark cases" {
		t.Errorf("Query = %q", r.Query)
	}
	if r.FetchedAt == "" {
		t.Error("FetchedAt not recorded")
	}
	if r.DocketNumber != "70-18" {
		t.Errorf("DocketNumber = %q", r.DocketNumber)
	}
}

func TestQueryOptionsIsEmpty(t *testing.T) {
	if !(QueryOptions{}).IsEmpty() {
		t.Error("zero options should be empty")
	}
	if (QueryOptions{Court: "scotus"}).IsEmpty() {
		t.Error("options with a filter should not be empty")
	}
}

// --- export tests ---

func TestExportYAML(t *testing.T) {
	store, tmpDir := testSetup(t)
	saveHelper(t, store, "landmark cases")

	if err := store.ExportYAML(context.Background(), QueryOptions{}); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(tmpDir, "archive", indexDir, "export.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var entries []ArchivedOpinion
	if err := yaml.Unmarshal(data, &entries); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries, want 3", len(entries))
	}
}

func TestExportJSON(t *testing.T) {
	store, tmpDir := testSetup(t)
	saveHelper(t, store, "landmark cases")

	if err := store.ExportJSON(context.Background(), QueryOptions{}); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(tmpDir, "archive", indexDir, "export.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var entries []ArchivedOpinion
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries, want 3", len(entries))
	}
}

func TestExportFiltered(t *testing.T) {
	store, tmpDir := testSetup(t)
	saveHelper(t, store, "landmark cases")

	if err := store.ExportJSON(context.Background(), QueryOptions{Court: "Ninth Circuit"}); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(tmpDir, "archive", indexDir, "export.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var entries []ArchivedOpinion
	json.Unmarshal(data, &entries)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if !strings.Contains(entries[0].Court, "Ninth Circuit") {
		t.Errorf("entry court = %q", entries[0].Court)
	}
}

func TestExportIgnoresStoreLimit(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(types.ArchiveConfig{
		ArchiveDir: filepath.Join(tmpDir, "archive"),
		MaxResults: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	var buf strings.Builder
	if _, err := store.Save(context.Background(), sampleOpinions(), "q", &buf); err != nil {
		t.Fatal(err)
	}

	if err := store.ExportYAML(context.Background(), QueryOptions{}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "archive", indexDir, "export.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var entries []ArchivedOpinion
	if err := yaml.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries, want all 3 despite the query limit", len(entries))
	}
}

func TestSaveThenRetrieveRoundTrip(t *testing.T) {
	store, _ := testSetup(t)

	opinions := []types.Opinion{{
		CaseName:     "Marbury v. Madison",
		Court:        "Supreme Court of the United States",
		DateFiled:    "1803-02-24",
		URL:          "https://www.courtlistener.com/opinion/84759/marbury-v-madison/",
		DocketNumber: "5 U.S. 137",
		Citation:     "5 U.S. 137",
	}}
	var buf strings.Builder
	if _, err := store.Save(context.Background(), opinions, fmt.Sprintf("judicial review %d", 1803), &buf); err != nil {
		t.Fatal(err)
	}

	results, err := store.Retrieve(context.Background(), QueryOptions{Query: "Marbury"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Opinion != opinions[0] {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", results[0].Opinion, opinions[0])
	}
}
