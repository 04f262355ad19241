package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/oboboa/nlb-api/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "nlbshelf.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func sampleResult() models.BookAvailability {
	return models.BookAvailability{
		Query: models.NewBookQuery("Project Hail Mary", "Andy Weir"),
		BRNs:  []int{456},
		Copies: []models.CopyInfo{
			{Location: "Central", Status: "Not on Loan", Transaction: "Available for loan", Media: "Book", CallNumber: "823 WEI"},
		},
	}
}

func TestResultRoundTrip(t *testing.T) {
	database := testDB(t)
	result := sampleResult()

	if err := database.SaveResult(result); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	got, ok, err := database.GetCachedResult(result.Query.Key(), time.Hour)
	if err != nil {
		t.Fatalf("GetCachedResult failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got.Query.Title != result.Query.Title || len(got.Copies) != 1 {
		t.Errorf("cached result = %+v, want the saved one", got)
	}
	if got.Copies[0].Location != "Central" || got.Copies[0].CallNumber != "823 WEI" {
		t.Errorf("copy = %+v, lost fields on the round trip", got.Copies[0])
	}
}

func TestResultReplacedOnSave(t *testing.T) {
	database := testDB(t)
	result := sampleResult()

	if err := database.SaveResult(result); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	result.Copies = nil
	result.Err = "Search failed: boom"
	if err := database.SaveResult(result); err != nil {
		t.Fatalf("second SaveResult failed: %v", err)
	}

	got, ok, err := database.GetCachedResult(result.Query.Key(), 0)
	if err != nil || !ok {
		t.Fatalf("GetCachedResult = (%v, %v), want a hit", ok, err)
	}
	if got.Err != "Search failed: boom" || len(got.Copies) != 0 {
		t.Errorf("cached result = %+v, want the replacement", got)
	}
}

func TestCacheMissAndTTL(t *testing.T) {
	database := testDB(t)

	_, ok, err := database.GetCachedResult(models.NewBookQuery("Nope", "Nobody").Key(), time.Hour)
	if err != nil {
		t.Fatalf("GetCachedResult failed: %v", err)
	}
	if ok {
		t.Error("expected a miss for an unknown key")
	}

	result := sampleResult()
	if err := database.SaveResult(result); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, ok, _ := database.GetCachedResult(result.Query.Key(), time.Millisecond); ok {
		t.Error("expected a stale entry to miss")
	}
	if _, ok, _ := database.GetCachedResult(result.Query.Key(), 0); !ok {
		t.Error("a zero ttl should never expire entries")
	}
}

func TestClearResults(t *testing.T) {
	database := testDB(t)
	result := sampleResult()

	if err := database.SaveResult(result); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}
	if err := database.ClearResults(); err != nil {
		t.Fatalf("ClearResults failed: %v", err)
	}
	if _, ok, _ := database.GetCachedResult(result.Query.Key(), 0); ok {
		t.Error("expected no cached results after clearing")
	}
}

func TestSavedTitles(t *testing.T) {
	database := testDB(t)

	first := models.NewBookQuery("Dune", "Frank Herbert")
	first.MediaCode = "bks"
	second := models.NewBookQuery("The Midnight Library", "Matt Haig")

	if err := database.SaveTitle(first); err != nil {
		t.Fatalf("SaveTitle failed: %v", err)
	}
	if err := database.SaveTitle(second); err != nil {
		t.Fatalf("SaveTitle failed: %v", err)
	}

	saved, err := database.GetSavedTitles()
	if err != nil {
		t.Fatalf("GetSavedTitles failed: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 saved titles, got %d", len(saved))
	}
	if saved[0].Title != "Dune" || saved[0].MediaCode != "bks" {
		t.Errorf("first saved title = %+v, want Dune [bks]", saved[0])
	}

	if err := database.RemoveTitle("Dune", "Frank Herbert"); err != nil {
		t.Fatalf("RemoveTitle failed: %v", err)
	}
	saved, err = database.GetSavedTitles()
	if err != nil {
		t.Fatalf("GetSavedTitles failed: %v", err)
	}
	if len(saved) != 1 || saved[0].Title != "The Midnight Library" {
		t.Errorf("saved titles after remove = %v, want just The Midnight Library", saved)
	}

	if err := database.ClearTitles(); err != nil {
		t.Fatalf("ClearTitles failed: %v", err)
	}
	saved, err = database.GetSavedTitles()
	if err != nil {
		t.Fatalf("GetSavedTitles failed: %v", err)
	}
	if len(saved) != 0 {
		t.Errorf("expected no saved titles after clearing, got %v", saved)
	}
}
