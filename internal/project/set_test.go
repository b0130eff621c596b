package project

import (
	"errors"
	"testing"
)

func TestSetDeduplicates(t *testing.T) {
	t.Parallel()

	set := NewSet()

	first := &Project{ID: "a", Link: "https://example.com/a", Title: "first"}
	duplicateID := &Project{ID: "a", Link: "https://example.com/other", Title: "dup id"}
	duplicateLink := &Project{ID: "b", Link: "https://example.com/a", Title: "dup link"}
	second := &Project{ID: "c", Link: "https://example.com/c", Title: "second"}

	if !set.Add(first) {
		t.Fatal("expected first insert to succeed")
	}
	if set.Add(duplicateID) {
		t.Fatal("expected duplicate id to be rejected")
	}
	if set.Add(duplicateLink) {
		t.Fatal("expected duplicate link to be rejected")
	}
	if !set.Add(second) {
		t.Fatal("expected distinct project to be accepted")
	}
	if set.Add(nil) {
		t.Fatal("expected nil to be rejected")
	}

	items := set.Items()
	if len(items) != 2 || set.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "first" || items[1].Title != "second" {
		t.Fatalf("expected first-wins insertion order, got %q then %q", items[0].Title, items[1].Title)
	}
}

func TestInstructionConstructors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		project  *Project
		expectID string
	}{
		{"offline", NewOfflineNotice("http://localhost:3001"), "proxy-offline"},
		{"no results", NewNoResults([]string{"react", "python"}), "no-results"},
		{"fetch error", NewFetchError(errors.New("boom")), "fetch-error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.project.ID != tt.expectID {
				t.Fatalf("expected id %q, got %q", tt.expectID, tt.project.ID)
			}
			if !tt.project.IsInstruction() {
				t.Fatal("expected an instruction record")
			}
			if tt.project.Description == "" {
				t.Fatal("expected a non-empty description")
			}
		})
	}
}
