package service

import (
	"testing"

	"web3_annotate/internal/domain"
)

func TestTally_ZeroSubmissions(t *testing.T) {
	options := []*domain.Option{
		{ID: 1, TaskID: 10, ImageURL: "a.jpg"},
		{ID: 2, TaskID: 10, ImageURL: "b.jpg"},
		{ID: 3, TaskID: 10, ImageURL: "c.jpg"},
	}

	result := tally(10, options, nil)

	if len(result) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(result))
	}
	for _, o := range options {
		entry, ok := result[o.ID]
		if !ok {
			t.Fatalf("option %d missing from result", o.ID)
		}
		if entry.Count != 0 {
			t.Fatalf("option %d count = %d; want 0", o.ID, entry.Count)
		}
		if entry.Option.ImageURL != o.ImageURL {
			t.Fatalf("option %d image = %q; want %q", o.ID, entry.Option.ImageURL, o.ImageURL)
		}
	}
}

func TestTally_CountsPerOption(t *testing.T) {
	options := []*domain.Option{
		{ID: 1, TaskID: 10, ImageURL: "a.jpg"},
		{ID: 2, TaskID: 10, ImageURL: "b.jpg"},
	}
	subs := []*domain.Submission{
		{ID: 100, TaskID: 10, OptionID: 1, WorkerID: 7},
		{ID: 101, TaskID: 10, OptionID: 1, WorkerID: 8},
		{ID: 102, TaskID: 10, OptionID: 1, WorkerID: 9},
		{ID: 103, TaskID: 10, OptionID: 2, WorkerID: 7},
	}

	result := tally(10, options, subs)

	if got := result[1].Count; got != 3 {
		t.Fatalf("option 1 count = %d; want 3", got)
	}
	if got := result[2].Count; got != 1 {
		t.Fatalf("option 2 count = %d; want 1", got)
	}
	if result[1].Option.ImageURL != "a.jpg" || result[2].Option.ImageURL != "b.jpg" {
		t.Fatalf("image urls not carried through: %+v", result)
	}
}

func TestTally_SkipsOrphanedSubmission(t *testing.T) {
	options := []*domain.Option{
		{ID: 1, TaskID: 10, ImageURL: "a.jpg"},
		{ID: 2, TaskID: 10, ImageURL: "b.jpg"},
	}
	// option 99 is not part of the task's option set
	subs := []*domain.Submission{
		{ID: 100, TaskID: 10, OptionID: 1, WorkerID: 7},
		{ID: 101, TaskID: 10, OptionID: 99, WorkerID: 8},
	}

	result := tally(10, options, subs)

	if len(result) != 2 {
		t.Fatalf("orphan leaked into result: %+v", result)
	}
	if got := result[1].Count; got != 1 {
		t.Fatalf("option 1 count = %d; want 1", got)
	}
	if got := result[2].Count; got != 0 {
		t.Fatalf("option 2 count = %d; want 0", got)
	}
}
