package repository

import (
	"testing"

	"github.com/rpattn/fleetgrid/internal/domain"
)

func TestOrderByRankPreservesWindowOrder(t *testing.T) {
	ids := []int64{30, 10, 20}
	vehicles := []domain.Vehicle{
		{ID: 10, Name: "a"},
		{ID: 20, Name: "b"},
		{ID: 30, Name: "c"},
	}

	got := orderByRank(ids, vehicles)

	if len(got) != 3 {
		t.Fatalf("expected 3 vehicles, got %d", len(got))
	}
	for i, want := range ids {
		if got[i].ID != want {
			t.Fatalf("position %d: expected id %d, got %d", i, want, got[i].ID)
		}
	}
}

func TestOrderByRankDropsMissingIDs(t *testing.T) {
	ids := []int64{1, 2, 3}
	vehicles := []domain.Vehicle{
		{ID: 3, Name: "c"},
		{ID: 1, Name: "a"},
	}

	got := orderByRank(ids, vehicles)

	if len(got) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("expected ids [1 3], got [%d %d]", got[0].ID, got[1].ID)
	}
}

func TestOrderByRankEmptyWindow(t *testing.T) {
	got := orderByRank(nil, nil)
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d vehicles", len(got))
	}
}
