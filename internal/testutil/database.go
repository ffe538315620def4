// Package testutil provides shared fixtures for package tests: a migrated in-memory
// database and a few ready-made sessions.
package testutil

import (
	"context"
	"testing"

	"github.com/PROGPA/gpacalculaters/internal/model"
	"github.com/PROGPA/gpacalculaters/internal/session"
	"github.com/PROGPA/gpacalculaters/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database, runs migrations and stores
// any seed sessions. The database is closed when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.CollegeSession(t))
func SetupTestDB(t *testing.T, seed ...*session.Session) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for _, s := range seed {
		if err := store.SaveSession(ctx, s); err != nil {
			t.Fatalf("failed to seed session %q: %v", s.Name, err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// MustGetSession loads a session or fails the test.
func (db *TestDB) MustGetSession(id string) *session.Session {
	db.t.Helper()
	s, err := db.Storage.GetSession(context.Background(), id)
	if err != nil {
		db.t.Fatalf("failed to load session %s: %v", id, err)
	}
	return s
}

// Grade is a label, token and weight triple used to fill a group.
type Grade struct {
	Label  string
	Token  string
	Weight float64
}

// FillGroup writes grades into the entries of group gi, adding entries when the
// group is too short.
func FillGroup(t *testing.T, s *session.Session, gi int, grades ...Grade) {
	t.Helper()
	for gi >= len(s.Groups) {
		s.AddGroup("")
	}
	g := s.Groups[gi]
	for i, gr := range grades {
		var entryID string
		if i < len(s.Groups[gi].Entries) {
			entryID = s.Groups[gi].Entries[i].ID
		} else {
			e, err := s.AddEntry(g.ID)
			if err != nil {
				t.Fatalf("failed to add entry: %v", err)
			}
			entryID = e.ID
		}
		label, token, weight := gr.Label, gr.Token, gr.Weight
		if _, err := s.UpdateEntry(g.ID, entryID, session.EntryUpdate{Label: &label, Token: &token, Weight: &weight}); err != nil {
			t.Fatalf("failed to update entry: %v", err)
		}
	}
}

// CollegeSession returns a one-semester letter-grade session worth 3.63 over
// 10 credits, blended to 3.519 with a 3.5 GPA over 60 prior credits.
func CollegeSession(t *testing.T) *session.Session {
	t.Helper()
	s := session.New(model.ModeCreditWeightedLetter, session.WithName("college"), session.WithKind("college"))
	FillGroup(t, s, 0,
		Grade{"Calculus", "A", 3},
		Grade{"Physics", "B+", 4},
		Grade{"Writing", "A-", 3},
	)
	s.SetPrior(&model.Prior{Score: 3.5, Weight: 60})
	return s
}
