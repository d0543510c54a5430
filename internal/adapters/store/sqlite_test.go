package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/avesta/hackboard/internal/adapters/store"
	"github.com/avesta/hackboard/internal/domain/model"
	"github.com/stretchr/testify/require"
)

func openTestGateway(t *testing.T) *store.SQLiteGateway {
	t.Helper()
	g, err := store.OpenSQLite(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func TestSQLiteOpenRequiresPath(t *testing.T) {
	_, err := store.OpenSQLite("  ")
	require.ErrorIs(t, err, store.ErrUnavailable)
}

func TestSQLiteCreateAndGet(t *testing.T) {
	ctx := context.Background()
	g := openTestGateway(t)

	ev := sampleEvent("ev-1")
	ev.CreatedAt = time.Now()
	ev.UpdatedAt = ev.CreatedAt

	created, err := g.Create(ctx, ev)
	require.NoError(t, err)
	require.Equal(t, int64(1), created.Version)

	got, err := g.GetByID(ctx, "ev-1")
	require.NoError(t, err)
	require.Equal(t, "Hack Day", got.Info.Name)
	require.Equal(t, int64(1), got.Version)
	require.Len(t, got.Rubrics, 1)

	_, err = g.Create(ctx, ev)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = g.GetByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLiteConditionalReplace(t *testing.T) {
	ctx := context.Background()
	g := openTestGateway(t)

	created, err := g.Create(ctx, sampleEvent("ev-1"))
	require.NoError(t, err)

	// A write carrying the read version succeeds and bumps it.
	doc := created.Clone()
	doc.Info.Location = "Hall B"
	doc.UpdatedAt = time.Now()
	replaced, err := g.Replace(ctx, doc)
	require.NoError(t, err)
	require.Equal(t, int64(2), replaced.Version)

	// A second writer still holding version 1 must conflict.
	stale := created.Clone()
	stale.Info.Location = "Hall C"
	_, err = g.Replace(ctx, stale)
	require.ErrorIs(t, err, store.ErrVersionMismatch)

	// The winning write is intact.
	got, err := g.GetByID(ctx, "ev-1")
	require.NoError(t, err)
	require.Equal(t, "Hall B", got.Info.Location)

	// Replacing a missing document reports not found.
	require.NoError(t, g.Delete(ctx, "ev-1"))
	_, err = g.Replace(ctx, doc)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLiteDeleteAndScan(t *testing.T) {
	ctx := context.Background()
	g := openTestGateway(t)

	for _, id := range []string{"ev-1", "ev-2", "ev-3"} {
		ev := sampleEvent(id)
		ev.CreatedAt = time.Now()
		_, err := g.Create(ctx, ev)
		require.NoError(t, err)
	}

	all, err := g.ScanAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	require.NoError(t, g.Delete(ctx, "ev-2"))
	require.ErrorIs(t, g.Delete(ctx, "ev-2"), store.ErrNotFound)

	all, err = g.ScanAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestSQLiteRoundTripsEmbeddedCollections(t *testing.T) {
	ctx := context.Background()
	g := openTestGateway(t)

	ev := sampleEvent("ev-1")
	ev.Teams = []model.Team{{
		TeamID:         "t1",
		TeamName:       "Alpha",
		Members:        []string{"a@x.io", "b@x.io", "c@x.io", "d@x.io"},
		SlotPreference: 2,
	}}
	ev.Judges = []model.Judge{{JudgeID: "j1", Status: model.JudgeApproved}}
	ev.Slots = []model.Slot{{SlotNumber: 2, Location: "Room 4"}}
	ev.Scores = []model.Score{{
		JudgeID: "j1", TeamID: "t1", RubricID: "impact", Score: 7.5,
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
	}}

	_, err := g.Create(ctx, ev)
	require.NoError(t, err)

	got, err := g.GetByID(ctx, "ev-1")
	require.NoError(t, err)
	require.Equal(t, ev.Teams, got.Teams)
	require.Equal(t, ev.Judges, got.Judges)
	require.Equal(t, ev.Slots, got.Slots)
	require.Len(t, got.Scores, 1)
	require.Equal(t, 7.5, got.Scores[0].Score)
}
