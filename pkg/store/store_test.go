package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quidome/whereshot-go/pkg/analyze"
	"github.com/quidome/whereshot-go/pkg/estimate"
	"github.com/quidome/whereshot-go/pkg/geo"
	"github.com/quidome/whereshot-go/pkg/metadata"
	"github.com/quidome/whereshot-go/pkg/scan"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	return st
}

func sampleReports() []analyze.Report {
	taken := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)
	alt := 333.0
	return []analyze.Report{
		{
			Path:   "b/IMG_20240309_143000.jpg",
			Kind:   scan.KindPhoto,
			Size:   42,
			SHA256: "abc",
			Metadata: &metadata.Record{
				Original: &taken,
				GPS:      &metadata.GPS{Point: geo.Point{Lat: 35.658581, Lon: 139.745433}, Altitude: &alt},
			},
			Estimate: &estimate.Result{
				Estimated:  &taken,
				Method:     estimate.MethodOriginal,
				Confidence: 0.95,
				Analysis:   estimate.Analysis{Consistency: estimate.ConsistencyHigh, Agreement: 1},
			},
		},
		{
			Path:  "a/missing.jpg",
			Error: "analyze: stat a/missing.jpg: file does not exist",
		},
	}
}

func TestStore_SaveRunAndResults(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.SaveRun(ctx, "/photos", sampleReports())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, 2, run.Files)
	assert.Equal(t, 1, run.Failed)

	results, err := st.Results(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)

	failed := results[0]
	assert.Equal(t, "a/missing.jpg", failed.Path)
	assert.Nil(t, failed.Estimated)
	assert.Nil(t, failed.Position)
	assert.Equal(t, estimate.MethodNone, failed.Method)
	assert.Equal(t, estimate.ConsistencyNone, failed.Consistency)
	assert.NotEmpty(t, failed.Error)

	ok := results[1]
	assert.Equal(t, run.ID, ok.RunID)
	assert.Equal(t, "abc", ok.SHA256)
	require.NotNil(t, ok.Estimated)
	assert.True(t, ok.Estimated.Equal(time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)))
	assert.Equal(t, estimate.MethodOriginal, ok.Method)
	assert.InDelta(t, 0.95, ok.Confidence, 1e-9)
	assert.Equal(t, estimate.ConsistencyHigh, ok.Consistency)

	require.NotNil(t, ok.Position)
	assert.InDelta(t, 35.658581, ok.Position.Lat, 1e-9)
	assert.InDelta(t, 139.745433, ok.Position.Lon, 1e-9)
	require.NotNil(t, ok.Altitude)
	assert.InDelta(t, 333.0, *ok.Altitude, 1e-9)

	assert.Equal(t, scan.KindPhoto, ok.Report.Kind)
	require.NotNil(t, ok.Report.Metadata)
	require.NotNil(t, ok.Report.Metadata.GPS)
}

func TestStore_ListRunsNewestFirst(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, root := range []string{"first", "second", "third"} {
		created := base.Add(time.Duration(i) * time.Hour)
		st.now = func() time.Time { return created }
		_, err := st.SaveRun(ctx, root, nil)
		require.NoError(t, err)
	}

	runs, err := st.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "third", runs[0].Root)
	assert.Equal(t, "second", runs[1].Root)
	assert.True(t, runs[0].CreatedAt.Equal(base.Add(2*time.Hour)))
	assert.Zero(t, runs[0].Files)
}

func TestStore_ResultsUnknownRun(t *testing.T) {
	st := newTestStore(t)

	results, err := st.Results(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStore_ReopenKeepsHistory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	st, err := New(ctx, path)
	require.NoError(t, err)
	run, err := st.SaveRun(ctx, "/photos", sampleReports())
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = New(ctx, path)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}
