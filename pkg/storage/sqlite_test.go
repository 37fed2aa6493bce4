package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mleary/quotedash/pkg/pipeline"
)

func newTestRepository(t *testing.T) *SQLiteRunRepository {
	t.Helper()

	repo, err := NewSQLiteRunRepositoryWithPath(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func completedRun(t *testing.T, topic string) *pipeline.Run {
	t.Helper()

	run, err := pipeline.NewRun(pipeline.Input{Topic: topic, Count: 2})
	require.NoError(t, err)
	require.NoError(t, run.Start())

	for _, step := range pipeline.Steps() {
		require.NoError(t, run.RecordStep(&pipeline.StepRecord{
			StepID:      step.ID,
			Status:      pipeline.StepStatusCompleted,
			QuoteCount:  2,
			StartedAt:   time.Now().Add(-time.Second),
			CompletedAt: time.Now(),
		}))
	}
	require.NoError(t, run.Complete())

	return run
}

func TestSaveAndLoadRun(t *testing.T) {
	repo := newTestRepository(t)

	run := completedRun(t, "science")
	require.NoError(t, repo.Save(run))

	loaded, err := repo.Load(run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.ID, loaded.ID)
	assert.Equal(t, "science", loaded.Topic)
	assert.Equal(t, 2, loaded.Count)
	assert.Equal(t, pipeline.StatusCompleted, loaded.Status)
	assert.False(t, loaded.CompletedAt.IsZero())

	require.Len(t, loaded.StepRecords, 4)
	for i, step := range pipeline.Steps() {
		assert.Equal(t, step.ID, loaded.StepRecords[i].StepID)
		assert.Equal(t, pipeline.StepStatusCompleted, loaded.StepRecords[i].Status)
		assert.Equal(t, 2, loaded.StepRecords[i].QuoteCount)
	}
}

func TestSaveUpdatesExistingRun(t *testing.T) {
	repo := newTestRepository(t)

	run, err := pipeline.NewRun(pipeline.Input{Topic: "humor", Count: 1})
	require.NoError(t, err)
	require.NoError(t, run.Start())
	require.NoError(t, repo.Save(run))

	require.NoError(t, run.Fail(pipeline.StepAuthorInfo, "connection refused"))
	require.NoError(t, repo.Save(run))

	loaded, err := repo.Load(run.ID)
	require.NoError(t, err)

	assert.Equal(t, pipeline.StatusFailed, loaded.Status)
	assert.Equal(t, pipeline.StepAuthorInfo, loaded.FailedStep)
	assert.Equal(t, "connection refused", loaded.ErrorMessage)

	// The skipped steps recorded by Fail come back in order
	require.Len(t, loaded.StepRecords, 2)
	assert.Equal(t, pipeline.StepStatusSkipped, loaded.StepRecords[0].Status)
}

func TestSaveNilRun(t *testing.T) {
	repo := newTestRepository(t)
	assert.Error(t, repo.Save(nil))
}

func TestLoadMissingRun(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Load(pipeline.RunID("no-such-run"))
	assert.Error(t, err)
}

func TestListReturnsNewestFirst(t *testing.T) {
	repo := newTestRepository(t)

	first := completedRun(t, "first")
	first.StartedAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, repo.Save(first))

	second := completedRun(t, "second")
	second.StartedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Save(second))

	third := completedRun(t, "third")
	require.NoError(t, repo.Save(third))

	runs, err := repo.List(2)
	require.NoError(t, err)

	require.Len(t, runs, 2)
	assert.Equal(t, "third", runs[0].Topic)
	assert.Equal(t, "second", runs[1].Topic)

	// List omits step records; Load retrieves them
	assert.Empty(t, runs[0].StepRecords)
}

func TestDeleteRun(t *testing.T) {
	repo := newTestRepository(t)

	run := completedRun(t, "science")
	require.NoError(t, repo.Save(run))

	require.NoError(t, repo.Delete(run.ID))

	_, err := repo.Load(run.ID)
	assert.Error(t, err)

	assert.Error(t, repo.Delete(run.ID))
}
