package state

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err, "opening test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func testRun(id string, started time.Time) *Run {
	return &Run{
		ID:         id,
		Version:    "2-SNAPSHOT",
		Dir:        "/src/app",
		Executable: "mvn",
		Args:       []string{"org.codehaus.mojo:versions-maven-plugin:2.2:set", "-DnewVersion=2-SNAPSHOT", "-DgenerateBackupPoms=false"},
		StartedAt:  started.Truncate(time.Millisecond),
	}
}

func TestSchemaCreation(t *testing.T) {
	s := openTestStore(t)
	runs, err := s.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestIdempotentOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")

	s1, err := Open(dbPath)
	require.NoError(t, err, "first open")
	s1.Close()

	s2, err := Open(dbPath)
	require.NoError(t, err, "second open")
	s2.Close()
}

func TestInsertAndGetPending(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	run := testRun("run-1", time.Now())

	require.NoError(t, s.InsertRun(ctx, run))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, OutcomePending, got.Outcome)
	assert.Equal(t, run.Args, got.Args)
	assert.Nil(t, got.ExitCode)
	assert.True(t, got.StartedAt.Equal(run.StartedAt))
	assert.True(t, got.FinishedAt.IsZero())
}

func TestFinishRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	run := testRun("run-1", time.Now())
	require.NoError(t, s.InsertRun(ctx, run))

	code := 1
	run.Outcome = OutcomeFailed
	run.ExitCode = &code
	run.Stdout = "conflict"
	run.Message = "conflict"
	run.FinishedAt = run.StartedAt.Add(1500 * time.Millisecond)
	require.NoError(t, s.FinishRun(ctx, run))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, got.Outcome)
	require.NotNil(t, got.ExitCode)
	assert.Equal(t, 1, *got.ExitCode)
	assert.Equal(t, "conflict", got.Stdout)
	assert.Empty(t, got.Stderr)
	assert.Equal(t, "conflict", got.Message)
	assert.True(t, got.FinishedAt.Equal(run.FinishedAt))
}

func TestFinishRunZeroExitCode(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	run := testRun("run-0", time.Now())
	require.NoError(t, s.InsertRun(ctx, run))

	code := 0
	run.Outcome = OutcomeSucceeded
	run.ExitCode = &code
	run.FinishedAt = time.Now()
	require.NoError(t, s.FinishRun(ctx, run))

	got, err := s.GetRun(ctx, "run-0")
	require.NoError(t, err)
	require.NotNil(t, got.ExitCode, "zero exit code must not read back as missing")
	assert.Equal(t, 0, *got.ExitCode)
}

func TestFinishUnknownRun(t *testing.T) {
	s := openTestStore(t)
	err := s.FinishRun(context.Background(), &Run{ID: "ghost", Outcome: OutcomeFailed, FinishedAt: time.Now()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetRunNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetRun(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDuplicateRunID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.InsertRun(ctx, testRun("dup", time.Now())))
	assert.Error(t, s.InsertRun(ctx, testRun("dup", time.Now())))
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 5; i++ {
		run := testRun(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Second))
		require.NoError(t, s.InsertRun(ctx, run))
	}

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "run-4", all[0].ID)
	assert.Equal(t, "run-0", all[4].ID)

	limited, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "run-4", limited[0].ID)
	assert.Equal(t, "run-3", limited[1].ID)
}
