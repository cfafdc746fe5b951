package ledger_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genopipe/internal/adapters/ledger"
	"genopipe/internal/core/domain"
)

func openStore(t *testing.T) *ledger.Store {
	t.Helper()
	s, err := ledger.Open(filepath.Join(t.TempDir(), "cache", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func TestEnsureJobInsertsOnce(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	ctx := t.Context()

	first, err := s.EnsureJob(ctx, "align")
	require.NoError(t, err)
	assert.False(t, first.Finished)

	again, err := s.EnsureJob(ctx, "align")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	other, err := s.EnsureJob(ctx, "merge")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestFindJobDoesNotInsert(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	ctx := t.Context()

	_, err := s.FindJob(ctx, "align")
	assert.True(t, errors.Is(err, domain.ErrTaskNotFound))

	// The lookup left no row behind.
	_, err = s.FindJob(ctx, "align")
	assert.True(t, errors.Is(err, domain.ErrTaskNotFound))

	rec, err := s.EnsureJob(ctx, "align")
	require.NoError(t, err)
	require.NoError(t, s.FinishJob(ctx, rec.ID))

	found, err := s.FindJob(ctx, "align")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, found.ID)
	assert.True(t, found.Finished)
}

func TestFinishJobSurvivesReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := t.Context()

	s, err := ledger.Open(path)
	require.NoError(t, err)
	rec, err := s.EnsureJob(ctx, "align")
	require.NoError(t, err)
	require.NoError(t, s.FinishJob(ctx, rec.ID))
	require.NoError(t, s.Close())

	s, err = ledger.Open(path)
	require.NoError(t, err)
	defer s.Close()

	rec, err = s.EnsureJob(ctx, "align")
	require.NoError(t, err)
	assert.True(t, rec.Finished)
}

func TestFinishJobUnknownID(t *testing.T) {
	t.Parallel()
	s := openStore(t)

	err := s.FinishJob(t.Context(), 42)
	assert.Error(t, err)
}

func TestEnsureCallRoundTrip(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	ctx := t.Context()

	key := `expr.correlate(matrix="a.csv", top=5)`
	rec, err := s.EnsureCall(ctx, key)
	require.NoError(t, err)
	assert.False(t, rec.Finished)
	assert.Nil(t, rec.Result)

	require.NoError(t, s.FinishCall(ctx, rec.ID, []byte(`{"pairs":3}`)))

	rec, err = s.EnsureCall(ctx, key)
	require.NoError(t, err)
	assert.True(t, rec.Finished)
	assert.Equal(t, `{"pairs":3}`, string(rec.Result))
}

func TestDeleteResetsRow(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	ctx := t.Context()

	rec, err := s.EnsureJob(ctx, "align")
	require.NoError(t, err)
	require.NoError(t, s.FinishJob(ctx, rec.ID))

	require.NoError(t, s.DeleteJob(ctx, "align"))
	// Deleting again is a no-op.
	require.NoError(t, s.DeleteJob(ctx, "align"))

	fresh, err := s.EnsureJob(ctx, "align")
	require.NoError(t, err)
	assert.False(t, fresh.Finished)
	assert.NotEqual(t, rec.ID, fresh.ID)
}

func TestJobAndCallNamespacesAreSeparate(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	ctx := t.Context()

	job, err := s.EnsureJob(ctx, "align")
	require.NoError(t, err)
	require.NoError(t, s.FinishJob(ctx, job.ID))

	call, err := s.EnsureCall(ctx, "align")
	require.NoError(t, err)
	assert.False(t, call.Finished)
}
