package writer

import (
	"context"
	"errors"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/readme-mcp/internal/forge"
	"github.com/HendryAvila/readme-mcp/internal/forge/forgetest"
	"github.com/HendryAvila/readme-mcp/internal/reference"
)

var widgetRef = reference.Reference{Owner: "acme", Name: "widget"}

func newTestWriter() (*Writer, *forgetest.Forge) {
	f := forgetest.New()
	f.AddRepo("acme", "widget", forgetest.Repo{Meta: forge.Repository{Name: "widget"}})
	log, _ := logtest.NewNullLogger()
	return New(f, log), f
}

func TestWrite_CreatesThenUpdates(t *testing.T) {
	t.Parallel()

	// given
	w, f := newTestWriter()
	ctx := context.Background()

	// when
	first, err := w.Write(ctx, widgetRef, "# widget\n", "Add README")
	require.NoError(t, err)
	second, err := w.Write(ctx, widgetRef, "# widget v2\n", "")
	require.NoError(t, err)

	// then
	assert.Equal(t, StatusCreated, first.Status)
	assert.Equal(t, StatusUpdated, second.Status)
	assert.NotEmpty(t, first.CommitSHA)
	assert.NotEqual(t, first.CommitSHA, second.CommitSHA)
	assert.Contains(t, second.CommitURL, "https://github.com/acme/widget/commit/")

	content, ok := f.FileContent("acme", "widget", ReadmePath)
	require.True(t, ok)
	assert.Equal(t, "# widget v2\n", content)
	assert.Equal(t, 1, f.Calls(forgetest.OpCreateFile))
	assert.Equal(t, 1, f.Calls(forgetest.OpUpdateFile))
	assert.Equal(t, 2, f.Calls(forgetest.OpGetFile))
}

func TestWrite_FetchFailurePropagates(t *testing.T) {
	t.Parallel()

	// given
	w, f := newTestWriter()
	cause := errors.New("403 forbidden")
	f.Fail(forgetest.OpGetFile, cause)

	// when
	_, err := w.Write(context.Background(), widgetRef, "x", "")

	// then
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Zero(t, f.Calls(forgetest.OpCreateFile))
	assert.Zero(t, f.Calls(forgetest.OpUpdateFile))
}

func TestWrite_ConflictIsSurfaced(t *testing.T) {
	t.Parallel()

	// given
	w, f := newTestWriter()
	_, err := w.Write(context.Background(), widgetRef, "v1", "")
	require.NoError(t, err)
	f.Fail(forgetest.OpUpdateFile, forge.ErrConflict)

	// when
	_, err = w.Write(context.Background(), widgetRef, "v2", "")

	// then
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWriteConflict)
	assert.Equal(t, 1, f.Calls(forgetest.OpUpdateFile))
}

func TestWrite_MutationFailurePropagates(t *testing.T) {
	t.Parallel()

	// given
	w, f := newTestWriter()
	cause := errors.New("branch protected")
	f.Fail(forgetest.OpCreateFile, cause)

	// when
	_, err := w.Write(context.Background(), widgetRef, "x", "")

	// then
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrWriteConflict)
}

func TestWrite_UnknownRepository(t *testing.T) {
	t.Parallel()

	// given
	w, f := newTestWriter()

	// when
	_, err := w.Write(context.Background(), reference.Reference{Owner: "acme", Name: "ghost"}, "x", "")

	// then
	require.Error(t, err)
	assert.ErrorIs(t, err, forge.ErrNotFound)
	assert.Equal(t, 1, f.Calls(forgetest.OpCreateFile))
}
