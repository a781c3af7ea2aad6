package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/readme-mcp/internal/forge"
	"github.com/HendryAvila/readme-mcp/internal/forge/forgetest"
	"github.com/HendryAvila/readme-mcp/internal/history"
	"github.com/HendryAvila/readme-mcp/internal/inspector"
	"github.com/HendryAvila/readme-mcp/internal/writer"
)

const widgetURL = "https://github.com/acme/widget"

func newWidgetForge() *forgetest.Forge {
	f := forgetest.New()
	f.AddRepo("acme", "widget", forgetest.Repo{
		Meta: forge.Repository{
			Name:        "widget",
			FullName:    "acme/widget",
			Description: "Widgets for everyone",
			Language:    "Go",
			Stars:       42,
			License:     "MIT License",
			HTMLURL:     "https://github.com/acme/widget",
			CloneURL:    "https://github.com/acme/widget.git",
			UpdatedAt:   time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
		},
		Entries: []forge.Entry{
			{Name: "go.mod", Type: forge.EntryFile},
			{Name: "cmd", Type: forge.EntryDir},
		},
		Contributors: []string{"alice"},
		Topics:       []string{"cli"},
		Files:        map[string]string{},
	})
	return f
}

// fakeRecorder captures recorded history entries.
type fakeRecorder struct {
	mu      sync.Mutex
	entries []history.Entry
	err     error
}

func (r *fakeRecorder) Record(_ context.Context, e history.Entry) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.entries = append(r.entries, e)
	return int64(len(r.entries)), nil
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	if tc, ok := result.Content[0].(mcp.TextContent); ok {
		return tc.Text
	}
	return ""
}

// --- generate_readme ---

func TestGenerateReadme_Success(t *testing.T) {
	t.Parallel()
	logger, _ := logtest.NewNullLogger()
	f := newWidgetForge()
	rec := &fakeRecorder{}
	tool := NewGenerateReadmeTool(inspector.New(f, logger), logger)
	tool.SetRecorder(rec)

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"repository_url": widgetURL,
	}))
	require.NoError(t, err)
	require.False(t, isErrorResult(result), getResultText(result))

	text := getResultText(result)
	assert.True(t, strings.HasPrefix(text, "# widget\n\nWidgets for everyone\n"))
	assert.Contains(t, text, "go mod download")
	assert.Contains(t, text, "- [@alice](https://github.com/alice)")

	require.Len(t, rec.entries, 1)
	assert.Equal(t, "acme/widget", rec.entries[0].Repository)
	assert.Equal(t, history.ActionGenerated, rec.entries[0].Action)
	assert.Equal(t, len(text), rec.entries[0].Bytes)
	assert.Contains(t, rec.entries[0].Sections, "Installation")
	assert.Empty(t, rec.entries[0].CommitSHA)
}

func TestGenerateReadme_NoRecorder(t *testing.T) {
	t.Parallel()
	logger, _ := logtest.NewNullLogger()
	tool := NewGenerateReadmeTool(inspector.New(newWidgetForge(), logger), logger)

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"repository_url": widgetURL,
	}))
	require.NoError(t, err)
	assert.False(t, isErrorResult(result))
}

func TestGenerateReadme_RecorderFailureIsIgnored(t *testing.T) {
	t.Parallel()
	logger, hook := logtest.NewNullLogger()
	tool := NewGenerateReadmeTool(inspector.New(newWidgetForge(), logger), logger)
	tool.SetRecorder(&fakeRecorder{err: errors.New("disk full")})

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"repository_url": widgetURL,
	}))
	require.NoError(t, err)
	assert.False(t, isErrorResult(result))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "history: record failed", hook.LastEntry().Message)
}

func TestGenerateReadme_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    map[string]interface{}
		fail    forgetest.Op
		wantMsg string
	}{
		{name: "missing url", args: map[string]interface{}{}, wantMsg: "'repository_url' is required"},
		{name: "not github", args: map[string]interface{}{"repository_url": "https://gitlab.com/acme/widget"}, wantMsg: "invalid"},
		{name: "unknown repo", args: map[string]interface{}{"repository_url": "https://github.com/acme/ghost"}, wantMsg: "not found"},
		{
			name:    "metadata failure",
			args:    map[string]interface{}{"repository_url": widgetURL},
			fail:    forgetest.OpGetRepository,
			wantMsg: "could not read repository metadata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			logger, _ := logtest.NewNullLogger()
			f := newWidgetForge()
			if tt.fail != "" {
				f.Fail(tt.fail, errors.New("boom"))
			}
			rec := &fakeRecorder{}
			tool := NewGenerateReadmeTool(inspector.New(f, logger), logger)
			tool.SetRecorder(rec)

			result, err := tool.Handle(context.Background(), callRequest(tt.args))
			require.NoError(t, err)
			require.True(t, isErrorResult(result))
			assert.Contains(t, getResultText(result), tt.wantMsg)
			assert.Empty(t, rec.entries)
		})
	}
}

func TestGenerateReadme_PartialFailureStillRenders(t *testing.T) {
	t.Parallel()
	logger, _ := logtest.NewNullLogger()
	f := newWidgetForge()
	f.Fail(forgetest.OpListContributors, errors.New("rate limited"))
	tool := NewGenerateReadmeTool(inspector.New(f, logger), logger)

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"repository_url": widgetURL,
	}))
	require.NoError(t, err)
	require.False(t, isErrorResult(result))
	assert.NotContains(t, getResultText(result), "## Contributors")
}

func TestGenerateReadme_ContentsFailureKeepsHeader(t *testing.T) {
	t.Parallel()
	logger, _ := logtest.NewNullLogger()
	f := newWidgetForge()
	f.Fail(forgetest.OpListRootContents, errors.New("listing unavailable"))
	tool := NewGenerateReadmeTool(inspector.New(f, logger), logger)

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"repository_url": widgetURL,
	}))
	require.NoError(t, err)
	require.False(t, isErrorResult(result), getResultText(result))

	text := getResultText(result)
	assert.True(t, strings.HasPrefix(text, "# widget\n\nWidgets for everyone\n"))
	assert.Contains(t, text, "![Stars]")
	assert.NotContains(t, text, "go mod download")
	assert.NotContains(t, text, "npm install")
	assert.NotContains(t, text, "## Project Structure")
	// The clone block comes from metadata, not the listing.
	assert.Contains(t, text, "## Installation")
	assert.Contains(t, text, "git clone https://github.com/acme/widget.git")
	assert.Contains(t, text, "- [@alice](https://github.com/alice)")
}

// --- analyze_repository ---

func TestAnalyzeRepository_ReturnsFactsJSON(t *testing.T) {
	t.Parallel()
	logger, _ := logtest.NewNullLogger()
	tool := NewAnalyzeRepositoryTool(inspector.New(newWidgetForge(), logger), logger)

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"repository_url": widgetURL + ".git",
	}))
	require.NoError(t, err)
	require.False(t, isErrorResult(result), getResultText(result))

	var facts inspector.Facts
	require.NoError(t, json.Unmarshal([]byte(getResultText(result)), &facts))
	assert.Equal(t, "widget", facts.Name)
	assert.Equal(t, "acme", facts.Owner)
	assert.Equal(t, []string{"go.mod"}, facts.DependencyFiles)
	assert.Equal(t, []string{"cmd"}, facts.MainDirectories)
	assert.Equal(t, "2024-03-05", facts.LastUpdated)
}

func TestAnalyzeRepository_InvalidURL(t *testing.T) {
	t.Parallel()
	logger, _ := logtest.NewNullLogger()
	tool := NewAnalyzeRepositoryTool(inspector.New(newWidgetForge(), logger), logger)

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"repository_url": "not a url",
	}))
	require.NoError(t, err)
	assert.True(t, isErrorResult(result))
}

// --- save_readme_to_github ---

func TestSaveReadme_CreatesThenUpdates(t *testing.T) {
	t.Parallel()
	logger, _ := logtest.NewNullLogger()
	f := newWidgetForge()
	rec := &fakeRecorder{}
	tool := NewSaveReadmeTool(writer.New(f, logger), "", logger)
	tool.SetRecorder(rec)

	// given: no README yet
	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"repository_url": widgetURL,
		"readme_content": "# widget\n",
	}))
	require.NoError(t, err)
	require.False(t, isErrorResult(result), getResultText(result))
	assert.Contains(t, getResultText(result), "status: created")
	assert.Contains(t, getResultText(result), "commit_url: https://github.com/acme/widget/commit/")

	// when: saving again with a custom message
	result, err = tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"repository_url": widgetURL,
		"readme_content": "# widget v2\n",
		"commit_message": "docs: refresh README",
	}))
	require.NoError(t, err)
	require.False(t, isErrorResult(result), getResultText(result))

	// then
	assert.Contains(t, getResultText(result), "status: updated")
	content, ok := f.FileContent("acme", "widget", writer.ReadmePath)
	require.True(t, ok)
	assert.Equal(t, "# widget v2\n", content)

	require.Len(t, rec.entries, 2)
	assert.Equal(t, history.ActionCreated, rec.entries[0].Action)
	assert.Equal(t, history.ActionUpdated, rec.entries[1].Action)
	assert.NotEmpty(t, rec.entries[1].CommitSHA)
	assert.Empty(t, rec.entries[1].Sections)
}

func TestSaveReadme_DefaultMessageFromConfig(t *testing.T) {
	t.Parallel()
	logger, _ := logtest.NewNullLogger()
	tool := NewSaveReadmeTool(writer.New(newWidgetForge(), logger), "chore: readme", logger)

	def := tool.Definition()
	assert.Equal(t, "save_readme_to_github", def.Name)
	assert.Contains(t, def.InputSchema.Required, "repository_url")
	assert.Contains(t, def.InputSchema.Required, "readme_content")
	assert.NotContains(t, def.InputSchema.Required, "commit_message")
}

func TestSaveReadme_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    map[string]interface{}
		fail    forgetest.Op
		wantMsg string
	}{
		{name: "missing url", args: map[string]interface{}{"readme_content": "# x"}, wantMsg: "'repository_url' is required"},
		{name: "missing content", args: map[string]interface{}{"repository_url": widgetURL}, wantMsg: "'readme_content' is required"},
		{name: "blank content", args: map[string]interface{}{"repository_url": widgetURL, "readme_content": "  \n"}, wantMsg: "'readme_content' is required"},
		{
			name:    "conflict",
			args:    map[string]interface{}{"repository_url": widgetURL, "readme_content": "# x"},
			fail:    forgetest.OpCreateFile,
			wantMsg: "changed on GitHub while saving",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			logger, _ := logtest.NewNullLogger()
			f := newWidgetForge()
			if tt.fail != "" {
				f.Fail(tt.fail, forge.ErrConflict)
			}
			rec := &fakeRecorder{}
			tool := NewSaveReadmeTool(writer.New(f, logger), "", logger)
			tool.SetRecorder(rec)

			result, err := tool.Handle(context.Background(), callRequest(tt.args))
			require.NoError(t, err)
			require.True(t, isErrorResult(result))
			assert.Contains(t, getResultText(result), tt.wantMsg)
			assert.Empty(t, rec.entries)
		})
	}
}

// --- readme_history ---

func newHistoryStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.New(history.Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestHistory_Empty(t *testing.T) {
	t.Parallel()
	tool := NewHistoryTool(newHistoryStore(t))

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	assert.Equal(t, "No README activity recorded yet.", getResultText(result))
}

func TestHistory_ListsAndFilters(t *testing.T) {
	t.Parallel()
	store := newHistoryStore(t)
	ctx := context.Background()

	_, err := store.Record(ctx, history.Entry{Repository: "acme/widget", Action: history.ActionGenerated, Sections: []string{"Installation"}})
	require.NoError(t, err)
	_, err = store.Record(ctx, history.Entry{
		Repository: "acme/widget", Action: history.ActionCreated,
		CommitSHA: "0123456789abcdef", CommitURL: "https://github.com/acme/widget/commit/0123456789abcdef",
	})
	require.NoError(t, err)
	_, err = store.Record(ctx, history.Entry{Repository: "acme/gadget", Action: history.ActionGenerated})
	require.NoError(t, err)

	tool := NewHistoryTool(store)

	result, err := tool.Handle(ctx, callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	text := getResultText(result)
	assert.Contains(t, text, "acme/gadget")
	assert.Contains(t, text, "[`0123456`](https://github.com/acme/widget/commit/0123456789abcdef)")

	result, err = tool.Handle(ctx, callRequest(map[string]interface{}{
		"repository_url": widgetURL,
		"limit":          float64(1),
	}))
	require.NoError(t, err)
	text = getResultText(result)
	assert.NotContains(t, text, "acme/gadget")
	assert.Contains(t, text, "created")
	assert.NotContains(t, text, "| generated |")
}

func TestHistory_InvalidFilter(t *testing.T) {
	t.Parallel()
	tool := NewHistoryTool(newHistoryStore(t))

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"repository_url": "https://example.com/nope",
	}))
	require.NoError(t, err)
	assert.True(t, isErrorResult(result))
}

func TestIntArg(t *testing.T) {
	t.Parallel()
	req := callRequest(map[string]interface{}{"limit": float64(7), "bad": "x"})
	assert.Equal(t, 7, intArg(req, "limit", 10))
	assert.Equal(t, 10, intArg(req, "bad", 10))
	assert.Equal(t, 10, intArg(req, "missing", 10))
}
