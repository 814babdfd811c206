package tool

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentmux/agentmux/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileWriterContext(t *testing.T) (*Context, string) {
	t.Helper()
	dir := t.TempDir()
	key := core.ConversationKey{AgentID: "writer", UserID: "user-1"}
	tc := NewContext(context.Background(), key, "writer", "fc1", func(o *ContextOptions) {
		o.WorkDir = dir
	})
	return tc, dir
}

func TestFileWriterTool_WritesInsideWorkDir(t *testing.T) {
	tc, dir := fileWriterContext(t)
	w := NewFileWriterTool()

	result, err := w.Call(tc, map[string]any{"path": "notes/hello.txt", "content": "hi"})
	require.NoError(t, err)

	out := result.(map[string]any)
	assert.Equal(t, "created", out["action"])

	data, err := os.ReadFile(filepath.Join(dir, "notes", "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))

	// Second write overwrites
	result, err = w.Call(tc, map[string]any{"path": "notes/hello.txt", "content": "again"})
	require.NoError(t, err)
	assert.Equal(t, "overwritten", result.(map[string]any)["action"])
}

func TestFileWriterTool_RejectsTraversalAndAbsolute(t *testing.T) {
	tc, _ := fileWriterContext(t)
	w := NewFileWriterTool()

	_, err := w.Call(tc, map[string]any{"path": "../escape.txt", "content": "x"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.(*ToolError).Code)

	_, err = w.Call(tc, map[string]any{"path": "/etc/evil", "content": "x"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.(*ToolError).Code)
}

func TestFileWriterTool_EnforcesLimits(t *testing.T) {
	tc, _ := fileWriterContext(t)
	w := NewFileWriterTool(func(o *FileWriterOptions) {
		o.MaxFileSize = 4
		o.AllowedExtensions = []string{".txt"}
	})

	_, err := w.Call(tc, map[string]any{"path": "big.txt", "content": "too large"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.(*ToolError).Code)

	_, err = w.Call(tc, map[string]any{"path": "script.sh", "content": "x"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.(*ToolError).Code)

	_, err = w.Call(tc, map[string]any{"path": "ok.txt", "content": "ok"})
	assert.NoError(t, err)
}

func TestFileWriterTool_NoWorkDirConfigured(t *testing.T) {
	key := core.ConversationKey{AgentID: "writer", UserID: "user-1"}
	tc := NewContext(context.Background(), key, "writer", "fc2")

	_, err := NewFileWriterTool().Call(tc, map[string]any{"path": "a.txt", "content": "x"})
	require.Error(t, err)
	assert.Equal(t, "EXECUTION_ERROR", err.(*ToolError).Code)
}
