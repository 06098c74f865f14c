package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fyerfyer/doc-dashboard/config"
	"github.com/fyerfyer/doc-dashboard/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestConfig 在临时目录中写入使用本地存储和sqlite快照的配置
func writeTestConfig(t *testing.T, capacity int) string {
	dir := t.TempDir()
	content := fmt.Sprintf(`
log:
  level: error
storage:
  type: local
  path: %s
snapshot:
  type: sqlite
  dsn: %s
collection:
  capacity: %d
`, filepath.Join(dir, "files"), filepath.Join(dir, "dashboard.db"), capacity)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestUploadThenList(t *testing.T) {
	cfgPath := writeTestConfig(t, 2)

	csvPath := filepath.Join(t.TempDir(), "budget.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("a,b\n1,2\n"), 0644))

	out, err := runCommand(t, "-c", cfgPath, "upload", csvPath)
	require.NoError(t, err, out)
	assert.Contains(t, out, "budget.csv")
	assert.Contains(t, out, "2 pages")

	// 快照保存在sqlite中，新的进程可以读到
	out, err = runCommand(t, "-c", cfgPath, "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "budget.csv")
	assert.Contains(t, out, "1 of 2")
}

func TestUpload_ReportsRejections(t *testing.T) {
	cfgPath := writeTestConfig(t, 9)

	pngPath := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(pngPath, []byte("png"), 0644))

	out, err := runCommand(t, "-c", cfgPath, "upload", pngPath)
	assert.Error(t, err)
	assert.Contains(t, out, "Only XLSX, XLS, CSV, and PDF files are allowed")
}

func TestSetupGate(t *testing.T) {
	gate, err := setupGate(config.UploadConfig{AllowedTypes: []string{"pdf"}})
	require.NoError(t, err)
	assert.Equal(t, "PDF files are allowed (max 10MB)", gate.Describe())

	_, err = setupGate(config.UploadConfig{AllowedTypes: []string{"docx"}})
	assert.Error(t, err)
}

// closingStorage 记录Close调用的存储
type closingStorage struct {
	storage.Storage
	closed bool
	err    error
}

func (s *closingStorage) Close() error {
	s.closed = true
	return s.err
}

func TestApplicationClose_ClosesStorageClient(t *testing.T) {
	files := &closingStorage{}
	app := &application{files: files}
	require.NoError(t, app.Close(context.Background()))
	assert.True(t, files.closed)

	failing := &closingStorage{err: errors.New("client already closed")}
	app = &application{files: failing}
	assert.ErrorContains(t, app.Close(context.Background()), "client already closed")
}
