// Package testutil provides the integration-test harness: it lays a project
// or solution tree into a temp directory, runs the app against it, and hands
// back the parsed output and logs.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/vcdb/internal/app"
	"github.com/vk/vcdb/internal/emit"
	"github.com/vk/vcdb/internal/fsutil"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Err       error
	LogOutput string
	Commands  []emit.Command
	Dir       string
}

// RunIntegrationTest writes files (path → content, relative to a fresh temp
// root) and runs the app with the given input path, also relative to the
// root. The database goes to stdout so the harness can decode it.
func RunIntegrationTest(t *testing.T, files map[string]string, inputPath string, mutate func(dir string, cfg *app.Config)) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	cfg := app.Config{
		OutputPath: "-",
		LogFormat:  "text",
		LogLevel:   "debug",
	}
	if filepath.Ext(inputPath) == ".sln" {
		cfg.SolutionPath = filepath.Join(tmpDir, inputPath)
	} else {
		cfg.ProjectPath = filepath.Join(tmpDir, inputPath)
	}
	if mutate != nil {
		mutate(tmpDir, &cfg)
	}
	config, err := app.NewConfig(cfg)
	require.NoError(t, err)

	outBuf := &bytes.Buffer{}
	logBuf := &bytes.Buffer{}
	testApp := app.NewApp(outBuf, logBuf, config, fsutil.OS{})
	runErr := testApp.Run(context.Background())

	result := &HarnessResult{
		Err:       runErr,
		LogOutput: logBuf.String(),
		Dir:       tmpDir,
	}
	if runErr == nil && outBuf.Len() > 0 {
		require.NoError(t, json.Unmarshal(outBuf.Bytes(), &result.Commands))
	}
	return result
}
