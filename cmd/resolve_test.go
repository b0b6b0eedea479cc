package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"bundletest/internal/errdefs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExecutable(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755))
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newResolveCmd()
	if len(args) > 0 && args[0] == "deploy-command" {
		cmd = newDeployCommandCmd()
		args = args[1:]
	}
	cmd.SilenceErrors = true
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveCmd_TestDir(t *testing.T) {
	dir := t.TempDir()
	writeExecutable(t, filepath.Join(dir, "test_b"))
	writeExecutable(t, filepath.Join(dir, "test_a"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test_notes"), []byte("not runnable"), 0644))

	out, err := runCommand(t, dir, "--output", "console", "--quiet")
	require.NoError(t, err)
	assert.Equal(t, []string{"test_a", "test_b"}, strings.Fields(out))
}

func TestResolveCmd_JSON(t *testing.T) {
	dir := t.TempDir()
	writeExecutable(t, filepath.Join(dir, "test_one"))

	out, err := runCommand(t, dir, "-o", "json")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.NotEmpty(t, doc["id"])
	assert.Contains(t, doc, "suite")
}

func TestResolveCmd_Flags(t *testing.T) {
	dir := t.TempDir()
	writeExecutable(t, filepath.Join(dir, "check_one"))
	writeExecutable(t, filepath.Join(dir, "test_one"))

	t.Run("test pattern", func(t *testing.T) {
		out, err := runCommand(t, dir, "-o", "console", "-q", "--test-pattern", "check_*")
		require.NoError(t, err)
		assert.Equal(t, []string{"check_one"}, strings.Fields(out))
	})

	t.Run("allow-list mismatch", func(t *testing.T) {
		_, err := runCommand(t, dir, "-o", "console", "--tests", "test_one,test_missing")
		require.Error(t, err)
		assert.True(t, errdefs.IsValidation(err))
		assert.Equal(t, ExitCodeValidation, getExitCode(err))
	})

	t.Run("excluded root", func(t *testing.T) {
		out, err := runCommand(t, dir, "-o", "console", "-q", "--exclude", filepath.Base(dir))
		require.NoError(t, err)
		assert.Empty(t, strings.TrimSpace(out))
	})

	t.Run("invalid parallel", func(t *testing.T) {
		_, err := runCommand(t, dir, "--parallel", "0")
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := runCommand(t, dir, "-o", "xml")
		assert.Error(t, err)
	})
}

func TestResolveCmd_NothingTestable(t *testing.T) {
	out, err := runCommand(t, filepath.Join(t.TempDir(), "missing"), "-q")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing testable found")
}

func TestResolveCmd_AmbiguousManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := "services:\n  mysql:\n    charm: mysql\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(manifest), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(manifest), 0644))

	_, err := runCommand(t, dir, "-q")
	require.Error(t, err)
	assert.Equal(t, ExitCodeAmbiguous, getExitCode(err))
}

func TestWatchAndResolve_ResolvesAgainOnChange(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchAndResolve(ctx, dir, func() error {
			calls.Add(1)
			return nil
		})
	}()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	writeExecutable(t, filepath.Join(dir, "test_new"))
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch loop did not stop after cancel")
	}
}
