package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/wetwire-vpc-go/internal/pipeline"
	"github.com/lex00/wetwire-vpc-go/internal/zones"
)

func TestNewWatchCmd(t *testing.T) {
	cmd := newWatchCmd()

	assert.Equal(t, "watch", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotNil(t, cmd.Flags().Lookup("lint-only"))
	assert.NotNil(t, cmd.Flags().Lookup("debounce"))
	assert.NotNil(t, cmd.Flags().Lookup("output-dir"))
}

func TestDebounceDefault(t *testing.T) {
	cmd := newWatchCmd()

	flag := cmd.Flags().Lookup("debounce")
	require.NotNil(t, flag)
	assert.Equal(t, "500ms", flag.DefValue)
}

func TestIsTopologyChange(t *testing.T) {
	target, err := filepath.Abs("testdata/subnet_mapping.yml")
	require.NoError(t, err)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: target, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: target, Op: fsnotify.Create}, true},
		{"relative path", fsnotify.Event{Name: "testdata/subnet_mapping.yml", Op: fsnotify.Write}, true},
		{"chmod", fsnotify.Event{Name: target, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(filepath.Dir(target), "bad_octet.yml"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTopologyChange(tt.event, target))
		})
	}
}

func watchInputs(t *testing.T, config string) pipeline.Inputs {
	in := pipeline.DefaultInputs()
	in.ConfigPath = config
	in.OutputDir = t.TempDir()
	return in
}

func testGenerator() *pipeline.Generator {
	return pipeline.New(zerolog.Nop(), zones.ParseStatic(testZones))
}

func TestRunLintAndBuild(t *testing.T) {
	in := watchInputs(t, "testdata/subnet_mapping.yml")
	var buf bytes.Buffer

	ok := runLintAndBuild(context.Background(), &buf, testGenerator(), in, watchOptions{})
	assert.True(t, ok)
	assert.Contains(t, buf.String(), "Lint passed")
	assert.Contains(t, buf.String(), "Build successful, wrote "+filepath.Join(in.OutputDir, "uat_vpc"))
	assert.FileExists(t, filepath.Join(in.OutputDir, "uat_vpc"))
}

func TestRunLintAndBuild_LintOnly(t *testing.T) {
	in := watchInputs(t, "testdata/subnet_mapping.yml")
	var buf bytes.Buffer

	ok := runLintAndBuild(context.Background(), &buf, testGenerator(), in, watchOptions{lintOnly: true})
	assert.True(t, ok)
	assert.NotContains(t, buf.String(), "Build successful")
	assert.NoFileExists(t, filepath.Join(in.OutputDir, "uat_vpc"))
}

func TestRunLintAndBuild_LintFailure(t *testing.T) {
	in := watchInputs(t, "testdata/bad_octet.yml")
	var buf bytes.Buffer

	ok := runLintAndBuild(context.Background(), &buf, testGenerator(), in, watchOptions{})
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "[VPC001]")
	assert.Contains(t, buf.String(), "Lint failed, skipping build")
}

func TestRunWatch_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "subnet_mapping.yml")
	data, err := os.ReadFile("testdata/subnet_mapping.yml")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(config, data, 0644))

	in := watchInputs(t, config)
	in.Environment = "prod"
	target := filepath.Join(in.OutputDir, "prod_vpc")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, &bytes.Buffer{}, testGenerator(), in, watchOptions{debounce: 10 * time.Millisecond})
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(target)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, os.Remove(target))

	require.NoError(t, os.WriteFile(config, data, 0644))
	assert.Eventually(t, func() bool {
		_, err := os.Stat(target)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
