package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/prcurve/catalog"
	"github.com/YuminosukeSato/prcurve/pkg/errors"
	"github.com/YuminosukeSato/prcurve/pkg/log"
)

const curveCSV = "Precision,Recall\n1,0\n0.8,0.5\n0.6,1\n"

// writeProject lays out a small run: three curves and a config that keeps
// rasterization cheap.
func writeProject(t *testing.T) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "curve"), 0o755))
	for _, label := range []string{"KNN_ART", "KNN_GFD", "SVM_ART"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "curve", label+".csv"), []byte(curveCSV), 0o644))
	}

	content := `
catalog:
  KNN_ART: curve/KNN_ART.csv
  KNN_GFD: curve/KNN_GFD.csv
  SVM_ART: curve/SVM_ART.csv
output:
  dpi: 20
  all_size: {width: 4, height: 3}
  family_size: {width: 2, height: 2}
`
	configPath = filepath.Join(dir, "prcurve.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return dir, configPath
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Cleanup(func() { errors.SetZerologWarnFunc(nil) })

	var out, errOut bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "prcurve version "+Version+" (build: dev)\n", out)
}

func TestRenderCommand(t *testing.T) {
	dir, configPath := writeProject(t)
	outDir := filepath.Join(dir, "figures")

	out, stderr, err := execute(t, "render", "--config", configPath, "--out", outDir, "--log-format", "json")
	require.NoError(t, err, stderr)

	want := []string{
		filepath.Join(outDir, "Figure_All_Models.png"),
		filepath.Join(outDir, "Figure_KNN.png"),
		filepath.Join(outDir, "Figure_SVM.png"),
	}
	assert.Equal(t, strings.Join(want, "\n")+"\n", out)

	img, err := imaging.Open(want[0])
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dx())
	assert.Equal(t, 60, img.Bounds().Dy())

	// Every log line carries the run id.
	for _, line := range strings.Split(strings.TrimSpace(stderr), "\n") {
		assert.Contains(t, line, `"`+log.RunIDKey+`":`)
	}
	assert.Contains(t, stderr, `"`+log.ComponentKey+`":"render"`)
}

func TestRenderCommandFamily(t *testing.T) {
	dir, configPath := writeProject(t)

	out, _, err := execute(t, "render", "-c", configPath, "--out", dir, "--family", "SVM", "--format", "svg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Figure_SVM.svg")+"\n", out)

	_, err = os.Stat(filepath.Join(dir, "Figure_All_Models.svg"))
	assert.True(t, os.IsNotExist(err))
}

func TestRenderCommandUnknownFamily(t *testing.T) {
	dir, configPath := writeProject(t)
	require.NoError(t, os.WriteFile(configPath, []byte("catalog:\n  RF_ART: curve/KNN_ART.csv\n"), 0o644))

	_, _, err := execute(t, "render", "--config", configPath, "--out", dir)
	var cfgErr *errors.ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, "RF", cfgErr.Family)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), "Figure_"), e.Name())
	}
}

func TestRenderCommandSchemaPolicy(t *testing.T) {
	dir, configPath := writeProject(t)
	extra := "Precision,Recall,Threshold\n1,0,0.9\n0.5,1,0.1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "curve", "KNN_GFD.csv"), []byte(extra), 0o644))

	_, _, err := execute(t, "render", "--config", configPath, "--out", dir)
	var schemaErr *errors.SchemaError
	require.True(t, errors.As(err, &schemaErr), "got %v", err)
	assert.Equal(t, []string{"Threshold"}, schemaErr.Unexpected)
	_, statErr := os.Stat(filepath.Join(dir, "Figure_All_Models.png"))
	assert.True(t, os.IsNotExist(statErr), "no figure after a failed load")

	// --lenient accepts the extra column and logs a warning.
	_, stderr, err := execute(t, "render", "--config", configPath, "--out", dir, "--lenient", "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Threshold")
	assert.Contains(t, stderr, `"level":"warn"`)
}

func TestRenderCommandFlagErrors(t *testing.T) {
	_, configPath := writeProject(t)

	_, _, err := execute(t, "render", "--config", configPath, "--preset", "compare")
	assert.Error(t, err, "config and preset are mutually exclusive")

	_, _, err = execute(t, "render", "--config", configPath, "--format", "gif")
	var vErr *errors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "output.format", vErr.ParamName)

	_, _, err = execute(t, "render", "--config", configPath, "--log-level", "chatty")
	assert.Error(t, err)
}

func TestInspectCommand(t *testing.T) {
	_, configPath := writeProject(t)

	out, _, err := execute(t, "inspect", "--config", configPath, "--no-markers")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "INDEX"))
	assert.Contains(t, lines[1], "KNN_ART")
	assert.Contains(t, lines[1], "none")
	assert.Contains(t, lines[1], "[0, 1]")
	assert.Contains(t, lines[1], "[0.6, 1]")
	assert.Contains(t, lines[1], "0.8000", "trapezoidal AUC")
	assert.Contains(t, lines[1], "0.7000", "average precision")
	assert.Contains(t, lines[3], "SVM_ART")
	assert.Contains(t, lines[3], "#")
}

func TestInspectCommandMissingSource(t *testing.T) {
	dir, configPath := writeProject(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "curve", "KNN_GFD.csv")))

	_, _, err := execute(t, "inspect", "--config", configPath)
	var ioErr *errors.IOError
	require.True(t, errors.As(err, &ioErr), "got %v", err)
	assert.Contains(t, err.Error(), "KNN_GFD")
}

func TestSourceWatcherRelevant(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "KNN_ART.csv")
	require.NoError(t, os.WriteFile(src, []byte(curveCSV), 0o644))
	cat, err := catalog.New(catalog.Entry{Label: "KNN_ART", Path: src})
	require.NoError(t, err)

	w, err := newSourceWatcher(cat, time.Millisecond, log.Nop())
	require.NoError(t, err)
	defer w.fsw.Close()

	assert.True(t, w.relevant(fsnotify.Event{Name: src, Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: src, Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: src, Op: fsnotify.Chmod}))
	assert.False(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "other.csv"), Op: fsnotify.Write}))
}

func TestSourceWatcherDebounce(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "KNN_ART.csv")
	require.NoError(t, os.WriteFile(src, []byte(curveCSV), 0o644))
	cat, err := catalog.New(catalog.Entry{Label: "KNN_ART", Path: src})
	require.NoError(t, err)

	w, err := newSourceWatcher(cat, 100*time.Millisecond, log.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, func() { calls.Add(1) }) }()

	// A burst of writes triggers a single callback.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(src, []byte(curveCSV), 0o644))
	}
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
