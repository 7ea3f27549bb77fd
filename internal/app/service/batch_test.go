package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/audio"
)

func TestTranscribeDir(t *testing.T) {
	svc, tempRoot := newTestService(t, &stubBackend{text: "辨識結果"}, true)

	inputDir := t.TempDir()
	writeWAVFixture(t, filepath.Join(inputDir, "one.wav"), 1, audio.TargetSampleRate, 1600)
	writeWAVFixture(t, filepath.Join(inputDir, "two.wav"), 2, audio.TargetSampleRate, 1600)
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "three.xyz"), []byte("junk"), 0o644))

	outputDir := filepath.Join(t.TempDir(), "results")

	report, err := svc.TranscribeDir(context.Background(), inputDir, BatchOptions{OutputDir: outputDir})

	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, "66.7", fmt.Sprintf("%.1f", report.SuccessRate()))
	assert.Zero(t, countEntries(t, tempRoot), "batch runs must not leak temp files")

	for _, name := range []string{"one.txt", "two.txt"} {
		content, err := os.ReadFile(filepath.Join(outputDir, name))
		require.NoError(t, err, name)
		assert.Equal(t, "辨識結果", string(content))
	}
	_, err = os.Stat(filepath.Join(outputDir, "three.txt"))
	assert.True(t, os.IsNotExist(err), "failed inputs get no output file")
}

func TestTranscribeDirRecursesSubdirectories(t *testing.T) {
	svc, _ := newTestService(t, &stubBackend{text: "ok"}, true)

	inputDir := t.TempDir()
	nested := filepath.Join(inputDir, "episode1")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeWAVFixture(t, filepath.Join(nested, "deep.wav"), 1, audio.TargetSampleRate, 1600)

	report, err := svc.TranscribeDir(context.Background(), inputDir, BatchOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Succeeded)
}

func TestTranscribeDirMissingDirectory(t *testing.T) {
	svc, _ := newTestService(t, &stubBackend{text: "ok"}, true)

	_, err := svc.TranscribeDir(context.Background(), filepath.Join(t.TempDir(), "nope"), BatchOptions{})

	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestTranscribeDirEmptyDirectory(t *testing.T) {
	svc, _ := newTestService(t, &stubBackend{text: "ok"}, true)

	_, err := svc.TranscribeDir(context.Background(), t.TempDir(), BatchOptions{})

	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestTranscribeDirFailuresDoNotAbort(t *testing.T) {
	svc, _ := newTestService(t, &stubBackend{err: fmt.Errorf("backend down")}, true)

	inputDir := t.TempDir()
	writeWAVFixture(t, filepath.Join(inputDir, "a.wav"), 1, audio.TargetSampleRate, 1600)
	writeWAVFixture(t, filepath.Join(inputDir, "b.wav"), 1, audio.TargetSampleRate, 1600)

	report, err := svc.TranscribeDir(context.Background(), inputDir, BatchOptions{})

	require.NoError(t, err, "per-file failures must not abort the batch")
	assert.Equal(t, 2, report.Failed)
	assert.Zero(t, report.Succeeded)
}

func TestSupportedInputs(t *testing.T) {
	got := SupportedInputs([]string{"a.wav", "b.XYZ", "c.MP3", "d.txt"})
	assert.Equal(t, []string{"a.wav", "c.MP3"}, got)
}

func TestBatchReportSummary(t *testing.T) {
	r := BatchReport{Total: 3, Succeeded: 2, Failed: 1}
	s := r.Summary()
	assert.Contains(t, s, "success rate: 66.7%")
	assert.Contains(t, s, "total: 3")
}
