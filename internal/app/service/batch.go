package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/audio"
	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/util/files"
)

// previewLimit truncates console previews of recognized text when no
// output directory is given.
const previewLimit = 50

// BatchReport summarizes one directory run. Per-file failures never abort
// the batch; they are counted and logged.
type BatchReport struct {
	Total     int
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}

// SuccessRate returns the percentage of inputs that transcribed, e.g.
// 66.66… for 2 of 3.
func (r BatchReport) SuccessRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Succeeded) / float64(r.Total) * 100
}

// Summary renders the end-of-run statistics block.
func (r BatchReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "total: %d\n", r.Total)
	fmt.Fprintf(&b, "succeeded: %d\n", r.Succeeded)
	fmt.Fprintf(&b, "failed: %d\n", r.Failed)
	fmt.Fprintf(&b, "success rate: %.1f%%\n", r.SuccessRate())
	fmt.Fprintf(&b, "elapsed: %s", r.Elapsed.Round(time.Millisecond))
	return b.String()
}

// BatchOptions controls a directory run.
type BatchOptions struct {
	// OutputDir, when set, receives one <input-stem>.txt per transcribed
	// file. When empty a truncated preview is printed instead.
	OutputDir string

	// Progress enables the console progress bar.
	Progress bool
}

// TranscribeDir processes every supported audio file under dir. The walk
// is recursive; files with unsupported extensions are counted as
// failures, matching the per-file error report a user sees.
func (s *Service) TranscribeDir(ctx context.Context, dir string, opts BatchOptions) (*BatchReport, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, newError(KindNotFound, fmt.Sprintf("directory does not exist: %s", dir), nil)
	}

	all, err := files.ListFiles(dir)
	if err != nil {
		return nil, newError(KindPreprocessingFailed, "listing input directory failed", err)
	}
	if len(all) == 0 {
		return nil, newError(KindNotFound, fmt.Sprintf("no files found under %s", dir), nil)
	}

	supported := SupportedInputs(all)
	fmt.Printf("found %d files under %s (%d with supported extensions)\n", len(all), dir, len(supported))

	if opts.OutputDir != "" {
		if err := files.EnsureDir(opts.OutputDir); err != nil {
			return nil, newError(KindPreprocessingFailed, "creating output directory failed", err)
		}
	}

	var bar *mpb.Bar
	var progress *mpb.Progress
	if opts.Progress {
		progress = mpb.New(mpb.WithWidth(40))
		bar = progress.AddBar(int64(len(all)),
			mpb.PrependDecorators(decor.Name("transcribing "), decor.CountersNoUnit("%d / %d")),
			mpb.AppendDecorators(decor.Percentage()),
		)
	}

	start := time.Now()
	report := &BatchReport{Total: len(all)}

	for i, path := range all {
		fmt.Printf("[%d/%d] %s\n", i+1, len(all), filepath.Base(path))

		res, err := s.TranscribeFile(ctx, path)
		if bar != nil {
			bar.Increment()
		}
		if err != nil {
			report.Failed++
			fmt.Printf("  failed: %v\n", err)
			continue
		}

		report.Succeeded++
		if opts.OutputDir != "" {
			out := outputPathFor(opts.OutputDir, path)
			if err := files.WriteText(out, res.Text); err != nil {
				fmt.Printf("  saving result failed: %v\n", err)
			} else {
				fmt.Printf("  saved to %s\n", out)
			}
		} else {
			fmt.Printf("  %s\n", truncate(res.Text, previewLimit))
		}
	}

	if progress != nil {
		progress.Wait()
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

// SupportedInputs filters paths down to the accepted audio containers.
func SupportedInputs(paths []string) []string {
	return lo.Filter(paths, func(p string, _ int) bool {
		return audio.IsSupported(p)
	})
}

func outputPathFor(outputDir, inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+".txt")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
