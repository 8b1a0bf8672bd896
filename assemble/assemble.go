// Package assemble builds one video segment per slide with the external
// encoder and concatenates them into a single mp4.
package assemble

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"chalkcast/ffmpeg"
)

// fixed pad after each narration, in seconds
const padSeconds = 1.0

// substituted when an audio clip's length cannot be measured
const fallbackSeconds = 5.0

type Slide struct {
	Title    string
	Content  string
	Duration int    // declared pacing, used when there is no narration
	Image    []byte // rendered PNG
	Audio    []byte // optional narration mp3
}

type Output struct {
	Filename         string
	Path             string
	Duration         float64 // sum of segment durations
	Size             int64
	SegmentDurations []float64 // indexed by slide
}

// SegmentError is fatal: an encoder invocation for one slide failed or
// produced no artifact. Not retried.
type SegmentError struct {
	Index  int
	Stderr string
	Err    error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment %d: %v: %s", e.Index, e.Err, e.Stderr)
}

func (e *SegmentError) Unwrap() error {
	return e.Err
}

// ConcatError is fatal: joining the segments failed.
type ConcatError struct {
	Stderr string
	Err    error
}

func (e *ConcatError) Error() string {
	return fmt.Sprintf("concat: %v: %s", e.Err, e.Stderr)
}

func (e *ConcatError) Unwrap() error {
	return e.Err
}

// Assembler owns the encoder runner for the lifetime of the process. It is
// constructed once at startup and injected wherever assembly happens.
type Assembler struct {
	runner  ffmpeg.Runner
	dataDir string
	log     *logrus.Logger
}

func New(runner ffmpeg.Runner, dataDir string, logger *logrus.Logger) *Assembler {
	return &Assembler{
		runner:  runner,
		dataDir: dataDir,
		log: logger.WithFields(logrus.Fields{
			"component": "assemble",
		}).Logger,
	}
}

// segmentDuration applies the pacing rule: measured narration length when
// audio is present (5s guess if the probe fails), else the declared slide
// duration, plus a fixed one second pad.
func (a *Assembler) segmentDuration(index int, slide Slide, audioPath string) float64 {
	if audioPath != "" {
		length, err := ffmpeg.Length(a.runner, audioPath)
		if err != nil || length <= 0 {
			a.log.Warnf("couldn't measure narration length for slide %d, assuming %.0fs: %v",
				index+1, fallbackSeconds, err)
			length = fallbackSeconds
		}
		return length + padSeconds
	}
	if slide.Duration > 0 {
		return float64(slide.Duration) + padSeconds
	}
	return fallbackSeconds + padSeconds
}

// Assemble encodes one segment per slide, sequentially and in input order,
// then stream-copies them into a single output in the data dir. Per-slide
// temp inputs are removed as soon as their segment is done; segments and the
// concat manifest are removed before returning, success or not.
func (a *Assembler) Assemble(slides []Slide) (Output, error) {
	if len(slides) == 0 {
		return Output{}, fmt.Errorf("no slides to assemble")
	}

	if err := os.MkdirAll(a.dataDir, 0700); err != nil {
		return Output{}, err
	}
	workDir, err := os.MkdirTemp(a.dataDir, ".assemble-")
	if err != nil {
		return Output{}, err
	}
	defer os.RemoveAll(workDir)

	segmentNames := make([]string, 0, len(slides))
	segmentDurations := make([]float64, 0, len(slides))

	for i, slide := range slides {
		name, duration, err := a.buildSegment(workDir, i, slide)
		if err != nil {
			return Output{}, err
		}
		segmentNames = append(segmentNames, name)
		segmentDurations = append(segmentDurations, duration)
	}

	dstFilename := fmt.Sprintf("%s.mp4", uuid.Must(uuid.NewV7()).String())
	dstPath := filepath.Join(a.dataDir, dstFilename)

	if err := a.concat(workDir, segmentNames, dstPath); err != nil {
		return Output{}, err
	}

	fi, err := os.Stat(dstPath)
	if err != nil {
		return Output{}, &ConcatError{Err: fmt.Errorf("no output artifact: %w", err)}
	}

	var total float64
	for _, d := range segmentDurations {
		total += d
	}

	return Output{
		Filename:         dstFilename,
		Path:             dstPath,
		Duration:         total,
		Size:             fi.Size(),
		SegmentDurations: segmentDurations,
	}, nil
}

func (a *Assembler) buildSegment(workDir string, index int, slide Slide) (string, float64, error) {
	imgPath := filepath.Join(workDir, fmt.Sprintf("segment_%d_slide.png", index))
	if err := os.WriteFile(imgPath, slide.Image, 0600); err != nil {
		return "", 0, &SegmentError{Index: index, Err: err}
	}

	audioPath := ""
	if len(slide.Audio) > 0 {
		audioPath = filepath.Join(workDir, fmt.Sprintf("segment_%d_audio.mp3", index))
		if err := os.WriteFile(audioPath, slide.Audio, 0600); err != nil {
			os.Remove(imgPath)
			return "", 0, &SegmentError{Index: index, Err: err}
		}
	}

	// inputs are gone once the segment is done, on every exit path
	defer func() {
		os.Remove(imgPath)
		if audioPath != "" {
			os.Remove(audioPath)
		}
	}()

	duration := a.segmentDuration(index, slide, audioPath)

	segmentName := fmt.Sprintf("segment_%d.mp4", index)
	outPath := filepath.Join(workDir, segmentName)

	args := []string{"-loop", "1", "-i", imgPath, "-t", fmt.Sprintf("%f", duration)}
	if audioPath != "" {
		args = append(args, "-i", audioPath,
			"-c:a", "aac",
			"-c:v", "libx264", "-pix_fmt", "yuv420p",
			"-shortest")
	} else {
		args = append(args, "-c:v", "libx264", "-pix_fmt", "yuv420p")
	}
	args = append(args, "-y", outPath)

	_, stderr, err := a.runner.Ffmpeg(args...)
	if err != nil {
		return "", 0, &SegmentError{Index: index, Stderr: string(stderr), Err: err}
	}
	if _, err := os.Stat(outPath); err != nil {
		return "", 0, &SegmentError{Index: index, Stderr: string(stderr),
			Err: fmt.Errorf("no output artifact: %w", err)}
	}

	return segmentName, duration, nil
}

func (a *Assembler) concat(workDir string, segmentNames []string, dstPath string) error {
	listPath := filepath.Join(workDir, "concat_list.txt")
	manifest := ""
	for _, name := range segmentNames {
		manifest += fmt.Sprintf("file '%s'\n", name)
	}
	if err := os.WriteFile(listPath, []byte(manifest), 0600); err != nil {
		return &ConcatError{Err: err}
	}

	_, stderr, err := a.runner.Ffmpeg(
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y", dstPath)
	if err != nil {
		return &ConcatError{Stderr: string(stderr), Err: err}
	}
	return nil
}
