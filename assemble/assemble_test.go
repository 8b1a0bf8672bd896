package assemble

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"chalkcast/ffmpeg"
)

func TestMain(m *testing.M) {
	ffmpeg.Init(logrus.New())
	os.Exit(m.Run())
}

// fakeRunner mimics the encoder: it creates the output artifact named by the
// final argument and records every invocation.
type fakeRunner struct {
	ffmpegCalls  [][]string
	probeCalls   [][]string
	probeStdout  string
	probeErr     error
	failSegment  int // 1-based index of the encode call to fail, 0 for none
	failConcat   bool
	manifests    []string
	seenWorkDirs []string
}

func (f *fakeRunner) Ffmpeg(args ...string) ([]byte, []byte, error) {
	f.ffmpegCalls = append(f.ffmpegCalls, args)

	if len(args) > 1 && args[0] == "-f" && args[1] == "concat" {
		// read the manifest while it still exists
		for i, a := range args {
			if a == "-i" && i+1 < len(args) {
				data, _ := os.ReadFile(args[i+1])
				f.manifests = append(f.manifests, string(data))
				f.seenWorkDirs = append(f.seenWorkDirs, filepath.Dir(args[i+1]))
			}
		}
		if f.failConcat {
			return nil, []byte("concat exploded"), fmt.Errorf("exit status 1")
		}
	} else {
		encodes := 0
		for _, call := range f.ffmpegCalls {
			if len(call) > 0 && call[0] == "-loop" {
				encodes++
			}
		}
		if f.failSegment != 0 && encodes == f.failSegment {
			return nil, []byte("encode exploded"), fmt.Errorf("exit status 1")
		}
	}

	out := args[len(args)-1]
	if err := os.WriteFile(out, []byte("fake media"), 0600); err != nil {
		return nil, nil, err
	}
	return nil, nil, nil
}

func (f *fakeRunner) Ffprobe(args ...string) ([]byte, []byte, error) {
	f.probeCalls = append(f.probeCalls, args)
	if f.probeErr != nil {
		return nil, nil, f.probeErr
	}
	return []byte(f.probeStdout), nil, nil
}

func newTestAssembler(t *testing.T, runner ffmpeg.Runner) (*Assembler, string) {
	t.Helper()
	dataDir := t.TempDir()
	return New(runner, dataDir, logrus.New()), dataDir
}

func silentSlides(n, duration int) []Slide {
	slides := make([]Slide, 0, n)
	for i := 0; i < n; i++ {
		slides = append(slides, Slide{
			Title:    fmt.Sprintf("Slide %d", i+1),
			Content:  "content",
			Duration: duration,
			Image:    []byte("png"),
		})
	}
	return slides
}

func TestAssembleSilentSlides(t *testing.T) {
	runner := &fakeRunner{}
	asm, dataDir := newTestAssembler(t, runner)

	out, err := asm.Assemble(silentSlides(6, 5))
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if !strings.HasSuffix(out.Filename, ".mp4") {
		t.Errorf("Filename = %q", out.Filename)
	}
	if out.Path != filepath.Join(dataDir, out.Filename) {
		t.Errorf("Path = %q", out.Path)
	}
	if out.Size <= 0 {
		t.Errorf("Size = %d", out.Size)
	}

	// declared 5s plus the 1s pad
	if len(out.SegmentDurations) != 6 {
		t.Fatalf("got %d segment durations", len(out.SegmentDurations))
	}
	for i, d := range out.SegmentDurations {
		if d != 6.0 {
			t.Errorf("segment %d duration = %f, want 6.0", i, d)
		}
	}
	if out.Duration != 36.0 {
		t.Errorf("total duration = %f, want 36.0", out.Duration)
	}

	// no narration anywhere, so no probes
	if len(runner.probeCalls) != 0 {
		t.Errorf("unexpected probe calls: %v", runner.probeCalls)
	}

	// 6 encodes plus the concat
	if len(runner.ffmpegCalls) != 7 {
		t.Errorf("got %d ffmpeg calls, want 7", len(runner.ffmpegCalls))
	}
}

func TestAssembleMeasuresNarration(t *testing.T) {
	runner := &fakeRunner{probeStdout: "2.500000\n"}
	asm, _ := newTestAssembler(t, runner)

	slides := silentSlides(2, 5)
	slides[0].Audio = []byte("mp3")

	out, err := asm.Assemble(slides)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	// measured 2.5s plus pad, then declared 5s plus pad
	if out.SegmentDurations[0] != 3.5 {
		t.Errorf("narrated segment duration = %f, want 3.5", out.SegmentDurations[0])
	}
	if out.SegmentDurations[1] != 6.0 {
		t.Errorf("silent segment duration = %f, want 6.0", out.SegmentDurations[1])
	}
	if len(runner.probeCalls) != 1 {
		t.Errorf("got %d probe calls, want 1", len(runner.probeCalls))
	}

	// the narrated encode must carry the audio input and -shortest
	encode := runner.ffmpegCalls[0]
	joined := strings.Join(encode, " ")
	if !strings.Contains(joined, "-c:a aac") || !strings.Contains(joined, "-shortest") {
		t.Errorf("narrated encode args missing audio handling: %v", encode)
	}
}

func TestAssembleProbeFailureFallsBack(t *testing.T) {
	runner := &fakeRunner{probeErr: fmt.Errorf("unreadable")}
	asm, _ := newTestAssembler(t, runner)

	slides := silentSlides(1, 9)
	slides[0].Audio = []byte("mp3")

	out, err := asm.Assemble(slides)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	// 5s guess plus pad, declared duration is ignored once audio exists
	if out.SegmentDurations[0] != 6.0 {
		t.Errorf("duration = %f, want 6.0", out.SegmentDurations[0])
	}
}

func TestAssembleZeroDurationFallsBack(t *testing.T) {
	runner := &fakeRunner{}
	asm, _ := newTestAssembler(t, runner)

	out, err := asm.Assemble(silentSlides(1, 0))
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if out.SegmentDurations[0] != 6.0 {
		t.Errorf("duration = %f, want 6.0", out.SegmentDurations[0])
	}
}

func TestAssembleSegmentFailure(t *testing.T) {
	runner := &fakeRunner{failSegment: 3}
	asm, dataDir := newTestAssembler(t, runner)

	_, err := asm.Assemble(silentSlides(6, 5))
	if err == nil {
		t.Fatal("expected an error")
	}
	var serr *SegmentError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *SegmentError, got %T", err)
	}
	if serr.Index != 2 {
		t.Errorf("SegmentError.Index = %d, want 2", serr.Index)
	}
	if !strings.Contains(serr.Stderr, "encode exploded") {
		t.Errorf("SegmentError.Stderr = %q", serr.Stderr)
	}

	// the failure must not leave temp state behind
	assertNoTempState(t, dataDir)
}

func TestAssembleConcatFailure(t *testing.T) {
	runner := &fakeRunner{failConcat: true}
	asm, dataDir := newTestAssembler(t, runner)

	_, err := asm.Assemble(silentSlides(2, 5))
	if err == nil {
		t.Fatal("expected an error")
	}
	var cerr *ConcatError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *ConcatError, got %T", err)
	}
	if !strings.Contains(cerr.Stderr, "concat exploded") {
		t.Errorf("ConcatError.Stderr = %q", cerr.Stderr)
	}
	assertNoTempState(t, dataDir)
}

func TestAssembleManifestOrder(t *testing.T) {
	runner := &fakeRunner{}
	asm, _ := newTestAssembler(t, runner)

	if _, err := asm.Assemble(silentSlides(3, 5)); err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(runner.manifests) != 1 {
		t.Fatalf("got %d manifests", len(runner.manifests))
	}
	want := "file 'segment_0.mp4'\nfile 'segment_1.mp4'\nfile 'segment_2.mp4'\n"
	if runner.manifests[0] != want {
		t.Errorf("manifest = %q, want %q", runner.manifests[0], want)
	}
}

// Per-slide image and audio inputs are deleted before concat runs.
func TestAssembleInputCleanup(t *testing.T) {
	runner := &fakeRunner{probeStdout: "1.000000\n"}
	asm, dataDir := newTestAssembler(t, runner)

	slides := silentSlides(2, 5)
	slides[1].Audio = []byte("mp3")

	if _, err := asm.Assemble(slides); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if len(runner.seenWorkDirs) != 1 {
		t.Fatalf("concat never observed")
	}
	workDir := runner.seenWorkDirs[0]
	for _, name := range []string{"segment_0_slide.png", "segment_1_slide.png", "segment_1_audio.mp3"} {
		if _, err := os.Stat(filepath.Join(workDir, name)); !os.IsNotExist(err) {
			t.Errorf("input %s survived until concat", name)
		}
	}

	assertNoTempState(t, dataDir)
}

func TestAssembleNoSlides(t *testing.T) {
	asm, _ := newTestAssembler(t, &fakeRunner{})
	if _, err := asm.Assemble(nil); err == nil {
		t.Fatal("expected an error for an empty batch")
	}
}

// assertNoTempState fails the test if any .assemble- scratch dir remains.
func assertNoTempState(t *testing.T, dataDir string) {
	t.Helper()
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".assemble-") {
			t.Errorf("scratch dir %s left behind", e.Name())
		}
	}
}
