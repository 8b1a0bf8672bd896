package ffmpeg

import (
	"bytes"
	"os/exec"
	"strings"
)

// Runner invokes the external encoder tools. The assembly pipeline receives
// one Runner at construction; nothing lazily creates encoder handles
// mid-request.
type Runner interface {
	Ffmpeg(args ...string) ([]byte, []byte, error)
	Ffprobe(args ...string) ([]byte, []byte, error)
}

// CLI runs the ffmpeg and ffprobe binaries found on PATH.
type CLI struct{}

func NewCLI() *CLI {
	return &CLI{}
}

// runs ffmpeg with the provided args and returns (stdout, stderr, error)
func (r *CLI) Ffmpeg(args ...string) ([]byte, []byte, error) {
	ffmpeg := "ffmpeg"
	log.Infoln(ffmpeg, strings.Join(args, " "))
	cmd := exec.Command(ffmpeg, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	if err != nil {
		log.Errorf("ffmpeg error: %v", err)
		log.Infoln("stdout:", stdout.String())
		log.Infoln("stderr:", stderr.String())
	}
	return stdout.Bytes(), stderr.Bytes(), err
}

// runs ffprobe with the provided args and returns (stdout, stderr, error)
func (r *CLI) Ffprobe(args ...string) ([]byte, []byte, error) {
	ffprobe := "ffprobe"
	log.Infoln(ffprobe, strings.Join(args, " "))
	cmd := exec.Command(ffprobe, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	if err != nil {
		log.Errorf("ffprobe error: %v", err)
		log.Infoln("stderr:", stderr.String())
	}
	return stdout.Bytes(), stderr.Bytes(), err
}
