package ffmpeg

import (
	"strconv"
	"strings"
)

// Length returns the duration in seconds of the media file at `path`
func Length(r Runner, path string) (float64, error) {
	stdout, _, err := r.Ffprobe("-v", "error", "-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", path)
	if err != nil {
		return -1, err
	}

	result, err := strconv.ParseFloat(strings.TrimSpace(string(stdout)), 64)
	if err != nil {
		log.Errorln("Length parse error:", err, string(stdout))
		return -1, err
	}
	return result, nil
}
