package handlers

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"chalkcast/assemble"
	"chalkcast/compose"
	"chalkcast/config"
	"chalkcast/database"
	"chalkcast/videos"
)

type generateSlide struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Duration   int    `json:"duration"`
	SlideImage string `json:"slideImage"`
	AudioData  string `json:"audioData"`
}

type generateRequest struct {
	Slides      []generateSlide `json:"slides"`
	MascotImage string          `json:"mascotImage"`
}

// VideoGenerationPost is the assembly boundary: an ordered slide list with
// rendered image bytes, optional narration bytes and an optional mascot
// image in, one playable video out. The response carries a direct URL, or
// the bytes inline when local storage is ephemeral.
func VideoGenerationPost(c echo.Context) error {
	user, err := GetUser(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Slides) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "slide data required")
	}

	var mascotImage []byte
	if req.MascotImage != "" {
		mascotImage, err = decodeDataURL(req.MascotImage)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid mascot image data")
		}
	}

	slides := make([]assemble.Slide, 0, len(req.Slides))
	for i, s := range req.Slides {
		image, err := decodeDataURL(s.SlideImage)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("slide %d: invalid image data", i))
		}

		if mascotImage != nil {
			composited, err := compose.Overlay(image, mascotImage)
			if err != nil {
				// keep the plain slide rather than failing the batch
				log.Errorf("compositing slide %d failed, using plain slide: %v", i, err)
			} else {
				image = composited
			}
		}

		var audio []byte
		if s.AudioData != "" {
			audio, err = decodeDataURL(s.AudioData)
			if err != nil {
				log.Warnf("slide %d: invalid audio data, falling back to declared duration", i)
				audio = nil
			}
		}

		slides = append(slides, assemble.Slide{
			Title:    s.Title,
			Content:  s.Content,
			Duration: s.Duration,
			Image:    image,
			Audio:    audio,
		})
	}

	out, err := assembler.Assemble(slides)
	if err != nil {
		log.Errorln("assembly failed:", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
	}

	// metadata recording is best-effort: the video already exists
	recordVideo(user.Id, out, slides)

	if config.GetEphemeral() {
		data, err := os.ReadFile(out.Path)
		if err != nil {
			log.Errorln("couldn't read produced video:", err)
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"success": false,
				"error":   err.Error(),
			})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":   true,
			"videoData": base64.StdEncoding.EncodeToString(data),
			"videoUrl":  nil,
			"message":   "video generated",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"videoUrl": "/data/" + out.Filename,
		"message":  "video generated",
	})
}

// recordVideo writes the per-slide images next to the video and stores the
// Video and Slide rows. Failures are logged only.
func recordVideo(userID uint, out assemble.Output, slides []assemble.Slide) {
	base := strings.TrimSuffix(out.Filename, ".mp4")

	infos := make([]videos.SlideInfo, 0, len(slides))
	for i, s := range slides {
		imageFilename := fmt.Sprintf("%s_slide_%d.png", base, i)
		if err := os.WriteFile(filepath.Join(config.GetDataDir(), imageFilename), s.Image, 0600); err != nil {
			log.Errorf("couldn't write slide image %s: %v", imageFilename, err)
			imageFilename = ""
		}
		infos = append(infos, videos.SlideInfo{
			Title:         s.Title,
			Content:       s.Content,
			ImageFilename: imageFilename,
			Duration:      out.SegmentDurations[i],
		})
	}

	if _, err := videos.Record(database.Get(), userID, "", out.Filename, out.Duration, out.Size, infos); err != nil {
		log.Errorf("couldn't record video metadata: %v", err)
	}
}
