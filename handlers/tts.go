package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"chalkcast/config"
	"chalkcast/elevenlabs"
	"chalkcast/narration"
)

type ttsRequest struct {
	Slides []narration.Slide `json:"slides"`
}

type ttsResult struct {
	SlideIndex int     `json:"slideIndex"`
	Title      string  `json:"title"`
	AudioData  *string `json:"audioData"`
	Duration   int     `json:"duration"`
	Error      string  `json:"error,omitempty"`
}

// TTSPost synthesizes narration per slide. The response always carries one
// result per slide so callers can render partial success.
func TTSPost(c echo.Context) error {
	apiKey, err := config.GetElevenLabsKey()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req ttsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Slides) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "slide data required")
	}

	batch := narration.Run(elevenlabs.New(apiKey), config.GetVoiceID(), req.Slides, 1)

	results := make([]ttsResult, 0, len(batch.Results))
	for _, r := range batch.Results {
		item := ttsResult{
			SlideIndex: r.SlideIndex,
			Title:      r.Title,
			Duration:   r.Duration,
			Error:      r.Err,
		}
		if r.Audio != nil {
			url := encodeDataURL("audio/mpeg", r.Audio)
			item.AudioData = &url
		}
		results = append(results, item)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"results": results,
		"message": fmt.Sprintf("synthesized narration for %d/%d slides", batch.Succeeded, batch.Total),
	})
}

// VoicesGet lists the voices available for narration.
func VoicesGet(c echo.Context) error {
	apiKey, err := config.GetElevenLabsKey()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	voices, err := elevenlabs.New(apiKey).Voices()
	if err != nil {
		log.Errorln("voice list failed:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"voices":  voices,
	})
}
