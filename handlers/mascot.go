package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"chalkcast/config"
	"chalkcast/mascot"
	"chalkcast/openai"
)

type mascotRequest struct {
	SlideCount int    `json:"slideCount"`
	Context    string `json:"context"`
}

type mascotResult struct {
	SlideIndex int     `json:"slideIndex"`
	ImageData  *string `json:"imageData"`
	Prompt     string  `json:"prompt,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// MascotPost generates one mascot image per slide. Individual failures are
// reported per item; the batch itself always succeeds.
func MascotPost(c echo.Context) error {
	apiKey, err := config.GetOpenAIKey()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req mascotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.SlideCount < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "slide count required")
	}

	batch := mascot.Run(openai.New(apiKey), nil, req.SlideCount, req.Context)

	results := make([]mascotResult, 0, len(batch.Results))
	for _, r := range batch.Results {
		item := mascotResult{
			SlideIndex: r.SlideIndex,
			Prompt:     r.Prompt,
			Error:      r.Err,
		}
		if r.Image != nil {
			url := encodeDataURL("image/png", r.Image)
			item.ImageData = &url
		}
		results = append(results, item)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"results": results,
		"message": fmt.Sprintf("generated %d/%d mascot images", batch.Succeeded, batch.Total),
	})
}
