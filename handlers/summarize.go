package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chalkcast/config"
	"chalkcast/openai"
	"chalkcast/summarize"
)

type summarizeRequest struct {
	Text string `json:"text"`
}

// SummarizePost turns raw text into exactly six slide bullets.
func SummarizePost(c echo.Context) error {
	apiKey, err := config.GetOpenAIKey()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req summarizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no text provided")
	}

	result, err := summarize.Run(openai.New(apiKey), req.Text)
	if err != nil {
		log.Errorln("summarize failed:", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"summary": result.Summary,
		"slides":  result.Slides,
	})
}
