package main

import (
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"chalkcast/config"
	"chalkcast/handlers"
	"chalkcast/videos"
)

// shareVideoHandler mints a temporary unauthenticated URL for a video
func shareVideoHandler(c echo.Context) error {
	user, err := handlers.GetUser(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var video videos.Video
	if err := db.Where("id = ? AND user_id = ?", id, user.Id).First(&video).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such video")
	}

	tempURL, err := CreateTempURL(filepath.Join(config.GetDataDir(), video.Filename))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"url":        "/temp/" + tempURL.Token,
		"expires_at": tempURL.ExpiresAt,
	})
}

func tempHandler(c echo.Context) error {
	token := c.Param("token")

	var tempURL TempURL
	if err := db.Where("token = ?", token).First(&tempURL).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such URL")
	}
	if time.Now().After(tempURL.ExpiresAt) {
		return echo.NewHTTPError(http.StatusGone, "URL expired")
	}

	return c.File(tempURL.FilePath)
}
