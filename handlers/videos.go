package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/labstack/echo/v4"

	"chalkcast/config"
	"chalkcast/database"
	"chalkcast/videos"
)

func VideosGet(c echo.Context) error {
	user, err := GetUser(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	var vids []videos.Video
	err = database.Get().
		Where("user_id = ?", user.Id).
		Order("created_at DESC").
		Find(&vids).Error
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, vids)
}

func VideoGet(c echo.Context) error {
	user, err := GetUser(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	db := database.Get()

	var video videos.Video
	if err := db.Where("id = ? AND user_id = ?", id, user.Id).First(&video).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such video")
	}

	var slides []videos.Slide
	if err := db.Where("video_id = ?", video.ID).Order("order_idx").Find(&slides).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"video":  video,
		"slides": slides,
	})
}

// VideoDelete removes the video row, its owned slide rows, and the files
// they reference.
func VideoDelete(c echo.Context) error {
	user, err := GetUser(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	db := database.Get()

	var video videos.Video
	if err := db.Where("id = ? AND user_id = ?", id, user.Id).First(&video).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such video")
	}

	var slides []videos.Slide
	db.Where("video_id = ?", video.ID).Find(&slides)

	for _, slide := range slides {
		if slide.ImageFilename != "" {
			if err := os.Remove(filepath.Join(config.GetDataDir(), slide.ImageFilename)); err != nil {
				log.Warnln("couldn't remove slide image:", err)
			}
		}
	}
	if video.Filename != "" {
		if err := os.Remove(filepath.Join(config.GetDataDir(), video.Filename)); err != nil {
			log.Warnln("couldn't remove video file:", err)
		}
	}

	db.Where("video_id = ?", video.ID).Delete(&videos.Slide{})
	db.Delete(&video)

	return c.NoContent(http.StatusNoContent)
}
