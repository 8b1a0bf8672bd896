package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"chalkcast/database"
	"chalkcast/jobs"
	"chalkcast/uploads"
)

// UploadPost accepts a document (multipart `file`) or pasted `text` and
// queues a summarize-to-video job for it.
func UploadPost(c echo.Context) error {
	user, err := GetUser(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	text := c.FormValue("text")
	name := "pasted text"

	if fileHeader, err := c.FormFile("file"); err == nil {
		src, err := fileHeader.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "couldn't open uploaded file")
		}
		defer src.Close()
		data, err := io.ReadAll(src)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "couldn't read uploaded file")
		}
		text = string(data)
		name = fileHeader.Filename
	}

	if strings.TrimSpace(text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no document text provided")
	}

	db := database.Get()

	upload := uploads.UploadedFile{
		UserID: user.Id,
		Name:   name,
		Size:   int64(len(text)),
		Text:   text,
	}
	if err := db.Create(&upload).Error; err != nil {
		return err
	}

	mascot := strings.ToLower(c.FormValue("mascot"))
	withMascot := mascot == "on" || mascot == "1" || mascot == "true"

	job := jobs.Job{
		UserID:     user.Id,
		UploadID:   upload.ID,
		WithMascot: withMascot,
		Status:     jobs.StatusQueued,
	}
	if err := db.Create(&job).Error; err != nil {
		return err
	}

	log.Infof("queued job %d for upload %d (%s)", job.ID, upload.ID, name)

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"job_id":    job.ID,
		"upload_id": upload.ID,
	})
}
