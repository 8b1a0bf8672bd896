package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"chalkcast/database"
	"chalkcast/jobs"
)

func JobsGet(c echo.Context) error {
	user, err := GetUser(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	var list []jobs.Job
	err = database.Get().
		Where("user_id = ?", user.Id).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, list)
}

func JobGet(c echo.Context) error {
	user, err := GetUser(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var job jobs.Job
	if err := database.Get().Where("id = ? AND user_id = ?", id, user.Id).First(&job).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such job")
	}

	return c.JSON(http.StatusOK, job)
}

// JobCancel cancels a job that hasn't started yet. Running jobs are not
// interruptible.
func JobCancel(c echo.Context) error {
	user, err := GetUser(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var job jobs.Job
	if err := database.Get().Where("id = ? AND user_id = ?", id, user.Id).First(&job).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such job")
	}

	cancelled, err := jobs.Cancel(uint(id))
	if err != nil {
		return err
	}
	if !cancelled {
		return echo.NewHTTPError(http.StatusConflict, "job already started")
	}
	return c.NoContent(http.StatusNoContent)
}

// JobsEvents streams job progress to the client as server-sent events.
func JobsEvents(c echo.Context) error {
	user, err := GetUser(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	req := c.Request()
	res := c.Response()

	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")

	done := req.Context().Done()

	q := jobs.Subscribe(user.Id)
	defer jobs.Unsubscribe(user.Id, q)

	for {
		select {
		case <-done:
			return nil
		case event := <-q.Ch:
			jsonData, err := json.Marshal(event)
			if err != nil {
				return err
			}

			msg := fmt.Sprintf("data: %s\n\n", jsonData)
			if _, err := res.Write([]byte(msg)); err != nil {
				return err
			}
			res.Flush()
		}
	}
}
