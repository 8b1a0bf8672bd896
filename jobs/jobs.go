package jobs

import (
	"gorm.io/gorm"

	"chalkcast/database"
)

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Job tracks one summarize-to-video run. Terminal once completed, failed or
// cancelled.
type Job struct {
	gorm.Model
	UserID     uint
	UploadID   uint  // UploadedFile.ID
	VideoID    *uint // Video.ID, set on completion
	WithMascot bool
	Status     Status
	Progress   int // percent
	Error      string
}

func SetStatus(id uint, status Status) error {
	db := database.Get()
	log.Debugln("job", id, "status ->", status)
	return db.Model(&Job{}).Where("id = ?", id).Update("status", status).Error
}

func SetProgress(id uint, progress int) error {
	db := database.Get()
	return db.Model(&Job{}).Where("id = ?", id).Update("progress", progress).Error
}

func Fail(id uint, message string) error {
	db := database.Get()
	log.Debugln("job", id, "failed:", message)
	return db.Model(&Job{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": StatusFailed, "error": message}).Error
}

func Complete(id, videoID uint) error {
	db := database.Get()
	log.Debugln("job", id, "completed with video", videoID)
	return db.Model(&Job{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": StatusCompleted, "progress": 100, "video_id": videoID}).Error
}

// Cancel marks a job cancelled, but only while it is still queued. A started
// run always goes to completion or failure.
func Cancel(id uint) (bool, error) {
	db := database.Get()
	result := db.Model(&Job{}).
		Where("id = ? AND status = ?", id, StatusQueued).
		Update("status", StatusCancelled)
	return result.RowsAffected > 0, result.Error
}
