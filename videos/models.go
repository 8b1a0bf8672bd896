package videos

import (
	"fmt"

	"gorm.io/gorm"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

type Video struct {
	gorm.Model
	UserID      uint
	Title       string
	Description string
	Duration    float64 // seconds
	Size        int64   // bytes
	Filename    string
	Thumbnail   string
	Tags        []string `gorm:"serializer:json"`
	Status      Status
}

// Slide rows are owned by their Video and deleted with it.
type Slide struct {
	gorm.Model
	VideoID       uint // Video.ID
	OrderIdx      int  // 0-based playback order
	Title         string
	Content       string
	ImageFilename string
	Duration      float64 // segment duration, seconds
}

// SlideInfo describes one slide of a finished assembly for recording.
type SlideInfo struct {
	Title         string
	Content       string
	ImageFilename string
	Duration      float64
}

// Record stores a produced video and its slide manifest. Callers treat a
// failure here as degraded observability, not a failed delivery: the output
// file already exists and is never rolled back.
func Record(db *gorm.DB, userID uint, title, filename string, duration float64, size int64, slides []SlideInfo) (*Video, error) {
	if title == "" && len(slides) > 0 {
		title = slides[0].Title
	}
	if title == "" {
		title = "Generated video"
	}

	var tags []string
	for _, s := range slides {
		if s.Title != "" {
			tags = append(tags, s.Title)
		}
	}

	thumbnail := ""
	if len(slides) > 0 {
		thumbnail = slides[0].ImageFilename
	}

	video := Video{
		UserID:      userID,
		Title:       title,
		Description: fmt.Sprintf("%d slides", len(slides)),
		Duration:    duration,
		Size:        size,
		Filename:    filename,
		Thumbnail:   thumbnail,
		Tags:        tags,
		Status:      StatusCompleted,
	}
	if err := db.Create(&video).Error; err != nil {
		return nil, err
	}

	for i, s := range slides {
		slide := Slide{
			VideoID:       video.ID,
			OrderIdx:      i,
			Title:         s.Title,
			Content:       s.Content,
			ImageFilename: s.ImageFilename,
			Duration:      s.Duration,
		}
		if err := db.Create(&slide).Error; err != nil {
			return &video, err
		}
	}
	return &video, nil
}
