package uploads

import "gorm.io/gorm"

// UploadedFile is the source document. Read-only after creation.
type UploadedFile struct {
	gorm.Model
	UserID uint
	Name   string
	Size   int64
	Text   string
}

type SummarySlide struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Duration int    `json:"duration"`
}

// Summary is the six-bullet result for an upload. Read-only after creation.
type Summary struct {
	gorm.Model
	UploadID uint // UploadedFile.ID
	Overall  string
	Slides   []SummarySlide `gorm:"serializer:json"`
}
