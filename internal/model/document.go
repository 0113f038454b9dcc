package model

import "time"

// FileMeta is what the upload surface hands over for one file. Content is never read.
type FileMeta struct {
	Name string `json:"name" binding:"required"`
	Size int64  `json:"size" binding:"gte=0"`
}

type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	UploadedAt time.Time `json:"uploaded_at"`
}
