package entity

import "time"

type File struct {
	ID         string
	Filename   string
	UploadedAt time.Time
}
