package model

import "time"

// Paper describes one uploaded question paper and its metadata.
// JSON names match what the browser front end reads.
type Paper struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Subject          string    `json:"subject"`
	Year             string    `json:"year"`
	Semester         string    `json:"semester"`
	University       string    `json:"university"`
	StoredFilename   string    `json:"filename"`
	OriginalFilename string    `json:"originalName"`
	MimeType         string    `json:"fileType"`
	SizeBytes        int64     `json:"fileSize"`
	UploadedAt       time.Time `json:"uploadDate"`
	DownloadCount    int64     `json:"downloadCount"`
}
