package domain

import "time"

// Video is the content descriptor for a stored video file. The drive
// service owns every field except StreamURL and ThumbnailURL, which the
// gateway computes per request.
type Video struct {
	FileID       string    `json:"file_id"`
	FileName     string    `json:"file_name"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mime_type"`
	StoragePath  string    `json:"storage_path"`
	DurationSecs *float64  `json:"duration,omitempty"`
	Thumbnail    *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	StreamURL    string    `json:"streamUrl"`
	ThumbnailURL *string   `json:"thumbnail,omitempty"`
}
