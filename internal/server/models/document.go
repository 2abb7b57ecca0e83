package models

import "time"

type DocumentStatus string

const (
	DocumentCompleted DocumentStatus = "completed"
	DocumentFailed    DocumentStatus = "failed"
)

// Document records one attempt to mirror a submission's generated
// document to remote file storage.
type Document struct {
	ID           int64          `json:"id"`
	SubmissionID string         `json:"submission_id"`
	FileName     string         `json:"file_name"`
	StorageKey   string         `json:"storage_key,omitempty"`
	Mirror       string         `json:"mirror"`
	Status       DocumentStatus `json:"status"`
	Error        string         `json:"error,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}
