package domain

import (
	"context"
	"time"
)

// FilePurpose tags what an uploaded file is for.
type FilePurpose string

const (
	PurposeConceptNote FilePurpose = "concept_note"
	PurposeLogo        FilePurpose = "logo"
)

// UploadedFile is a file part received with a submission.
type UploadedFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// StoredFile is the stable reference to a stored object.
type StoredFile struct {
	URL  string `json:"url"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// ObjectStore is the external object storage collaborator.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte, metadata map[string]string) (url string, err error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// FileIntake validates uploads and stores them.
type FileIntake interface {
	// Check validates the file for purpose without storing it. file may be nil.
	Check(file *UploadedFile, purpose FilePurpose) error
	// Store checks and then uploads the file. It returns (nil, nil) for an absent optional file.
	Store(ctx context.Context, file *UploadedFile, purpose FilePurpose) (*StoredFile, error)
}
