// Package controller implements the service layer of the back-office:
// validation, persistence through the repository, file handling and change
// events for parameters, companies, consortia, projects and workers.
package controller

import (
	"context"
	"fmt"

	"github.com/gartstein/backoffice/internal/backoffice/events"
	"github.com/gartstein/backoffice/internal/backoffice/storage"
)

type EventProducer interface {
	Produce(eventType events.EventType, key string, payload interface{})
}

// Validator checks tagged input structures.
type Validator interface {
	Struct(s interface{}) error
	StructWithPrefix(s interface{}, prefix string) error
}

// FileStore persists uploads. Remove never fails.
type FileStore interface {
	Save(ctx context.Context, bucket string, up *storage.Upload) (string, error)
	Remove(ctx context.Context, name *string)
}

// Buckets are the storage prefixes of each kind of upload.
type Buckets struct {
	CompanyLogos    string
	ConsortiumLogos string
	ProjectCovers   string
	WorkerPhotos    string
	SafetyEvidence  string
}

func key(id uint) string {
	return fmt.Sprintf("%d", id)
}

// storeUpload saves up when present. The returned path is nil without upload.
func storeUpload(ctx context.Context, files FileStore, bucket string, up *storage.Upload) (*string, error) {
	if up == nil || len(up.Data) == 0 {
		return nil, nil
	}
	name, err := files.Save(ctx, bucket, up)
	if err != nil {
		return nil, err
	}
	return &name, nil
}
