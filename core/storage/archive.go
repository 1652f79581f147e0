package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"

	"doc-reconciler/core/report"
)

// Archive uploads run artifacts to the configured bucket so reports survive
// the run that produced them. Artifacts are stored under runs/<runID>/ as
// CSV objects.
type Archive struct {
	client Client
	bucket string
}

// NewArchive builds an Archive over an existing storage client.
func NewArchive(client Client, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket}
}

// Store serializes each artifact to CSV and uploads it. The bucket is
// created on first use. Returns the object names written.
func (a *Archive) Store(ctx context.Context, runID string, artifacts []report.Artifact) ([]string, error) {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check archive bucket: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create archive bucket: %w", err)
		}
	}

	objects := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		var buf bytes.Buffer
		if err := report.WriteCSV(&buf, artifact); err != nil {
			return nil, fmt.Errorf("failed to serialize artifact %q: %w", artifact.Name, err)
		}

		objectName := fmt.Sprintf("runs/%s/%s.csv", runID, artifact.Name)
		_, err := a.client.PutObject(ctx, a.bucket, objectName, &buf, int64(buf.Len()), minio.PutObjectOptions{
			ContentType: "text/csv",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upload artifact %q: %w", artifact.Name, err)
		}
		objects = append(objects, objectName)
	}

	return objects, nil
}
