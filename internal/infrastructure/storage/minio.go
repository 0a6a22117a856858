package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/meetscribe/meetscribe/pkg/config"
)

// TranscriptArchive stores completed transcripts in object storage so the
// database only has to hold the working copy.
type TranscriptArchive struct {
	client *minio.Client
	bucket string
}

// NewTranscriptArchive creates a MinIO-backed transcript archive
func NewTranscriptArchive(cfg *config.StorageConfig) (*TranscriptArchive, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	archive := &TranscriptArchive{
		client: minioClient,
		bucket: cfg.BucketName,
	}

	ctx := context.Background()
	if err := archive.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return archive, nil
}

// ensureBucket ensures the archive bucket exists
func (a *TranscriptArchive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// ArchiveTranscript uploads a transcript under transcripts/<meetingID>.txt.
// Retries with exponential backoff; archival is best effort and the caller
// decides whether a final failure matters.
func (a *TranscriptArchive) ArchiveTranscript(ctx context.Context, meetingID, transcript string) error {
	objectName := fmt.Sprintf("transcripts/%s.txt", meetingID)

	put := func() error {
		reader := bytes.NewReader([]byte(transcript))
		_, err := a.client.PutObject(ctx, a.bucket, objectName, reader, int64(len(transcript)), minio.PutObjectOptions{
			ContentType: "text/plain",
		})
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(put, backoff.WithContext(bo, ctx)); err != nil {
		return fmt.Errorf("failed to archive transcript: %w", err)
	}
	return nil
}
