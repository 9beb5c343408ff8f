// Package archive optionally serializes an evaluated parameter snapshot to
// an S3-compatible bucket, grounded on the teacher's
// internal/infra/blob/s3/store.go. It is a convenience export path, never
// on the hot path of a core query or evaluation.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	gridcoreconfig "gridcore/internal/config"
)

// Archiver writes materialized parameter snapshots to durable storage.
type Archiver interface {
	Archive(ctx context.Context, parameterName string, snapshot any) (id string, err error)
}

// Store is an S3-backed Archiver.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// New creates an S3 archive store from gridcoreconfig.Archive.
func New(ctx context.Context, cfg gridcoreconfig.Archive) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive: bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("archive: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &Store{client: client, bucket: cfg.Bucket, prefix: "snapshots/"}, nil
}

// Archive serializes snapshot as JSON and uploads it under the key
// <prefix><parameterName>/<uuid>-<unix seconds>.json, returning the fresh
// uuid (not the full key) as the archive identifier (spec leaves archive
// identifiers untyped; google/uuid mints a stable one, as it does for
// TimeSlice.ID).
func (s *Store) Archive(ctx context.Context, parameterName string, snapshot any) (string, error) {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("archive: marshal snapshot for %s: %w", parameterName, err)
	}
	id := uuid.NewString()
	key := s.key(parameterName, id)
	input := &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("archive: put %s: %w", key, err)
	}
	return id, nil
}

func (s *Store) key(parameterName, id string) string {
	safe := strings.ReplaceAll(parameterName, "/", "_")
	return fmt.Sprintf("%s%s/%s-%d.json", s.prefix, safe, id, time.Now().UTC().Unix())
}
