package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vadim/clipcast/internal/domain/realign/entity"
)

// S3Config holds S3/MinIO configuration
type S3Config struct {
	Endpoint        string // e.g., "http://localhost:9000" for MinIO
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
}

// S3PlanArchive persists executed realign plans as JSON audit artifacts
// in S3-compatible storage.
type S3PlanArchive struct {
	client *s3.Client
	bucket string
}

// NewS3PlanArchive creates a new S3 plan archive
func NewS3PlanArchive(cfg S3Config) *S3PlanArchive {
	client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		UsePathStyle: true, // Required for MinIO
	})

	return &S3PlanArchive{
		client: client,
		bucket: cfg.Bucket,
	}
}

// ArchivePlan uploads the plan under plans/YYYY/MM/DD/<run-id>.json and
// returns the object key
func (a *S3PlanArchive) ArchivePlan(ctx context.Context, runID string, plan *entity.RealignPlan) (string, error) {
	body, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding plan: %w", err)
	}

	key := fmt.Sprintf("plans/%s/%s.json", time.Now().UTC().Format("2006/01/02"), runID)

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("uploading plan to s3: %w", err)
	}

	return key, nil
}
