// Package s3store keeps vault documents as JSON objects in an S3 bucket,
// one object per user under <prefix>/<userID>.json.
package s3store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/otpkeeper/internal/client/models"
	"github.com/dmitrijs2005/otpkeeper/internal/common"
)

var ErrInvalidConfig = errors.New("s3store: bucket and region are required")

// Client is the part of *s3.Client the store uses. Tests substitute a mock.
type Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

type Config struct {
	Bucket         string
	Region         string
	Endpoint       string // optional, for S3-compatible services
	AccessKeyID    string
	SecretKey      string
	Prefix         string
	ForcePathStyle bool // MinIO and friends
}

type Store struct {
	client Client
	bucket string
	prefix string
}

// New loads the AWS configuration (static credentials when given, the
// default chain otherwise) and returns a Store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	awsOptions := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOptions = append(awsOptions,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretKey,
				"",
			)),
		)
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, fmt.Errorf("s3store: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return NewWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *Store) objectKey(userID string) string {
	return path.Join(s.prefix, url.PathEscape(userID)+".json")
}

func (s *Store) Get(ctx context.Context, userID string) (*models.VaultDocument, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(userID)),
	})
	if err != nil {
		return nil, classifyError(err, "get")
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3store: read object: %w", err)
	}

	var doc models.VaultDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("s3store: decode document: %w", err)
	}
	return &doc, nil
}

func (s *Store) Put(ctx context.Context, doc models.VaultDocument) error {
	if doc.UserID == "" {
		return errors.New("s3store: document has no user id")
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("s3store: encode document: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.objectKey(doc.UserID)),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return classifyError(err, "put")
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return classifyError(err, "ping")
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	return nil
}

// classifyError maps missing objects to common.ErrorNotFound and access
// problems to common.ErrorUnauthorized.
func classifyError(err error, operation string) error {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return common.ErrorNotFound
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return common.ErrorNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return common.ErrorNotFound
		case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return fmt.Errorf("s3store: %s: %w", operation, common.ErrorUnauthorized)
		}
	}
	return fmt.Errorf("s3store: %s: %w", operation, err)
}
