package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"verigate/pkg/platform/sentinel"
)

// DefaultURLTTL applies when GetDownloadURL is called with a zero ttl.
const DefaultURLTTL = time.Hour

// ObjectAPI is the subset of *s3.Client the store calls.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Presigner is the subset of *s3.PresignClient the store calls.
type Presigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Config holds bucket location and optional static credentials.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Client builds an S3 client. A custom endpoint switches to path-style
// addressing for S3-compatible stores.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3Store keeps documents in one bucket.
type S3Store struct {
	objects ObjectAPI
	presign Presigner
	bucket  string
	index   KeyIndex
	now     func() time.Time
	logger  *slog.Logger
}

type S3Option func(*S3Store)

func WithClock(now func() time.Time) S3Option {
	return func(s *S3Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) S3Option {
	return func(s *S3Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewS3Store wires a store on top of an S3 client.
func NewS3Store(client *s3.Client, bucket string, index KeyIndex, opts ...S3Option) *S3Store {
	return newS3Store(client, s3.NewPresignClient(client), bucket, index, opts...)
}

func newS3Store(objects ObjectAPI, presign Presigner, bucket string, index KeyIndex, opts ...S3Option) *S3Store {
	if index == nil {
		index = NewMemoryKeyIndex()
	}
	s := &S3Store{
		objects: objects,
		presign: presign,
		bucket:  bucket,
		index:   index,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *S3Store) Upload(ctx context.Context, content []byte, meta Metadata) (Stored, error) {
	if err := Validate(content, meta); err != nil {
		return Stored{}, err
	}
	documentID := NewDocumentID()
	key := ObjectKey(meta, documentID, s.now().UTC())

	_, err := s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(key),
		Body:                 bytes.NewReader(content),
		ContentType:          aws.String(meta.MimeType),
		ContentLength:        aws.Int64(int64(len(content))),
		ServerSideEncryption: types.ServerSideEncryptionAes256,
		Metadata: map[string]string{
			"tenant-id":   meta.TenantID,
			"request-id":  meta.RequestID,
			"category":    string(meta.Category),
			"uploaded-by": meta.UploadedBy,
		},
	})
	if err != nil {
		return Stored{}, fmt.Errorf("put object %s: %w", key, err)
	}
	if err := s.index.Put(ctx, documentID, key); err != nil {
		s.logger.ErrorContext(ctx, "document stored but not indexed",
			"document_id", documentID,
			"key", key,
			"error", err,
		)
		return Stored{}, err
	}
	s.logger.InfoContext(ctx, "document uploaded",
		"document_id", documentID,
		"tenant_id", meta.TenantID,
		"category", meta.Category,
		"size", len(content),
	)
	return Stored{DocumentID: documentID, Location: fmt.Sprintf("s3://%s/%s", s.bucket, key)}, nil
}

func (s *S3Store) GetDownloadURL(ctx context.Context, documentID string, ttl time.Duration) (string, error) {
	key, err := s.index.Get(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("document %s: %w", documentID, err)
	}
	if ttl <= 0 {
		ttl = DefaultURLTTL
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

func (s *S3Store) Delete(ctx context.Context, documentID string) (bool, error) {
	key, err := s.index.Get(ctx, documentID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, err := s.objects.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return false, fmt.Errorf("delete object %s: %w", key, err)
	}
	if err := s.index.Delete(ctx, documentID); err != nil {
		return false, err
	}
	s.logger.InfoContext(ctx, "document deleted", "document_id", documentID)
	return true, nil
}
