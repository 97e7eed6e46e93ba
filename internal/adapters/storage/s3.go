package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"partnershipintake/internal/domain"
)

// Config selects and configures the object store.
type Config struct {
	Provider        string
	Bucket          string
	Region          string
	Endpoint        string
	PublicURL       string
	AccessKeyID     string
	SecretAccessKey string
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// NewObjectStore creates an object store from config. Provider "s3" uses an S3-compatible
// bucket; "noop" or unknown keeps nothing and returns synthetic URLs.
func NewObjectStore(cfg Config, logger *slog.Logger) (domain.ObjectStore, error) {
	switch cfg.Provider {
	case "s3":
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("s3 object store requires a bucket")
		}
		awsCfg := aws.Config{
			Region: cfg.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			),
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
				o.UsePathStyle = true
			}
		})
		return &s3Store{
			client:    client,
			presigner: s3.NewPresignClient(client),
			bucket:    cfg.Bucket,
			publicURL: publicBase(cfg),
			logger:    logger,
		}, nil
	case "noop", "":
		return &noopStore{baseURL: strings.TrimRight(cfg.PublicURL, "/"), logger: logger}, nil
	default:
		logger.Warn("unknown storage provider, using noop", "provider", cfg.Provider)
		return &noopStore{baseURL: strings.TrimRight(cfg.PublicURL, "/"), logger: logger}, nil
	}
}

func publicBase(cfg Config) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

type s3Store struct {
	client    s3API
	presigner presignAPI
	bucket    string
	publicURL string
	logger    *slog.Logger
}

func (s *s3Store) Put(ctx context.Context, key, contentType string, body []byte, metadata map[string]string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		Metadata:      metadata,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	s.logger.Info("object stored", "bucket", s.bucket, "key", key, "size", len(body))
	return objectURL(s.publicURL, key), nil
}

func (s *s3Store) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

func (s *s3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func objectURL(base, key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return base + "/" + strings.Join(parts, "/")
}

type noopStore struct {
	baseURL string
	logger  *slog.Logger
}

func (n *noopStore) Put(_ context.Context, key, contentType string, body []byte, _ map[string]string) (string, error) {
	n.logger.Info("object would be stored (noop)", "key", key, "content_type", contentType, "size", len(body))
	base := n.baseURL
	if base == "" {
		base = "noop://uploads"
	}
	return objectURL(base, key), nil
}

func (n *noopStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	base := n.baseURL
	if base == "" {
		base = "noop://uploads"
	}
	return objectURL(base, key), nil
}

func (n *noopStore) Delete(_ context.Context, key string) error {
	n.logger.Info("object would be deleted (noop)", "key", key)
	return nil
}
