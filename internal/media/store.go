package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/glidebook/glidebook/pkg/logging"
)

// ErrNotFound indicates the object does not exist in the bucket.
var ErrNotFound = errors.New("media: not found")

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store keeps uploaded images for locations and extras in S3. If bucket is
// empty, all operations are no-ops and uploads report as disabled.
type Store struct {
	bucket   string
	s3Client S3API
	logger   *logging.Logger
}

// NewStore creates a media Store.
func NewStore(s3Client S3API, bucket string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{bucket: bucket, s3Client: s3Client, logger: logger}
}

// Enabled reports whether media storage is configured.
func (s *Store) Enabled() bool {
	return s != nil && s.bucket != "" && s.s3Client != nil
}

// Object is one stored image.
type Object struct {
	ID          string
	Key         string
	ContentType string
	Body        io.ReadCloser
}

func objectKey(businessID, kind, id string) string {
	return fmt.Sprintf("media/%s/%s/%s", businessID, kind, id)
}

var allowedKinds = map[string]bool{
	"locations": true,
	"extras":    true,
}

func validateKind(kind string) error {
	if !allowedKinds[kind] {
		return fmt.Errorf("media: unknown kind %q", kind)
	}
	return nil
}

// Put stores an image and returns its generated id.
func (s *Store) Put(ctx context.Context, businessID, kind, contentType string, body io.Reader) (string, error) {
	if !s.Enabled() {
		return "", errors.New("media: storage not configured")
	}
	if businessID == "" {
		return "", errors.New("media: business id required")
	}
	if err := validateKind(kind); err != nil {
		return "", err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("media: unsupported content type %q", contentType)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("media: read upload: %w", err)
	}

	id := uuid.NewString()
	key := objectKey(businessID, kind, id)
	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("media: s3 put %s: %w", key, err)
	}

	s.logger.Info("stored media object", "business_id", businessID, "kind", kind, "key", key, "bytes", len(data))
	return id, nil
}

// Get retrieves one stored image.
func (s *Store) Get(ctx context.Context, businessID, kind, id string) (*Object, error) {
	if !s.Enabled() {
		return nil, errors.New("media: storage not configured")
	}
	if err := validateKind(kind); err != nil {
		return nil, err
	}

	key := objectKey(businessID, kind, id)
	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("media: s3 get %s: %w", key, err)
	}

	contentType := "application/octet-stream"
	if resp.ContentType != nil {
		contentType = *resp.ContentType
	}
	return &Object{ID: id, Key: key, ContentType: contentType, Body: resp.Body}, nil
}

// Delete removes one stored image. Deleting an absent object is not an error.
func (s *Store) Delete(ctx context.Context, businessID, kind, id string) error {
	if !s.Enabled() {
		return errors.New("media: storage not configured")
	}
	if err := validateKind(kind); err != nil {
		return err
	}

	key := objectKey(businessID, kind, id)
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("media: s3 delete %s: %w", key, err)
	}
	return nil
}
