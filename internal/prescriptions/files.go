package prescriptions

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

const defaultPresignTTL = 15 * time.Minute

// S3API is the subset of the S3 client used for uploads.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// PresignAPI is the subset of the S3 presign client used for downloads.
type PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// FileStore keeps prescription documents in S3 and hands out short-lived
// download links. With no bucket configured every operation returns ErrFilesDisabled.
type FileStore struct {
	bucket    string
	client    S3API
	presigner PresignAPI
	ttl       time.Duration
	logger    *logging.Logger
}

// NewFileStore creates a file store for bucket.
func NewFileStore(client S3API, presigner PresignAPI, bucket string, ttl time.Duration, logger *logging.Logger) *FileStore {
	if ttl <= 0 {
		ttl = defaultPresignTTL
	}
	return &FileStore{
		bucket:    bucket,
		client:    client,
		presigner: presigner,
		ttl:       ttl,
		logger:    logger.Named("prescriptions.files"),
	}
}

// Enabled returns true if a bucket and clients are configured.
func (s *FileStore) Enabled() bool {
	return s != nil && s.bucket != "" && s.client != nil && s.presigner != nil
}

// ObjectKey is where a patient's prescription document lives.
func ObjectKey(patientID, prescriptionID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "prescription"
	}
	return fmt.Sprintf("prescriptions/%s/%s/%s", patientID, prescriptionID, name)
}

// Upload stores data under the prescription's key and returns the key.
func (s *FileStore) Upload(ctx context.Context, patientID, prescriptionID, filename, contentType string, data []byte) (string, error) {
	if !s.Enabled() {
		return "", ErrFilesDisabled
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	key := ObjectKey(patientID, prescriptionID, filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("prescriptions: s3 put %s: %w", key, err)
	}
	s.logger.Info("stored prescription file", "prescription_id", prescriptionID, "s3_key", key, "bytes", len(data))
	return key, nil
}

// DownloadURL resolves a stored file reference to a URL the browser can follow.
// Absolute http(s) references are returned unchanged; object keys are presigned.
func (s *FileStore) DownloadURL(ctx context.Context, fileURL string) (string, error) {
	if fileURL == "" {
		return "", ErrNoFile
	}
	if strings.HasPrefix(fileURL, "https://") || strings.HasPrefix(fileURL, "http://") {
		return fileURL, nil
	}
	if !s.Enabled() {
		return "", ErrFilesDisabled
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileURL),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("prescriptions: presign %s: %w", fileURL, err)
	}
	return req.URL, nil
}

var (
	_ S3API      = (*s3.Client)(nil)
	_ PresignAPI = (*s3.PresignClient)(nil)
)
