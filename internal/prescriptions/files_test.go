package prescriptions

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockS3Client struct {
	bucket      string
	key         string
	contentType string
	length      int64
	seekable    bool
	body        []byte
	err         error
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.bucket = aws.ToString(input.Bucket)
	m.key = aws.ToString(input.Key)
	m.contentType = aws.ToString(input.ContentType)
	m.length = aws.ToInt64(input.ContentLength)
	_, m.seekable = input.Body.(io.Seeker)
	m.body, _ = io.ReadAll(input.Body)
	return &s3.PutObjectOutput{}, nil
}

type mockPresigner struct {
	key     string
	expires time.Duration
}

func (m *mockPresigner) PresignGetObject(_ context.Context, input *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	opts := s3.PresignOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	m.key = aws.ToString(input.Key)
	m.expires = opts.Expires
	return &v4.PresignedHTTPRequest{URL: "https://bucket.s3.local/" + m.key + "?sig=abc"}, nil
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "prescriptions/p-1/rx-1/scan.pdf", ObjectKey("p-1", "rx-1", "scan.pdf"))
	assert.Equal(t, "prescriptions/p-1/rx-1/scan.pdf", ObjectKey("p-1", "rx-1", "../../etc/scan.pdf"))
	assert.Equal(t, "prescriptions/p-1/rx-1/scan.pdf", ObjectKey("p-1", "rx-1", `C:\docs\scan.pdf`))
	assert.Equal(t, "prescriptions/p-1/rx-1/prescription", ObjectKey("p-1", "rx-1", ""))
}

func TestFileStoreUploadAndPresign(t *testing.T) {
	client := &mockS3Client{}
	presigner := &mockPresigner{}
	store := NewFileStore(client, presigner, "rx-bucket", 5*time.Minute, nil)
	ctx := context.Background()

	key, err := store.Upload(ctx, "p-1", "rx-1", "scan.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "rx-bucket", client.bucket)
	assert.Equal(t, int64(4), client.length)
	assert.True(t, client.seekable, "S3 needs a seekable body of known length")
	assert.Equal(t, key, client.key)
	assert.Equal(t, "application/pdf", client.contentType)
	assert.Equal(t, "%PDF", string(client.body))

	url, err := store.DownloadURL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.local/"+key+"?sig=abc", url)
	assert.Equal(t, 5*time.Minute, presigner.expires)
}

func TestFileStoreDownloadURLPassThroughAndErrors(t *testing.T) {
	ctx := context.Background()
	var disabled *FileStore

	url, err := disabled.DownloadURL(ctx, "https://files.example.com/rx.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/rx.pdf", url)

	_, err = disabled.DownloadURL(ctx, "")
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = disabled.DownloadURL(ctx, "prescriptions/p-1/rx-1/scan.pdf")
	assert.ErrorIs(t, err, ErrFilesDisabled)

	_, err = disabled.Upload(ctx, "p-1", "rx-1", "scan.pdf", "", []byte("x"))
	assert.ErrorIs(t, err, ErrFilesDisabled)
}

func TestFileStoreUploadError(t *testing.T) {
	store := NewFileStore(&mockS3Client{err: errors.New("denied")}, &mockPresigner{}, "rx-bucket", 0, nil)
	_, err := store.Upload(context.Background(), "p-1", "rx-1", "scan.pdf", "", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}

func TestFileStoreUploadRejectsEmptyFile(t *testing.T) {
	client := &mockS3Client{}
	store := NewFileStore(client, &mockPresigner{}, "rx-bucket", 0, nil)

	_, err := store.Upload(context.Background(), "p-1", "rx-1", "scan.pdf", "", nil)
	assert.ErrorIs(t, err, ErrEmptyFile)
	assert.Empty(t, client.key)
}
