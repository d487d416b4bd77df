package firebase

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

const NoticeImagePrefix = "notices"

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// sanitizeFilename removes special characters from filenames and limits length.
func sanitizeFilename(filename string) string {
	sanitized := unsafeFilenameChars.ReplaceAllString(filename, "_")

	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}

	if sanitized == "" || sanitized == "." || sanitized == ".." {
		sanitized = "file"
	}

	return sanitized
}

// PublicURL is where a public-read object in bucket can be fetched without credentials.
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}

// noticeObjectPath keeps concurrent uploads of the same filename from overwriting each other.
func noticeObjectPath(filename string, now time.Time) string {
	return fmt.Sprintf("%s/%d_%s_%s", NoticeImagePrefix, now.Unix(), uuid.New().String()[:8], sanitizeFilename(filename))
}

// StorageClient is the blob store behind notice images.
type StorageClient interface {
	UploadNoticeImage(ctx context.Context, file io.Reader, filename, contentType string) (string, error)
	DeleteFile(ctx context.Context, objectPath string) error
}

type FirebaseStorageClient struct {
	App    *firebase.App
	Bucket string
}

// Init creates the Firebase app. credentials is either inline service-account JSON or a
// file path; when empty, application default credentials are used.
func Init(ctx context.Context, credentials, bucket string) (*FirebaseStorageClient, error) {
	var opts []option.ClientOption

	switch {
	case strings.HasPrefix(credentials, "{"):
		log.Info().Msg("using Firebase credentials from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(credentials)))
	case credentials != "":
		log.Info().Str("path", credentials).Msg("using Firebase credentials from file")
		opts = append(opts, option.WithCredentialsFile(credentials))
	default:
		log.Warn().Msg("GOOGLE_APPLICATION_CREDENTIALS not set, using default credentials")
	}

	var cfg *firebase.Config
	if bucket != "" {
		cfg = &firebase.Config{StorageBucket: bucket}
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase init: %w", err)
	}

	log.Info().Str("bucket", bucket).Msg("Firebase initialized")
	return &FirebaseStorageClient{App: app, Bucket: bucket}, nil
}

func (f *FirebaseStorageClient) bucket(ctx context.Context) (*storage.BucketHandle, error) {
	if f == nil || f.App == nil {
		return nil, fmt.Errorf("firebase app not initialized")
	}
	if f.Bucket == "" {
		return nil, fmt.Errorf("FIREBASE_STORAGE_BUCKET not set")
	}

	client, err := f.App.Storage(ctx)
	if err != nil {
		return nil, err
	}
	return client.Bucket(f.Bucket)
}

func (f *FirebaseStorageClient) UploadNoticeImage(ctx context.Context, file io.Reader, filename, contentType string) (string, error) {
	bucket, err := f.bucket(ctx)
	if err != nil {
		return "", err
	}

	objectPath := noticeObjectPath(filename, time.Now())
	obj := bucket.Object(objectPath)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := io.Copy(wc, file); err != nil {
		wc.Close()
		return "", err
	}

	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload: %w", err)
	}

	// Make object publicly readable so the URL works without authentication
	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		log.Warn().Err(err).Str("object", objectPath).Msg("failed to set public ACL")
	}

	return PublicURL(f.Bucket, objectPath), nil
}

func (f *FirebaseStorageClient) DeleteFile(ctx context.Context, objectPath string) error {
	bucket, err := f.bucket(ctx)
	if err != nil {
		return err
	}

	if err := bucket.Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", objectPath, err)
	}

	log.Info().Str("object", objectPath).Str("bucket", f.Bucket).Msg("deleted file")
	return nil
}
