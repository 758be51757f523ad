package firebase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Object folders inside the bucket.
const (
	FolderProviderImages  = "images/service_providers"
	FolderProducts        = "images/service_providers_products"
	FolderProfilePictures = "profile_pictures"
)

const publicURLPrefix = "https://storage.googleapis.com/"

// StorageClient is the file store used for provider images, product images
// and profile pictures. Handlers depend on it so tests can swap in a fake.
type StorageClient interface {
	Upload(ctx context.Context, folder string, file io.Reader, filename, contentType string) (string, error)
	ImportFromURL(ctx context.Context, folder, imageURL string) (string, error)
	DeleteFile(ctx context.Context, objectPath string) error
}

// Storage stores objects in a Firebase (Google Cloud Storage) bucket.
type Storage struct {
	bucket     *gcs.BucketHandle
	bucketName string
	httpClient *http.Client
}

// credentialOption accepts either inline JSON or a file path, as
// GOOGLE_APPLICATION_CREDENTIALS may hold either.
func credentialOption(credentials string) []option.ClientOption {
	if credentials == "" {
		zap.L().Warn("GOOGLE_APPLICATION_CREDENTIALS not set, using default credentials")
		return nil
	}
	if strings.HasPrefix(strings.TrimSpace(credentials), "{") {
		zap.L().Info("using Firebase credentials from environment variable")
		return []option.ClientOption{option.WithCredentialsJSON([]byte(credentials))}
	}
	zap.L().Info("using Firebase credentials from file", zap.String("path", credentials))
	return []option.ClientOption{option.WithCredentialsFile(credentials)}
}

// New connects to the bucket.
func New(ctx context.Context, bucketName, credentials string) (*Storage, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("FIREBASE_STORAGE_BUCKET not set")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, credentialOption(credentials)...)
	if err != nil {
		return nil, fmt.Errorf("firebase init failed: %w", err)
	}
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase storage: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("firebase bucket %s: %w", bucketName, err)
	}

	zap.L().Info("firebase storage initialized", zap.String("bucket", bucketName))
	return &Storage{
		bucket:     bucket,
		bucketName: bucketName,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func objectPath(folder, filename string) string {
	return fmt.Sprintf("%s/%d_%s_%s", folder, time.Now().Unix(), uuid.NewString()[:8], storedName(filename))
}

func (s *Storage) publicURL(path string) string {
	return publicURLPrefix + s.bucketName + "/" + path
}

func (s *Storage) write(ctx context.Context, path string, r io.Reader, contentType string) error {
	obj := s.bucket.Object(path)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := io.Copy(wc, r); err != nil {
		wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to finalize upload: %w", err)
	}

	// Public read so the URL works without authentication.
	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		zap.L().Warn("failed to set public ACL", zap.String("object", path), zap.Error(err))
	}
	return nil
}

// Upload stores file under folder and returns its public URL.
func (s *Storage) Upload(ctx context.Context, folder string, file io.Reader, filename, contentType string) (string, error) {
	path := objectPath(folder, filename)
	if err := s.write(ctx, path, file, contentType); err != nil {
		return "", err
	}
	return s.publicURL(path), nil
}

// ImportFromURL downloads an external image and stores it under folder.
func (s *Storage) ImportFromURL(ctx context.Context, folder, imageURL string) (string, error) {
	if err := checkImportURL(ctx, defaultResolver, imageURL); err != nil {
		return "", fmt.Errorf("URL validation failed for %s: %w", imageURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image from %s: %w", imageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}
	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("URL %s returned non-image content-type %q", imageURL, contentType)
	}

	path := objectPath(folder, "import.jpg")
	if err := s.write(ctx, path, resp.Body, contentType); err != nil {
		return "", err
	}
	return s.publicURL(path), nil
}

// DeleteFile removes an object by its path inside the bucket.
func (s *Storage) DeleteFile(ctx context.Context, objectPath string) error {
	if err := s.bucket.Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", objectPath, err)
	}
	zap.L().Info("deleted file", zap.String("object", objectPath), zap.String("bucket", s.bucketName))
	return nil
}
