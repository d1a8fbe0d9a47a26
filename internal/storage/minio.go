package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sahilm98/askora/internal/config"
	"github.com/sahilm98/askora/internal/logging"
)

// AvatarStore keeps user avatars in a MinIO bucket.
type AvatarStore struct {
	client   *minio.Client
	endpoint string
	bucket   string
	secure   bool
}

// NewAvatarStore connects to MinIO and makes sure the avatar bucket exists.
// The process exits if the client cannot be built; a missing bucket is only
// logged because avatar uploads are not critical to serving requests.
func NewAvatarStore(cfg config.Config) *AvatarStore {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		logging.Default().Fatal().Err(err).Msg("failed to connect to MinIO")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		logging.Default().Warn().Err(err).Msg("failed to check bucket existence")
	} else if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			logging.Default().Warn().Err(err).Msg("failed to create bucket")
		} else {
			logging.Default().Info().Str("bucket", cfg.MinioBucket).Msg("created bucket")
		}
	}

	logging.Default().Info().Str("endpoint", cfg.MinioEndpoint).Msg("connected to MinIO")
	return &AvatarStore{
		client:   client,
		endpoint: cfg.MinioEndpoint,
		bucket:   cfg.MinioBucket,
		secure:   cfg.MinioUseSSL,
	}
}

// Upload stores an avatar and returns its object name and public URL.
func (s *AvatarStore) Upload(ctx context.Context, userID, filename string, r io.Reader, size int64, contentType string) (string, string, error) {
	objectName := AvatarObjectName(userID, filename)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	return objectName, s.ObjectURL(objectName), nil
}

// Remove deletes an avatar object. Removing a missing object is not an error.
func (s *AvatarStore) Remove(ctx context.Context, objectName string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}

// Bucket returns the avatar bucket name.
func (s *AvatarStore) Bucket() string {
	return s.bucket
}

// ObjectURL builds the public URL for an object in the avatar bucket.
func (s *AvatarStore) ObjectURL(objectName string) string {
	scheme := "http"
	if s.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, objectName)
}

// AvatarObjectName builds a unique object key for a user's avatar, keeping
// the original file extension.
func AvatarObjectName(userID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%s%s", userID, uuid.NewString(), ext)
}

// ObjectNameFromURL extracts the object key from an avatar URL produced by
// ObjectURL. Returns "" when the URL does not point into the bucket.
func ObjectNameFromURL(avatarURL, bucket string) string {
	marker := "/" + bucket + "/"
	idx := strings.Index(avatarURL, marker)
	if idx < 0 {
		return ""
	}
	return avatarURL[idx+len(marker):]
}
