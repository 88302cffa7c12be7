package gcs

import (
	"context"
	"fmt"
	"io"
	"time"

	"givehub-server/internal/observability"
	"givehub-server/internal/store"

	gstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Client stores blobs in a Google Cloud Storage bucket.
type Client struct {
	storageClient *gstorage.Client
	projectID     string
	bucket        string
	logger        *observability.Logger
}

func NewClient(ctx context.Context, projectID, bucket, credentialsFile string, logger *observability.Logger) (*Client, error) {
	storageClient, err := gstorage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}
	return &Client{
		storageClient: storageClient,
		projectID:     projectID,
		bucket:        bucket,
		logger:        logger,
	}, nil
}

// Provider identifies this backend in media records.
func (c *Client) Provider() store.MediaProvider {
	return store.MediaProviderGoogleCloud
}

// Upload streams the file into the bucket and returns its public URL.
func (c *Client) Upload(ctx context.Context, file io.Reader, path, contentType string) (string, error) {
	obj := c.storageClient.Bucket(c.bucket).Object(path)
	writer := obj.NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, file); err != nil {
		c.logger.Error(ctx, "gcs upload failed", err)
		return "", fmt.Errorf("failed to copy file to gcs object %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		c.logger.Error(ctx, "gcs writer close failed", err)
		return "", fmt.Errorf("failed to close gcs writer for %s: %w", path, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucket, path), nil
}

// Delete removes the object from the bucket.
func (c *Client) Delete(ctx context.Context, path string) error {
	if err := c.storageClient.Bucket(c.bucket).Object(path).Delete(ctx); err != nil {
		c.logger.Error(ctx, "gcs delete failed", err)
		return fmt.Errorf("failed to delete gcs object %s: %w", path, err)
	}
	return nil
}

// SignedURL returns a time-limited download URL for the object.
func (c *Client) SignedURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	url, err := c.storageClient.Bucket(c.bucket).SignedURL(path, &gstorage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(expiry),
	})
	if err != nil {
		c.logger.Error(ctx, "gcs signed url failed", err)
		return "", fmt.Errorf("failed to sign gcs url for %s: %w", path, err)
	}
	return url, nil
}
