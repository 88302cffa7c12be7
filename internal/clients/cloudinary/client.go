package cloudinary

import (
	"context"
	"fmt"
	"io"
	"time"

	"givehub-server/internal/observability"
	"givehub-server/internal/store"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Client stores blobs in Cloudinary. The cloud path doubles as the
// Cloudinary public ID.
type Client struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger *observability.Logger
}

func NewClient(cloudName, apiKey, apiSecret, folder string, logger *observability.Logger) (*Client, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &Client{cld: cld, folder: folder, logger: logger}, nil
}

// Provider identifies this backend in media records.
func (c *Client) Provider() store.MediaProvider {
	return store.MediaProviderCloudinary
}

// Upload stores the file under the given path and returns its delivery URL.
func (c *Client) Upload(ctx context.Context, file io.Reader, path, contentType string) (string, error) {
	uploadCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := c.cld.Upload.Upload(uploadCtx, file, uploader.UploadParams{
		PublicID:     path,
		Folder:       c.folder,
		ResourceType: "auto",
	})
	if err != nil {
		c.logger.Error(ctx, "cloudinary upload failed", err)
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	return resp.SecureURL, nil
}

// Delete removes the stored blob.
func (c *Client) Delete(ctx context.Context, path string) error {
	deleteCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := c.cld.Upload.Destroy(deleteCtx, uploader.DestroyParams{
		PublicID: c.folder + "/" + path,
	})
	if err != nil {
		c.logger.Error(ctx, "cloudinary destroy failed", err)
		return fmt.Errorf("cloudinary destroy failed: %w", err)
	}
	return nil
}

// SignedURL returns a delivery URL for the blob. Cloudinary delivery URLs
// are stable, so expiry only bounds the caller's cache, not access.
func (c *Client) SignedURL(ctx context.Context, path string, _ time.Duration) (string, error) {
	asset, err := c.cld.Image(c.folder + "/" + path)
	if err != nil {
		return "", fmt.Errorf("failed to build cloudinary asset: %w", err)
	}
	url, err := asset.String()
	if err != nil {
		return "", fmt.Errorf("failed to build cloudinary url: %w", err)
	}
	return url, nil
}
