package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"givehub-server/internal/observability"
	"givehub-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMediaNotFound   = errors.New("media not found")
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrNotMediaOwner   = errors.New("not the media owner")
	ErrUploadFailed    = errors.New("upload failed")
)

// Per-type size ceilings in bytes.
const (
	maxImageSize    = 10 << 20
	maxVideoSize    = 100 << 20
	maxDocumentSize = 20 << 20
	maxAudioSize    = 50 << 20
)

const signedURLExpiry = 15 * time.Minute

// allowedMimeTypes maps accepted mime types to their media category.
var allowedMimeTypes = map[string]store.MediaType{
	"image/jpeg":      store.MediaTypeImage,
	"image/png":       store.MediaTypeImage,
	"image/gif":       store.MediaTypeImage,
	"image/webp":      store.MediaTypeImage,
	"video/mp4":       store.MediaTypeVideo,
	"video/webm":      store.MediaTypeVideo,
	"video/quicktime": store.MediaTypeVideo,
	"application/pdf": store.MediaTypeDocument,
	"application/msword": store.MediaTypeDocument,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": store.MediaTypeDocument,
	"application/vnd.ms-excel": store.MediaTypeDocument,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": store.MediaTypeDocument,
	"audio/mpeg": store.MediaTypeAudio,
	"audio/wav":  store.MediaTypeAudio,
	"audio/ogg":  store.MediaTypeAudio,
}

// Actor identifies who is performing an operation.
type Actor struct {
	ID   primitive.ObjectID
	Role store.UserRole
}

func (a Actor) isAdmin() bool {
	return a.Role == store.UserRoleAdmin
}

// UploadParams describes an incoming file.
type UploadParams struct {
	File         io.Reader
	OriginalName string
	Mimetype     string
	Size         int64
	IsPublic     bool
	Description  string
	Tags         []string
}

type MediaProcessor struct {
	store  MediaStore
	blob   BlobStorage
	logger *observability.Logger
}

func New(store MediaStore, blob BlobStorage, logger *observability.Logger) MediaProcessor {
	return MediaProcessor{store: store, blob: blob, logger: logger}
}

func maxSizeFor(mediaType store.MediaType) int64 {
	switch mediaType {
	case store.MediaTypeVideo:
		return maxVideoSize
	case store.MediaTypeDocument:
		return maxDocumentSize
	case store.MediaTypeAudio:
		return maxAudioSize
	default:
		return maxImageSize
	}
}

// sanitizeFilename keeps letters, digits, dots, dashes and underscores, so
// the blob path stays predictable whatever the client sent.
func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	if base == "." || base == "/" {
		return "file"
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

// Upload validates the file, stores it in the configured blob backend and
// tracks it as a media record.
func (p *MediaProcessor) Upload(ctx context.Context, actor Actor, params UploadParams) (store.Media, error) {
	mediaType, ok := allowedMimeTypes[strings.ToLower(params.Mimetype)]
	if !ok {
		return store.Media{}, ErrInvalidFileType
	}
	if params.Size > maxSizeFor(mediaType) {
		return store.Media{}, ErrFileTooLarge
	}

	now := time.Now().UTC()
	fileID := primitive.NewObjectID()
	cloudPath := fmt.Sprintf("media/%s/%ss/%04d/%02d/%02d/%s_%s",
		p.blob.Provider(), mediaType, now.Year(), now.Month(), now.Day(),
		fileID.Hex(), sanitizeFilename(params.OriginalName))

	media, err := p.store.CreateMedia(ctx, store.Media{
		UserID:       actor.ID,
		OriginalName: params.OriginalName,
		Filename:     sanitizeFilename(params.OriginalName),
		Mimetype:     params.Mimetype,
		Size:         params.Size,
		Type:         mediaType,
		Provider:     p.blob.Provider(),
		CloudPath:    cloudPath,
		Status:       store.MediaStatusUploading,
		IsPublic:     params.IsPublic,
		Description:  params.Description,
		Tags:         params.Tags,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create media record", err)
		return store.Media{}, err
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "mediaId", Value: media.ID.Hex()})
	url, err := p.blob.Upload(ctx, params.File, cloudPath, params.Mimetype)
	if err != nil {
		p.logger.Error(ctx, "blob upload failed", err)
		if statusErr := p.store.SetMediaStatus(ctx, media.ID, store.MediaStatusFailed); statusErr != nil {
			p.logger.Error(ctx, "failed to mark media failed", statusErr)
		}
		return store.Media{}, ErrUploadFailed
	}
	if err := p.store.SetMediaUploaded(ctx, media.ID, url); err != nil {
		p.logger.Error(ctx, "failed to mark media uploaded", err)
		return store.Media{}, err
	}

	media.URL = url
	media.Status = store.MediaStatusReady
	return media, nil
}

// Get returns a media record.
func (p *MediaProcessor) Get(ctx context.Context, id primitive.ObjectID) (store.Media, error) {
	media, err := p.store.GetMediaByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Media{}, ErrMediaNotFound
		}
		p.logger.Error(ctx, "failed to get media", err)
		return store.Media{}, err
	}
	return media, nil
}

// List returns media records, newest first.
func (p *MediaProcessor) List(ctx context.Context, params store.ListMediaParams) ([]store.Media, int64, error) {
	media, total, err := p.store.ListMedia(ctx, params)
	if err != nil {
		p.logger.Error(ctx, "failed to list media", err)
		return nil, 0, err
	}
	return media, total, nil
}

// Update edits media metadata. Only the uploader may edit.
func (p *MediaProcessor) Update(ctx context.Context, actor Actor, id primitive.ObjectID, params store.UpdateMediaParams) (store.Media, error) {
	media, err := p.Get(ctx, id)
	if err != nil {
		return store.Media{}, err
	}
	if media.UserID != actor.ID && !actor.isAdmin() {
		return store.Media{}, ErrNotMediaOwner
	}
	updated, err := p.store.UpdateMedia(ctx, id, params)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Media{}, ErrMediaNotFound
		}
		p.logger.Error(ctx, "failed to update media", err)
		return store.Media{}, err
	}
	return updated, nil
}

// Delete removes the blob and marks the record deleted. The record itself is
// kept as a tombstone.
func (p *MediaProcessor) Delete(ctx context.Context, actor Actor, id primitive.ObjectID) error {
	media, err := p.Get(ctx, id)
	if err != nil {
		return err
	}
	if media.UserID != actor.ID && !actor.isAdmin() {
		return ErrNotMediaOwner
	}

	if err := p.blob.Delete(ctx, media.CloudPath); err != nil {
		// Tombstone the record even when the blob delete fails.
		p.logger.Error(ctx, "blob delete failed", err)
	}
	if err := p.store.SetMediaStatus(ctx, id, store.MediaStatusDeleted); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMediaNotFound
		}
		p.logger.Error(ctx, "failed to mark media deleted", err)
		return err
	}
	return nil
}

// SignedURL returns a time-limited download URL for a private file. Public
// files are served by their stored URL directly.
func (p *MediaProcessor) SignedURL(ctx context.Context, actor Actor, id primitive.ObjectID) (string, error) {
	media, err := p.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !media.IsPublic && media.UserID != actor.ID && !actor.isAdmin() {
		return "", ErrNotMediaOwner
	}
	if media.IsPublic {
		return media.URL, nil
	}

	url, err := p.blob.SignedURL(ctx, media.CloudPath, signedURLExpiry)
	if err != nil {
		p.logger.Error(ctx, "failed to sign media url", err)
		return "", err
	}
	return url, nil
}
