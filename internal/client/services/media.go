package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/dmitrijs2005/marketdesk/internal/client/client"
	"github.com/dmitrijs2005/marketdesk/internal/client/models"
	"github.com/dmitrijs2005/marketdesk/internal/client/storage"
	"github.com/dmitrijs2005/marketdesk/internal/logging"
)

// MaxUploadBytes is the largest file accepted for upload (5 MiB).
const MaxUploadBytes = 5 << 20

// allowedUploads maps accepted extensions to their MIME type.
var allowedUploads = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Default metadata for profile pictures.
const (
	DefaultDocumentTypeID = 1
	DefaultMediaCategory  = models.MediaTypeProfilePicture
)

// MediaUpload is one file picked for upload. ProductID attaches the media to
// a product instead of the profile.
type MediaUpload struct {
	FileName       string
	Content        []byte
	DocumentTypeID int64
	Category       string
	ProductID      string
}

// MediaService uploads files for the mounted session.
type MediaService struct {
	api   API
	store *storage.Adapter
	log   logging.Logger

	session  *models.AuthenticationResponse
	inFlight atomic.Bool
}

func NewMediaService(api API, store *storage.Adapter, log logging.Logger, session *models.AuthenticationResponse) *MediaService {
	if log == nil {
		log = logging.Nop{}
	}
	return &MediaService{api: api, store: store, log: log, session: session}
}

func uploadType(name string) (string, error) {
	want, ok := allowedUploads[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return "", &ValidationError{Field: "file", Reason: "only JPEG, PNG, GIF and WEBP images are accepted"}
	}
	return want, nil
}

// ValidateUpload checks extension, size and sniffed content type and returns
// the MIME type to send.
func ValidateUpload(name string, size int64, head []byte) (string, error) {
	want, err := uploadType(name)
	if err != nil {
		return "", err
	}

	if size > MaxUploadBytes {
		return "", &ValidationError{Field: "file", Reason: fmt.Sprintf("is %s, the limit is 5 MiB", humanize.IBytes(uint64(size)))}
	}
	if size == 0 {
		return "", &ValidationError{Field: "file", Reason: "is empty"}
	}

	detected := mimetype.Detect(head)
	if !detected.Is(want) {
		return "", &ValidationError{Field: "file", Reason: fmt.Sprintf("content is %s, not %s", detected.String(), want)}
	}
	return want, nil
}

// Upload validates the file and posts it. A profile picture (no ProductID,
// category PROFILE_PICTURE or empty) is merged into the cached session on
// success; other documents leave the session untouched. A rejected token drops the
// cached session and yields ErrLoginRequired.
func (m *MediaService) Upload(ctx context.Context, up MediaUpload) (*models.Media, error) {
	contentType, err := ValidateUpload(up.FileName, int64(len(up.Content)), up.Content)
	if err != nil {
		return nil, err
	}

	if !m.inFlight.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer m.inFlight.Store(false)

	if up.DocumentTypeID == 0 {
		up.DocumentTypeID = DefaultDocumentTypeID
	}
	if up.Category == "" {
		up.Category = DefaultMediaCategory
	}
	fileName := filepath.Base(up.FileName)

	media, err := m.api.UploadMedia(ctx, m.session.AccessToken, client.MediaUploadRequest{
		UserID:      m.session.User.ID,
		ProductID:   up.ProductID,
		FileName:    fileName,
		ContentType: contentType,
		Content:     bytes.NewReader(up.Content),
		Metadata: []client.MediaMetadata{{
			DocumentTypeID: up.DocumentTypeID,
			Category:       up.Category,
			FileName:       fileName,
		}},
	})
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			invalidateSession(ctx, m.store, m.log)
			return nil, fmt.Errorf("%w: %w", ErrLoginRequired, err)
		}
		m.log.Warn(ctx, "media upload failed", "file", fileName, "error", err)
		return nil, fmt.Errorf("upload %s: %w", fileName, err)
	}

	if up.ProductID != "" {
		m.log.Info(ctx, "product media uploaded", "product_id", up.ProductID, "media_id", media.ID)
		return media, nil
	}
	if !strings.EqualFold(up.Category, models.MediaTypeProfilePicture) {
		m.log.Info(ctx, "document uploaded", "category", up.Category, "media_id", media.ID)
		return media, nil
	}

	updated := *m.session
	updated.User.BioData.Media = slices.Clone(m.session.User.BioData.Media)
	updated.AddMedia(*media, models.MediaTypeProfilePicture)
	if err := m.store.Save(ctx, storage.KeyAuthResponse, updated); err != nil {
		return nil, fmt.Errorf("persist profile picture: %w", err)
	}
	*m.session = updated
	m.log.Info(ctx, "profile picture uploaded", "media_id", media.ID)
	return media, nil
}

// UploadFile reads path from disk, refusing oversized files before reading.
func (m *MediaService) UploadFile(ctx context.Context, path string, up MediaUpload) (*models.Media, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, &ValidationError{Field: "file", Reason: path + " is a directory"}
	}
	if _, err := uploadType(path); err != nil {
		return nil, err
	}
	if fi.Size() > MaxUploadBytes {
		return nil, &ValidationError{Field: "file", Reason: fmt.Sprintf("is %s, the limit is 5 MiB", humanize.IBytes(uint64(fi.Size())))}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	up.FileName = filepath.Base(path)
	up.Content = content
	return m.Upload(ctx, up)
}
