// Package storage keeps recipe images on local disk or in S3-compatible storage.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxImageSize = 5 * 1024 * 1024 // 5 MB

var (
	ErrInvalidImage     = errors.New("image must be a base64 data URL")
	ErrImageTooLarge    = errors.New("image exceeds maximum allowed size")
	ErrInvalidImageType = errors.New("image type is not allowed")
	ErrEmptyImage       = errors.New("image is empty")
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore saves image bytes and returns a public URL for them.
type ImageStore interface {
	Save(ctx context.Context, img *Image) (string, error)
	Delete(ctx context.Context, url string) error
}

// Image is a decoded upload.
type Image struct {
	Data     []byte
	MimeType string
}

// Ext is the file extension matching the sniffed content type.
func (img *Image) Ext() string {
	return allowedImageTypes[img.MimeType]
}

// DecodeDataURL parses "data:image/png;base64,...." into an Image. The
// declared type is ignored; the content type is sniffed from the bytes.
func DecodeDataURL(s string) (*Image, error) {
	s = strings.TrimSpace(s)
	header, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidImage
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize+3 {
		return nil, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	mimeType := strings.Split(http.DetectContentType(data), ";")[0]
	if _, ok := allowedImageTypes[mimeType]; !ok {
		return nil, ErrInvalidImageType
	}
	return &Image{Data: data, MimeType: mimeType}, nil
}

// objectKey builds recipes/YYYY/MM/DD/<uuid><ext>.
func objectKey(img *Image) string {
	now := time.Now().UTC()
	return fmt.Sprintf("recipes/%d/%02d/%02d/%s%s", now.Year(), now.Month(), now.Day(), uuid.NewString(), img.Ext())
}

func reader(img *Image) *bytes.Reader {
	return bytes.NewReader(img.Data)
}
