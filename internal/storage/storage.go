// Package storage saves recipe images.
package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/errs"
)

// MaxImageSize bounds a decoded image.
const MaxImageSize = 10 << 20

// ImageStore persists image bytes under a key and returns the reference that
// is stored on the recipe.
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
}

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Image is a decoded data URI.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// DecodeDataURI parses "data:image/<type>;base64,<payload>".
func DecodeDataURI(uri string) (*Image, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, errs.Invalid("image", "expected a base64 data URI")
	}
	contentType := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64"))
	ext, ok := extensions[contentType]
	if !ok {
		return nil, errs.Invalid("image", "unsupported image type %q", contentType)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errs.Invalid("image", "invalid base64 payload")
	}
	if len(data) == 0 {
		return nil, errs.Invalid("image", "image is empty")
	}
	if len(data) > MaxImageSize {
		return nil, errs.Invalid("image", "image exceeds %d bytes", MaxImageSize)
	}
	return &Image{Data: data, ContentType: contentType, Ext: ext}, nil
}

// NewRecipeImageKey returns a fresh object key for a recipe image.
func NewRecipeImageKey(ext string) string {
	return fmt.Sprintf("recipes/%s.%s", uuid.NewString(), ext)
}

// SaveDataURI decodes uri and stores it under a new recipe image key. A nil
// store rejects the image.
func SaveDataURI(ctx context.Context, store ImageStore, uri string) (string, error) {
	if store == nil {
		return "", errs.Invalid("image", "image uploads are not configured")
	}
	img, err := DecodeDataURI(uri)
	if err != nil {
		return "", err
	}
	return store.Save(ctx, NewRecipeImageKey(img.Ext), img.Data, img.ContentType)
}
