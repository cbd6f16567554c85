package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/errs"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake")

func pngURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

func TestDecodeDataURI(t *testing.T) {
	img, err := DecodeDataURI(pngURI())
	require.NoError(t, err)
	assert.Equal(t, "png", img.Ext)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, pngBytes, img.Data)
}

func TestDecodeDataURIRejectsBadInput(t *testing.T) {
	for name, uri := range map[string]string{
		"not a data uri": "http://example.com/a.png",
		"not base64":     "data:image/png,abc",
		"bad payload":    "data:image/png;base64,***",
		"unknown type":   "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("x")),
		"empty":          "data:image/png;base64,",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeDataURI(uri)
			require.Error(t, err)
			ve, ok := errs.AsValidation(err)
			require.True(t, ok)
			assert.Equal(t, "image", ve.Field)
		})
	}
}

func TestSaveDataURIWithoutStore(t *testing.T) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	_, err := SaveDataURI(context.Background(), nil, uri)
	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "image", verr.Field)
}

func TestLocalStoreSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/media/")
	require.NoError(t, err)

	ref, err := SaveDataURI(context.Background(), store, pngURI())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/media/recipes/"), ref)
	assert.True(t, strings.HasSuffix(ref, ".png"), ref)

	path := filepath.Join(dir, strings.TrimPrefix(ref, "/media/"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)

	require.NoError(t, store.Delete(context.Background(), ref))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(context.Background(), ref))
	assert.NoError(t, store.Delete(context.Background(), "https://elsewhere/x.png"))
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, in)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func TestS3StoreSave(t *testing.T) {
	client := new(mockS3)
	store := newS3Store(client, "media", func(key string) string { return "https://cdn.test/media/" + key })

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "media" && *in.Key == "recipes/a.png" && *in.ContentType == "image/png"
	})).Return(nil).Once()

	ref, err := store.Save(context.Background(), "recipes/a.png", pngBytes, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/media/recipes/a.png", ref)
	client.AssertExpectations(t)
}

func TestS3StoreDelete(t *testing.T) {
	client := new(mockS3)
	store := newS3Store(client, "media", func(key string) string { return "https://cdn.test/media/" + key })

	client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return *in.Key == "recipes/a.png"
	})).Return(errors.New("denied")).Once()

	err := store.Delete(context.Background(), "https://cdn.test/media/recipes/a.png")
	assert.ErrorContains(t, err, "denied")

	// foreign references are not touched
	assert.NoError(t, store.Delete(context.Background(), "/media/recipes/a.png"))
	client.AssertExpectations(t)
}
