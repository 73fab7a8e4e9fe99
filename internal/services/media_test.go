package services_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiflisi/internal/services"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

type recordingStore struct {
	paths []string
	types []string
}

func (r *recordingStore) Put(_ context.Context, objectPath, contentType string, _ []byte) (string, error) {
	r.paths = append(r.paths, objectPath)
	r.types = append(r.types, contentType)
	return "https://storage.googleapis.com/bucket/" + objectPath, nil
}

func TestDecodeDataURI(t *testing.T) {
	u, err := services.DecodeDataURI(dataURI("image/png", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/png", u.ContentType)
	assert.Equal(t, pngHeader, u.Data)

	for _, bad := range []string{"", "data:image/png,abc", "image/png;base64,AAAA", "data:image/png;base64,***"} {
		_, err := services.DecodeDataURI(bad)
		assert.ErrorIs(t, err, services.ErrBadDataURI, bad)
	}
}

func TestLocalMediaSiteImages(t *testing.T) {
	dir := t.TempDir()
	media := &services.MediaService{Store: services.LocalMedia{Dir: dir}}
	ctx := context.Background()

	url, err := media.PutSiteImage(ctx, services.SlotLogo, services.Upload{ContentType: "image/jpeg", Data: pngHeader})
	require.NoError(t, err)
	assert.Equal(t, "/media/site-configuration/logo.png", url)
	got, err := os.ReadFile(filepath.Join(dir, "site-configuration", "logo.png"))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(pngHeader, got))

	url, err = media.PutSiteImage(ctx, services.SlotHomeAd, services.Upload{ContentType: "image/webp", Data: pngHeader})
	require.NoError(t, err)
	assert.Equal(t, "/media/site-configuration/ads/homepage-ad.webp", url)

	_, err = media.PutSiteImage(ctx, "favicon", services.Upload{ContentType: "image/png", Data: pngHeader})
	assert.ErrorIs(t, err, services.ErrUnknownSlot)
	_, err = media.PutSiteImage(ctx, services.SlotBanner, services.Upload{ContentType: "text/html", Data: []byte("<p>")})
	assert.ErrorIs(t, err, services.ErrNotImage)
	_, err = media.PutSiteImage(ctx, services.SlotBanner, services.Upload{ContentType: "image/png"})
	assert.ErrorIs(t, err, services.ErrEmptyUpload)
	_, err = media.PutSiteImage(ctx, services.SlotBanner, services.Upload{
		ContentType: "image/png", Data: make([]byte, services.MaxUploadBytes+1),
	})
	assert.ErrorIs(t, err, services.ErrUploadTooBig)
}

func TestLocalMediaRejectsEscapingPaths(t *testing.T) {
	_, err := services.LocalMedia{Dir: t.TempDir()}.Put(context.Background(), "../etc/passwd", "image/png", pngHeader)
	assert.Error(t, err)
}

func TestProductImagePaths(t *testing.T) {
	rec := &recordingStore{}
	media := &services.MediaService{Store: rec}

	url, err := media.PutProductImage(context.Background(), "chokha-1", services.Upload{ContentType: "image/png", Data: pngHeader})
	require.NoError(t, err)
	require.Len(t, rec.paths, 1)
	assert.True(t, strings.HasPrefix(rec.paths[0], "products/chokha-1/"))
	assert.True(t, strings.HasSuffix(rec.paths[0], ".png"))
	assert.Equal(t, "https://storage.googleapis.com/bucket/"+rec.paths[0], url)
	assert.Equal(t, []string{"image/png"}, rec.types)

	_, err = media.PutProductImage(context.Background(), "../x", services.Upload{ContentType: "image/png", Data: pngHeader})
	assert.Error(t, err)
}
