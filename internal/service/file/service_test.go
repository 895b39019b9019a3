package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func newService(t *testing.T) (FileService, string) {
	t.Helper()
	dir := t.TempDir()
	local, err := storage.NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)
	return NewFileService(local), dir
}

func TestUploadProfilePicture_StoresSmallImageAsIs(t *testing.T) {
	svc, dir := newService(t)
	data := pngBytes(t, 64, 32)

	key, err := svc.UploadProfilePicture(context.Background(), "u1", bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "avatars/u1/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, data, stored)
	assert.Equal(t, "/uploads/"+key, svc.URL(key))
}

func TestUploadProfilePicture_ShrinksLargeImage(t *testing.T) {
	svc, dir := newService(t)

	key, err := svc.UploadProfilePicture(context.Background(), "u1", bytes.NewReader(pngBytes(t, 1024, 256)))
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 128, cfg.Height)
}

func TestUploadProfilePicture_RejectsNonImage(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.UploadProfilePicture(context.Background(), "u1", strings.NewReader("<?php echo 'hi'; ?>"))
	assert.ErrorIs(t, err, user.ErrInvalidImage)
}
