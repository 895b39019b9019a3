package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Import for GIF decoding support
	"image/jpeg"
	"image/png"
	"io"
	"path"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// MaxUploadBytes caps a profile picture upload.
	MaxUploadBytes = 5 << 20
	// MaxAvatarSide is the longest edge kept for stored avatars.
	MaxAvatarSide = 512
)

var ErrFileTooLarge = errors.New("file exceeds the 5 MB upload limit")

type FileService interface {
	// UploadProfilePicture validates, downsizes and stores an avatar and
	// returns its storage key.
	UploadProfilePicture(ctx context.Context, userID string, file io.Reader) (string, error)
	DeleteFile(ctx context.Context, path string) error
	URL(path string) string
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

func (s *fileServiceImpl) UploadProfilePicture(ctx context.Context, userID string, file io.Reader) (string, error) {
	buffer, err := io.ReadAll(io.LimitReader(file, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(buffer) > MaxUploadBytes {
		return "", ErrFileTooLarge
	}

	ext, ok := storage.DetectImage(buffer)
	if !ok {
		return "", user.ErrInvalidImage
	}

	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return "", user.ErrInvalidImage
	}

	payload := buffer
	if b := img.Bounds(); b.Dx() > MaxAvatarSide || b.Dy() > MaxAvatarSide {
		payload, ext, err = shrink(img, ext)
		if err != nil {
			return "", err
		}
	}

	key := path.Join("avatars", userID, uuid.New().String()+ext)
	uploaded, err := s.storage.Upload(ctx, bytes.NewReader(payload), key)
	if err != nil {
		return "", fmt.Errorf("failed to upload profile picture: %w", err)
	}
	return uploaded, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

func (s *fileServiceImpl) URL(path string) string {
	return s.storage.URL(path)
}

// shrink scales img so its longest side is MaxAvatarSide. JPEG input stays
// JPEG; everything else is re-encoded as PNG.
func shrink(img image.Image, ext string) ([]byte, string, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w >= h {
		h = max(1, h*MaxAvatarSide/w)
		w = MaxAvatarSide
	} else {
		w = max(1, w*MaxAvatarSide/h)
		h = MaxAvatarSide
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	buf := new(bytes.Buffer)
	if ext == ".jpg" {
		if err := jpeg.Encode(buf, dst, &jpeg.Options{Quality: 85}); err != nil {
			return nil, "", fmt.Errorf("failed to encode JPEG: %w", err)
		}
		return buf.Bytes(), ext, nil
	}
	if err := png.Encode(buf, dst); err != nil {
		return nil, "", fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), ".png", nil
}
