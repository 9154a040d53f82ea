package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/techagentng/chatx/config"
	errs "github.com/techagentng/chatx/errors"
	"github.com/techagentng/chatx/storage"
)

const (
	MaxPictureSize   = 5 * 1024 * 1024 // 5 MB
	GroupPictureSize = 256
)

// MediaService turns uploaded pictures into stored thumbnails.
type MediaService interface {
	StoreGroupPicture(ctx context.Context, chatID uuid.UUID, r io.Reader, filename string) (string, error)
}

type mediaService struct {
	Config *config.Config
	store  storage.FileStore
}

func NewMediaService(store storage.FileStore, conf *config.Config) MediaService {
	return &mediaService{
		Config: conf,
		store:  store,
	}
}

func CheckSupportedFile(filename string) (bool, string) {
	supportedFileTypes := map[string]bool{
		".png":  true,
		".jpeg": true,
		".jpg":  true,
		".gif":  true,
	}

	fileExtension := strings.ToLower(filepath.Ext(filename))
	return supportedFileTypes[fileExtension], fileExtension
}

func generateUniqueFilename(extension string) string {
	timestamp := time.Now().UnixNano()
	randomUUID := uuid.New()
	return fmt.Sprintf("%d_%s%s", timestamp, randomUUID, extension)
}

func (m *mediaService) StoreGroupPicture(ctx context.Context, chatID uuid.UUID, r io.Reader, filename string) (string, error) {
	if ok, ext := CheckSupportedFile(filename); !ok {
		return "", errs.InvalidArgument("groupPic", fmt.Sprintf("unsupported file type %q", ext))
	}

	img, err := imaging.Decode(io.LimitReader(r, MaxPictureSize+1), imaging.AutoOrientation(true))
	if err != nil {
		return "", errs.InvalidArgument("groupPic", "not a readable image")
	}
	thumb := imaging.Fill(img, GroupPictureSize, GroupPictureSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("encode group picture: %w", err)
	}

	key := fmt.Sprintf("groups/%s/%s", chatID, generateUniqueFilename(".jpg"))
	ref, err := m.store.Put(ctx, key, bytes.NewReader(buf.Bytes()), "image/jpeg")
	if err != nil {
		return "", err
	}
	return ref, nil
}
