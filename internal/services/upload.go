package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yoyowasi/ar-memo-backend/internal/blob"
	"github.com/yoyowasi/ar-memo-backend/internal/model"
)

const (
	thumbSize        = 300
	thumbJPEGQuality = 80
)

// extByMime also acts as the allow-list for uploaded photos.
var extByMime = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// UploadResult describes a stored photo. Keys, never URLs: the client passes
// them back when creating a memory, and read paths sign them on the way out.
type UploadResult struct {
	Key      string  `json:"key"`
	ThumbKey *string `json:"thumbKey"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Bytes    int     `json:"bytes"`
	Mime     string  `json:"mime"`
	Ext      string  `json:"ext"`
}

// PresignResult is a signed client-side upload URL plus the key the client
// must store.
type PresignResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// UploadService stores photos privately and derives a square cover thumbnail.
type UploadService struct {
	signer blob.Signer
}

func NewUploadService(sg blob.Signer) *UploadService {
	return &UploadService{signer: sg}
}

// StorePhoto uploads the original under YYYY-MM-DD/<uuid>.<ext> and, when the
// image decodes, a 300x300 cover JPEG next to it. Thumbnail failure is
// non-fatal; the original is already stored.
func (s *UploadService) StorePhoto(ctx context.Context, data []byte, mime string) (*UploadResult, error) {
	ext, ok := extByMime[mime]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported image type %q", model.ErrValidation, mime)
	}

	id := uuid.NewString()
	folder := time.Now().UTC().Format("2006-01-02")
	key := fmt.Sprintf("%s/%s.%s", folder, id, ext)

	res := &UploadResult{Key: key, Bytes: len(data), Mime: mime, Ext: ext}

	img, decErr := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if decErr == nil {
		b := img.Bounds()
		res.Width = b.Dx()
		res.Height = b.Dy()
	}

	if err := s.signer.Upload(ctx, key, data, mime); err != nil {
		return nil, err
	}

	if decErr != nil {
		log.Warn().Err(decErr).Str("key", key).Msg("image decode failed, skipping thumbnail")
		return res, nil
	}

	thumb := imaging.Fill(img, thumbSize, thumbSize, imaging.Center, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(thumbJPEGQuality)); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("thumbnail encode failed")
		return res, nil
	}
	thumbKey := fmt.Sprintf("%s/%s.thumb.jpg", folder, id)
	if err := s.signer.Upload(ctx, thumbKey, buf.Bytes(), "image/jpeg"); err != nil {
		log.Warn().Err(err).Str("key", thumbKey).Msg("thumbnail upload failed")
		return res, nil
	}
	res.ThumbKey = &thumbKey
	return res, nil
}

// PresignPhoto validates the content type, picks a fresh key and issues a
// signed PUT URL so clients can upload directly.
func (s *UploadService) PresignPhoto(ctx context.Context, mime string) (*PresignResult, error) {
	ext, ok := extByMime[mime]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported image type %q", model.ErrValidation, mime)
	}
	key := fmt.Sprintf("%s/%s.%s", time.Now().UTC().Format("2006-01-02"), uuid.NewString(), ext)
	return s.PresignUpload(ctx, key, mime)
}

// PresignUpload issues a signed PUT URL for an already-chosen key.
func (s *UploadService) PresignUpload(ctx context.Context, key, contentType string) (*PresignResult, error) {
	url, err := s.signer.SignedUploadURL(ctx, key, contentType)
	if err != nil {
		return nil, err
	}
	return &PresignResult{URL: url, Key: key}, nil
}
