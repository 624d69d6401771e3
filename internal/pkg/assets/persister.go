// Package assets copies transient generated images into durable storage.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/kolesa-team/go-webp/decoder"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/vitrinepost/vitrinepost/internal/pkg/aiclient"
	"github.com/vitrinepost/vitrinepost/internal/pkg/objectstore"
)

const (
	maxDownloadBytes = 25 << 20
	thumbnailSize    = 400
	thumbnailQuality = 80
)

var (
	ErrDownload = errors.New("download transient image")
	ErrUpload   = errors.New("upload image to object storage")
)

// Asset is a persisted image.
type Asset struct {
	Key          string `json:"key"`
	URL          string `json:"url"`
	ContentType  string `json:"content_type"`
	Size         int    `json:"size"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

type Config struct {
	DownloadTimeout time.Duration
	UploadTimeout   time.Duration
	Thumbnails      bool
}

type Persister struct {
	store      objectstore.Store
	httpClient *http.Client
	cfg        Config
}

func NewPersister(store objectstore.Store, cfg Config) *Persister {
	return &Persister{store: store, httpClient: &http.Client{}, cfg: cfg}
}

// Persist writes img under generations/<userID>/<random id> and returns its
// stable public URL. A thumbnail failure never fails the call.
func (p *Persister) Persist(ctx context.Context, userID string, img aiclient.GeneratedImage) (Asset, error) {
	data := img.Data
	if len(data) == 0 {
		var err error
		if data, err = p.download(ctx, img.URL); err != nil {
			return Asset{}, fmt.Errorf("%w: %w", ErrDownload, err)
		}
	}

	contentType, ext, err := DetectImageType(head(data))
	if err != nil {
		return Asset{}, err
	}
	decoded, err := decode(data, contentType)
	if err != nil {
		return Asset{}, fmt.Errorf("%w: %w", ErrNotAnImage, err)
	}

	id := uuid.NewString()
	asset := Asset{
		Key:         fmt.Sprintf("generations/%s/%s%s", userID, id, ext),
		ContentType: contentType,
		Size:        len(data),
		Width:       decoded.Bounds().Dx(),
		Height:      decoded.Bounds().Dy(),
	}

	upCtx, cancel := context.WithTimeout(ctx, p.cfg.UploadTimeout)
	defer cancel()
	if err := p.store.Upload(upCtx, asset.Key, data, contentType); err != nil {
		return Asset{}, fmt.Errorf("%w: %w", ErrUpload, err)
	}
	asset.URL = p.store.PublicURL(asset.Key)

	if p.cfg.Thumbnails {
		thumbKey := strings.TrimSuffix(asset.Key, ext) + "_thumb.webp"
		if err := p.uploadThumbnail(upCtx, thumbKey, decoded); err != nil {
			log.Warnf("[Assets] Thumbnail for %s failed: %v", asset.Key, err)
		} else {
			asset.ThumbnailURL = p.store.PublicURL(thumbKey)
		}
	}

	log.Infof("[Assets] Stored %s (%dx%d, %d bytes)", asset.Key, asset.Width, asset.Height, asset.Size)
	return asset, nil
}

// download fetches the provider's short-lived URL.
func (p *Persister) download(ctx context.Context, url string) ([]byte, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("empty image url")
	}
	dlCtx, cancel := context.WithTimeout(ctx, p.cfg.DownloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(dlCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDownloadBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxDownloadBytes)
	}
	if len(data) == 0 {
		return nil, errors.New("empty image body")
	}
	return data, nil
}

func (p *Persister) uploadThumbnail(ctx context.Context, key string, img image.Image) error {
	thumb := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)
	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, thumbnailQuality)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := webp.Encode(&buf, thumb, options); err != nil {
		return err
	}
	return p.store.Upload(ctx, key, buf.Bytes(), "image/webp")
}

func decode(data []byte, contentType string) (image.Image, error) {
	if contentType == "image/webp" {
		return webp.Decode(bytes.NewReader(data), &decoder.Options{})
	}
	return imaging.Decode(bytes.NewReader(data))
}

func head(data []byte) []byte {
	if len(data) > 512 {
		return data[:512]
	}
	return data
}
