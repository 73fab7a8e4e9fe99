package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

const MaxUploadBytes = 5 << 20

var (
	ErrNotImage      = errors.New("only image uploads are allowed")
	ErrUploadTooBig  = errors.New("upload exceeds 5 MiB")
	ErrBadDataURI    = errors.New("malformed data URI")
	ErrUnknownSlot   = errors.New("unknown site image slot")
	ErrEmptyUpload   = errors.New("empty upload")
	errBadObjectPath = errors.New("invalid object path")
)

var imageExt = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// MediaStore stores an object and returns its public URL.
type MediaStore interface {
	Put(ctx context.Context, objectPath, contentType string, data []byte) (string, error)
}

// GCSMedia writes objects to a publicly readable bucket.
type GCSMedia struct {
	Client *storage.Client
	Bucket string
}

func NewGCSMedia(ctx context.Context, bucket string) (*GCSMedia, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &GCSMedia{Client: client, Bucket: bucket}, nil
}

func (g *GCSMedia) Put(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	w := g.Client.Bucket(g.Bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=300"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs write %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs close %s: %w", objectPath, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.Bucket, objectPath), nil
}

func (g *GCSMedia) Close() error { return g.Client.Close() }

// LocalMedia writes objects under Dir; they are served at /media/.
type LocalMedia struct {
	Dir string
}

func (l LocalMedia) Put(_ context.Context, objectPath, _ string, data []byte) (string, error) {
	clean := path.Clean("/" + objectPath)[1:]
	if clean == "" || clean != objectPath {
		return "", errBadObjectPath
	}
	dst := filepath.Join(l.Dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", err
	}
	return "/media/" + clean, nil
}

// Upload is a decoded image waiting to be stored.
type Upload struct {
	ContentType string
	Data        []byte
}

var dataURIRe = regexp.MustCompile(`^data:([\w.+-]+/[\w.+-]+);base64,(.+)$`)

// DecodeDataURI parses data:<mime>;base64,<data>.
func DecodeDataURI(s string) (Upload, error) {
	m := dataURIRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Upload{}, ErrBadDataURI
	}
	if base64.StdEncoding.DecodedLen(len(m[2])) > MaxUploadBytes+3 {
		return Upload{}, ErrUploadTooBig
	}
	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return Upload{}, ErrBadDataURI
	}
	return Upload{ContentType: strings.ToLower(m[1]), Data: data}, nil
}

// ReadFileHeader reads a multipart file, sniffing its content type.
func ReadFileHeader(fh *multipart.FileHeader) (Upload, error) {
	if fh.Size > MaxUploadBytes {
		return Upload{}, ErrUploadTooBig
	}
	f, err := fh.Open()
	if err != nil {
		return Upload{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		return Upload{}, err
	}
	return Upload{ContentType: http.DetectContentType(data), Data: data}, nil
}

func (u Upload) check() (ext string, err error) {
	if len(u.Data) == 0 {
		return "", ErrEmptyUpload
	}
	if len(u.Data) > MaxUploadBytes {
		return "", ErrUploadTooBig
	}
	ext, ok := imageExt[u.ContentType]
	if !ok {
		return "", ErrNotImage
	}
	return ext, nil
}

// Site image slots and their object paths. The logo path is fixed; the
// others keep the uploaded extension.
const (
	SlotLogo          = "logo"
	SlotBanner        = "banner"
	SlotCraftsmanship = "craftsmanship"
	SlotHomeAd        = "homeAd"
	SlotCatalogAd     = "catalogAd"
)

var slotPaths = map[string]string{
	SlotBanner:        "site-configuration/banner-image",
	SlotCraftsmanship: "site-configuration/craftsmanship-image",
	SlotHomeAd:        "site-configuration/ads/homepage-ad",
	SlotCatalogAd:     "site-configuration/ads/catalogpage-ad",
}

type MediaService struct {
	Store MediaStore
}

func SiteImagePath(slot, ext string) (string, error) {
	if slot == SlotLogo {
		return "site-configuration/logo.png", nil
	}
	base, ok := slotPaths[slot]
	if !ok {
		return "", ErrUnknownSlot
	}
	return base + "." + ext, nil
}

func (s *MediaService) PutSiteImage(ctx context.Context, slot string, u Upload) (string, error) {
	ext, err := u.check()
	if err != nil {
		return "", err
	}
	p, err := SiteImagePath(slot, ext)
	if err != nil {
		return "", err
	}
	return s.Store.Put(ctx, p, u.ContentType, u.Data)
}

func (s *MediaService) PutProductImage(ctx context.Context, productID string, u Upload) (string, error) {
	ext, err := u.check()
	if err != nil {
		return "", err
	}
	if productID == "" || strings.ContainsAny(productID, "/\\") {
		return "", errBadObjectPath
	}
	return s.Store.Put(ctx, fmt.Sprintf("products/%s/%s.%s", productID, uuid.NewString(), ext), u.ContentType, u.Data)
}
