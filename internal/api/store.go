package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ironsheep/image-stego-mcp/internal/imaging"
)

// ErrImageNotFound is returned by ImageStore.Get for unknown ids.
var ErrImageNotFound = errors.New("image not found")

// storedExtensions lists the extensions Put may write, in lookup order.
var storedExtensions = []string{"png", "bmp", "tiff", "jpg", "gif"}

// ImageStore keeps encoded stego images on disk as <dir>/<uuid>.<ext>.
type ImageStore struct {
	dir string
}

// NewImageStore creates dir if needed.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image store: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the storage directory.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Put writes data under a fresh id and returns it.
func (s *ImageStore) Put(data []byte, ext string) (string, error) {
	id := uuid.NewString()
	path := filepath.Join(s.dir, id+"."+strings.TrimPrefix(ext, "."))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return id, nil
}

// StoredImage is an image read back from the store.
type StoredImage struct {
	ID       string
	Data     []byte
	MimeType string
	Filename string
}

// Get reads the image stored under id. The id must be a UUID.
func (s *ImageStore) Get(id string) (*StoredImage, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, badRequest(CodeValidation, "invalid image id %q", id)
	}
	id = parsed.String()

	for _, ext := range storedExtensions {
		name := id + "." + ext
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}

		mime := "application/octet-stream"
		if f, err := imaging.ParseFormat(ext); err == nil {
			mime = imaging.MimeType(f)
		}
		return &StoredImage{ID: id, Data: data, MimeType: mime, Filename: name}, nil
	}
	return nil, ErrImageNotFound
}
