package infra

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageBytes caps uploaded pictures.
const MaxImageBytes = 5 << 20

var (
	ErrImageFormat  = errors.New("invalid image format")
	ErrImageTooBig  = errors.New("image too large")
	ErrImageCorrupt = errors.New("image cannot be decoded")
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// FileStore keeps uploaded images on local disk under root and builds their
// public URLs from baseURL.
type FileStore struct {
	root    string
	baseURL string
}

func NewFileStore(root, baseURL string) *FileStore {
	return &FileStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *FileStore) Root() string { return s.root }

// Dir returns the on-disk directory for a bucket such as "photos".
func (s *FileStore) Dir(bucket string) string { return filepath.Join(s.root, bucket) }

// SaveImage validates an uploaded JPG/PNG and stores it under a random name
// in bucket. urlPrefix is the public mount of that bucket, e.g. "/static".
// It returns the public URL of the stored file.
func (s *FileStore) SaveImage(bucket, urlPrefix, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExts[ext] {
		return "", ErrImageFormat
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("filestore: read upload: %w", err)
	}
	if len(data) > MaxImageBytes {
		return "", ErrImageTooBig
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", ErrImageCorrupt
	}

	dir := s.Dir(bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("filestore: create dir: %w", err)
	}
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("filestore: write file: %w", err)
	}
	return s.baseURL + "/" + strings.Trim(urlPrefix, "/") + "/" + name, nil
}
