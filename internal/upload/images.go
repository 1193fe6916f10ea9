package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxImageSize = 10 << 20 // 10 MB
	URLPrefix    = "/images/"
)

var ErrInvalidImage = errors.New("invalid image")

var imageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Images keeps uploaded post images in a directory served under URLPrefix.
type Images struct {
	dir string
	now func() time.Time
}

func NewImages(dir string) *Images {
	return &Images{dir: dir, now: time.Now}
}

func (s *Images) Dir() string {
	return s.dir
}

// Save writes the image as <YYYYMMDD>-<uuid><ext> and returns its public URL.
func (s *Images) Save(content io.Reader, filename string, size int64) (string, error) {
	if size > MaxImageSize {
		return "", fmt.Errorf("%w: file size exceeds maximum limit of %d MB", ErrInvalidImage, MaxImageSize>>20)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !imageTypes[ext] {
		return "", fmt.Errorf("%w: unsupported file type %q", ErrInvalidImage, ext)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := s.now().Format("20060102") + "-" + uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	// one extra byte tells an oversized stream apart from an exact fit
	n, err := io.Copy(dst, io.LimitReader(content, MaxImageSize+1))
	if err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if n > MaxImageSize {
		os.Remove(dst.Name())
		return "", fmt.Errorf("%w: file size exceeds maximum limit of %d MB", ErrInvalidImage, MaxImageSize>>20)
	}

	return URLPrefix + name, nil
}

// Delete removes a stored image by its URL. Missing files are not an error.
func (s *Images) Delete(ref string) error {
	if !strings.HasPrefix(ref, URLPrefix) {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, path.Base(ref)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}
