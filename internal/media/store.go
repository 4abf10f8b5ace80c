// Package media stores post image attachments on disk.
package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"path/filepath"
	"strings"

	"plume/internal/models"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const postsDir = "posts"

// Store writes uploaded post images below a media root, the way the source
// system stored them under posts/<filename>. Stored paths are relative to
// the root so the serving layer can prefix them freely.
type Store struct {
	root         string
	maxSizeBytes int64
}

// NewStore returns a Store rooted at root with the given upload cap in MB.
func NewStore(root string, maxSizeMB int) *Store {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &Store{
		root:         root,
		maxSizeBytes: int64(maxSizeMB) * 1024 * 1024,
	}
}

// Save validates content as a decodable image and writes it under
// posts/<uuid>.<ext>, returning the relative path. The original filename
// only contributes its extension.
func (s *Store) Save(filename string, content []byte) (string, error) {
	if int64(len(content)) > s.maxSizeBytes {
		return "", models.NewValidationError(fmt.Sprintf("Image exceeds the %d MB upload limit", s.maxSizeBytes/(1024*1024)))
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(content)); err != nil {
		return "", models.NewValidationError("Upload a valid image")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		ext = ".jpg"
	}

	dir := filepath.Join(s.root, postsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", models.NewInternalError(err)
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
		return "", models.NewInternalError(err)
	}

	return filepath.ToSlash(filepath.Join(postsDir, name)), nil
}

// Remove deletes a stored image by its relative path. Missing files are not
// an error; the path may already have been cleaned up.
func (s *Store) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(relPath)))
	if err != nil && !os.IsNotExist(err) {
		return models.NewInternalError(err)
	}
	return nil
}
