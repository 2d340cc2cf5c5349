package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/stemsi/portfolio-backend/internal/config"
)

// Sentinel errors for project file uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrNotUploadURL        = errors.New("not an upload url")
)

// UploadURLPrefix is the public path stored files are served under.
const UploadURLPrefix = "/uploads/"

// Allowed project file extensions.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".zip":  true,
	".doc":  true,
	".docx": true,
	".ppt":  true,
	".pptx": true,
	".txt":  true,
	".md":   true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Upload is a file received from a client.
type Upload struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// StoredFile describes a saved upload.
type StoredFile struct {
	Name string // original client file name
	URL  string // public URL path
}

// MediaService stores project files on local disk.
type MediaService struct {
	cfg *config.Config
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config) *MediaService {
	return &MediaService{cfg: cfg}
}

// Save writes an upload to the upload directory under a UUID filename that
// keeps the original extension.
func (s *MediaService) Save(u *Upload) (*StoredFile, error) {
	name := filepath.Base(strings.ReplaceAll(u.Name, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w: %q (allowed: %s)",
			ErrUnsupportedFileType, ext, strings.Join(allowedTypes(), ", "))
	}

	if u.Size > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, u.Size, s.cfg.MaxUploadBytes)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ext
	destPath := filepath.Join(s.cfg.UploadDir, filename)

	dst, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	// Size from the multipart header is client supplied; enforce the limit on the bytes actually written.
	written, err := io.Copy(dst, io.LimitReader(u.Reader, s.cfg.MaxUploadBytes+1))
	closeErr := dst.Close()
	if err == nil && written > s.cfg.MaxUploadBytes {
		err = fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, s.cfg.MaxUploadBytes)
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(destPath)
		if errors.Is(err, ErrFileTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("write file: %w", err)
	}

	return &StoredFile{Name: name, URL: UploadURLPrefix + filename}, nil
}

// Remove deletes a stored file by its public URL. Missing files are ignored.
func (s *MediaService) Remove(url string) error {
	if !strings.HasPrefix(url, UploadURLPrefix) {
		return fmt.Errorf("%w: %q", ErrNotUploadURL, url)
	}
	name := strings.TrimPrefix(url, UploadURLPrefix)
	if name == "" || name == ".." || strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: %q", ErrNotUploadURL, url)
	}
	if err := os.Remove(filepath.Join(s.cfg.UploadDir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedExtensions))
	for t := range allowedExtensions {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
