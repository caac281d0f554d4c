package uploads

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/khanghh/unionhub/params"
)

var (
	ErrFileTooLarge = errors.New("file exceeds the upload size limit")
	ErrEmptyFile    = errors.New("file is empty")
	ErrInvalidPath  = errors.New("invalid file path")
)

type File struct {
	Path         string `json:"filePath"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
}

// Storage keeps uploaded files under a root directory. Stored paths are relative
// to the root.
type Storage struct {
	root    string
	maxSize int64
}

func (s *Storage) Root() string {
	return s.root
}

func (s *Storage) Save(fh *multipart.FileHeader, subdir string) (*File, error) {
	if fh.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fh.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	relPath := filepath.ToSlash(filepath.Join(subdir, uuid.NewString()+ext))
	fullPath := filepath.Join(s.root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, err
	}
	dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, io.LimitReader(src, s.maxSize)); err != nil {
		os.Remove(fullPath)
		return nil, err
	}
	return &File{
		Path:         relPath,
		OriginalName: filepath.Base(fh.Filename),
		MimeType:     fh.Header.Get("Content-Type"),
		Size:         fh.Size,
	}, nil
}

// Remove deletes a stored file. Missing files are ignored.
func (s *Storage) Remove(relPath string) error {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return ErrInvalidPath
	}
	err := os.Remove(filepath.Join(s.root, clean))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func NewStorage(root string) *Storage {
	return &Storage{root: root, maxSize: params.MaxUploadFileSize}
}
