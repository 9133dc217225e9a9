// Package captions discovers and loads caption files from a dataset
// directory. It backs the file-loading side of the capdrop service and
// CLI: finding .txt/.caption sidecar files and reading their contents as
// raw caption text for the transform engine.
package captions

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/capdrop/capdrop/pkg/errors"
)

// File describes one discovered caption file.
type File struct {
	Path     string `json:"path"`     // path relative to the source root
	Caption  string `json:"caption"`  // file contents, trimmed
	FileName string `json:"fileName"` // base name
	Folder   string `json:"folder"`   // containing folder, relative to root
}

// Extensions recognized as caption files.
var captionExtensions = map[string]bool{
	".txt":     true,
	".caption": true,
}

const (
	// maxFileSize bounds a single caption file read. Caption sidecars are
	// short; anything larger is not a caption.
	maxFileSize = 1 << 20

	// DefaultMaxFiles bounds one directory scan.
	DefaultMaxFiles = 10000
)

// Source reads caption files under a fixed root directory. All paths
// handed to Source methods are resolved against the root and must not
// escape it.
type Source struct {
	root     string
	maxFiles int
}

// NewSource creates a Source rooted at dir. The directory must exist.
func NewSource(dir string) (*Source, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolving %s", dir)
	}
	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "caption directory %s does not exist", dir)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "reading %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", dir)
	}
	return &Source{root: abs, maxFiles: DefaultMaxFiles}, nil
}

// Root returns the absolute root directory.
func (s *Source) Root() string { return s.root }

// List walks the subdirectory dir (relative to the root, "" for the root
// itself) and returns all caption files in path order. The walk stops
// after maxFiles entries so one request cannot scan an unbounded tree.
// Caption contents are loaded eagerly; unreadable files are skipped.
func (s *Source) List(ctx context.Context, dir string) ([]File, error) {
	start, err := s.resolve(dir)
	if err != nil {
		return nil, err
	}

	var files []File
	err = filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !captionExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if len(files) >= s.maxFiles {
			return fs.SkipAll
		}

		caption, err := readCaption(path)
		if err != nil {
			// Unreadable file: skip rather than failing the whole listing.
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		files = append(files, File{
			Path:     filepath.ToSlash(rel),
			Caption:  caption,
			FileName: filepath.Base(path),
			Folder:   filepath.ToSlash(filepath.Dir(rel)),
		})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "directory %s does not exist", dir)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "scanning %s", dir)
	}

	slices.SortFunc(files, func(a, b File) int {
		return strings.Compare(a.Path, b.Path)
	})
	return files, nil
}

// Content returns the raw text of a single caption file, by path relative
// to the root.
func (s *Source) Content(ctx context.Context, path string) (string, error) {
	abs, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	if !captionExtensions[strings.ToLower(filepath.Ext(abs))] {
		return "", errors.New(errors.ErrCodeInvalidPath, "%s is not a caption file", path)
	}
	caption, err := readCaption(abs)
	if os.IsNotExist(err) {
		return "", errors.New(errors.ErrCodeFileNotFound, "caption file %s does not exist", path)
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "reading %s", path)
	}
	return caption, nil
}

// resolve joins a client-supplied relative path onto the root and rejects
// anything that escapes it.
func (s *Source) resolve(path string) (string, error) {
	if path == "" || path == "." {
		return s.root, nil
	}
	if err := errors.ValidateCaptionPath(path); err != nil {
		return "", err
	}
	abs := filepath.Join(s.root, filepath.FromSlash(path))
	if abs != s.root && !strings.HasPrefix(abs, s.root+string(filepath.Separator)) {
		return "", errors.New(errors.ErrCodeInvalidPath, "path %s escapes the caption root", path)
	}
	return abs, nil
}

func readCaption(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > maxFileSize {
		return "", errors.New(errors.ErrCodeInvalidInput, "caption file too large: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
