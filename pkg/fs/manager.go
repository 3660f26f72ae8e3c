package fs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/santiagomed/llmutil/pkg/prompt"
	"github.com/spf13/afero"
)

// FileSystem wraps the Afero Fs interface
type FileSystem struct {
	Fs afero.Fs
}

// NewMemoryFileSystem creates a new in-memory file system
func NewMemoryFileSystem() *FileSystem {
	return &FileSystem{
		Fs: afero.NewMemMapFs(),
	}
}

// NewOsFileSystem creates a new OS-based file system
func NewOsFileSystem() *FileSystem {
	return &FileSystem{
		Fs: afero.NewOsFs(),
	}
}

// ReadText returns the whole file decoded as UTF-8, unmodified.
func (fs *FileSystem) ReadText(path string) (string, error) {
	data, err := afero.ReadFile(fs.Fs, path)
	if err != nil {
		return "", newPathError(opRead, path, err)
	}
	if !utf8.Valid(data) {
		return "", newPathError(opRead, path, ErrInvalidUTF8)
	}
	return string(data), nil
}

// ReadPrompt reads a prompt file and strips leading blank lines, an optional
// markdown title line and surrounding whitespace.
func (fs *FileSystem) ReadPrompt(path string) (string, error) {
	content, err := fs.ReadText(path)
	if err != nil {
		return "", err
	}
	return prompt.Normalize(content), nil
}

// WriteFile creates a new file with the given content or overwrites an existing file with the content
func (fs *FileSystem) WriteFile(path string, content string) error {
	err := afero.WriteFile(fs.Fs, path, []byte(content), 0644)
	if err != nil {
		return newPathError(opWrite, path, err)
	}
	return nil
}

// FileExists checks if a file exists
func (fs *FileSystem) FileExists(path string) bool {
	_, err := fs.Fs.Stat(path)
	return err == nil
}

// IsDir checks if a path is a directory
func (fs *FileSystem) IsDir(path string) bool {
	info, err := fs.Fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ListFiles walks dir and returns the sorted paths of regular files ending in
// ext. An empty ext matches every file.
func (fs *FileSystem) ListFiles(dir, ext string) ([]string, error) {
	files := []string{}
	err := afero.Walk(fs.Fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if ext == "" || strings.EqualFold(filepath.Ext(path), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, newPathError(opList, dir, err)
	}

	sort.Strings(files)
	return files, nil
}
