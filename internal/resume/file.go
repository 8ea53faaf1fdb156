package resume

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// File is the binary handed to the upload step.
type File struct {
	Name    string
	Size    int64
	Content io.Reader
}

// OpenFile opens a local file for upload. The caller closes the returned closer.
func OpenFile(path string) (*File, io.Closer, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil, fmt.Errorf("file path is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.IsDir() {
		_ = f.Close()
		return nil, nil, fmt.Errorf("%s is a directory", path)
	}

	return &File{
		Name:    filepath.Base(path),
		Size:    stat.Size(),
		Content: f,
	}, f, nil
}
