// internal/adapter/storage/disk/client.go
package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/GoArmGo/ProfileApp/internal/domain"
)

// Client хранит загруженные файлы в локальной директории.
// Эта же директория раздаётся как /images.
type Client struct {
	root   string
	logger *slog.Logger
}

// NewDiskClient создаёт директорию хранилища, если её нет.
func NewDiskClient(root string, logger *slog.Logger) (*Client, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", root, err)
	}
	logger.Info("disk file storage ready", "root", root)
	return &Client{root: root, logger: logger}, nil
}

// resolve оставляет только плоские имена внутри root.
func (c *Client) resolve(name string) (string, bool) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", false
	}
	return filepath.Join(c.root, name), true
}

// SaveFile записывает содержимое под исходным именем; существующий файл перезаписывается.
func (c *Client) SaveFile(ctx context.Context, name string, content io.Reader, contentType string) (string, error) {
	path, ok := c.resolve(name)
	if !ok {
		return "", fmt.Errorf("%w: invalid file name %q", domain.ErrMissingFile, name)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: create %s: %w", domain.ErrStorage, name, err)
	}

	n, err := io.Copy(f, content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("%w: write %s: %w", domain.ErrStorage, name, err)
	}

	c.logger.Info("file stored", "name", name, "bytes", n, "content_type", contentType)
	return name, nil
}

// OpenFile открывает файл для чтения.
func (c *Client) OpenFile(ctx context.Context, name string) (io.ReadCloser, error) {
	path, ok := c.resolve(name)
	if !ok {
		return nil, domain.ErrNotFound
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrStorage, name, err)
	}

	if st, err := f.Stat(); err == nil && st.IsDir() {
		f.Close()
		return nil, domain.ErrNotFound
	}
	return f, nil
}
