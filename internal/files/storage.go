// Package files stores uploaded payloads on the local disk under the public
// uploads tree.
package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/validation"
)

const (
	// DefaultFolder receives uploads that name no folder.
	DefaultFolder = "products"
	// PublicPrefix is the URL path the uploads tree is served under.
	PublicPrefix = "/uploads"

	invalidFolderMessage = "invalid-folder"
	fileNameMessage      = "file-name-required"
	maxParallelWrites    = 4
)

// Upload is one file from a request. Open is called once.
type Upload struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileResponse describes a stored file.
type FileResponse struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

type uploadRecorder interface {
	AddUploads(folder string, n int)
}

// Storage writes uploads to <root>/uploads/<folder>.
type Storage struct {
	root     string
	now      func() time.Time
	recorder uploadRecorder
}

func NewStorage(root string, recorder uploadRecorder) (*Storage, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("uploads root required")
	}
	return &Storage{root: root, now: time.Now, recorder: recorder}, nil
}

// Dir is the directory served under PublicPrefix.
func (s *Storage) Dir() string {
	return filepath.Join(s.root, "uploads")
}

// SaveFiles writes every upload into folder and returns their public URLs
// in input order. On failure nothing written by this call is left behind.
func (s *Storage) SaveFiles(ctx context.Context, uploads []Upload, folder string) ([]FileResponse, error) {
	folder, err := normalizeFolder(folder)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(s.Dir(), folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create upload folder")
	}
	out := make([]FileResponse, len(uploads))
	if len(uploads) == 0 {
		return out, nil
	}

	stamp := s.now().UnixMilli()
	names := make([]string, len(uploads))
	for i, u := range uploads {
		base := baseName(u.Name)
		if base == "" {
			return nil, validation.Errors{{Field: "files", Message: fileNameMessage}}.Err()
		}
		names[i] = fmt.Sprintf("%d-%s", stamp, base)
	}

	written := make([]bool, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelWrites)
	for i := range uploads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			target := filepath.Join(dir, names[i])
			if err := writeFile(target, uploads[i]); err != nil {
				return fmt.Errorf("write %s: %w", names[i], err)
			}
			written[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for i, ok := range written {
			if ok {
				err = multierr.Append(err, os.Remove(filepath.Join(dir, names[i])))
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save files")
	}

	for i, name := range names {
		out[i] = FileResponse{URL: path.Join(PublicPrefix, folder, name), Name: name}
	}
	if s.recorder != nil {
		s.recorder.AddUploads(folder, len(out))
	}
	return out, nil
}

func writeFile(target string, u Upload) (err error) {
	if u.Open == nil {
		return fmt.Errorf("upload has no content")
	}
	src, err := u.Open()
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, src.Close()) }()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err = io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(target)
		return err
	}
	return dst.Close()
}

func normalizeFolder(folder string) (string, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return DefaultFolder, nil
	}
	if folder == "." || folder == ".." || strings.ContainsAny(folder, `/\`) || strings.Contains(folder, "..") {
		return "", validation.Errors{{Field: "folder", Message: invalidFolderMessage}}.Err()
	}
	return folder, nil
}

// baseName strips any client-supplied path, whichever separator it uses.
func baseName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "." || name == ".." {
		return ""
	}
	return name
}
