package pipeline

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/xyplot/pkg/errors"
	"github.com/matzehuels/xyplot/pkg/template"
)

// PageOutput is one composed page handed to a sink.
type PageOutput struct {
	Image      image.Image
	Page       int // 1-based
	TotalPages int
	Format     string
}

// PageSink receives composed pages in completion order.
type PageSink interface {
	WritePage(ctx context.Context, out PageOutput) error
}

// SinkFunc adapts a function to PageSink.
type SinkFunc func(ctx context.Context, out PageOutput) error

// WritePage calls f.
func (f SinkFunc) WritePage(ctx context.Context, out PageOutput) error { return f(ctx, out) }

// DirSink saves pages as files in a directory.
type DirSink struct {
	// Dir is created on first write.
	Dir string

	// Filename may use {current_page} and {total_pages}. Empty means
	// DefaultFilename. The extension is adjusted to the page format.
	Filename string

	// Written lists the saved paths in order.
	Written []string
}

// filenameVars are the variables a DirSink filename may use.
var filenameVars = map[string]bool{"current_page": true, "total_pages": true}

// WritePage saves out under Dir.
func (s *DirSink) WritePage(ctx context.Context, out PageOutput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := s.filename(out)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create output dir %s", s.Dir)
	}
	path := filepath.Join(s.Dir, name)
	if err := imaging.Save(out.Image, path, imaging.JPEGQuality(jpegQuality)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save %s", path)
	}
	s.Written = append(s.Written, path)
	return nil
}

// filename expands the filename template for one page.
func (s *DirSink) filename(out PageOutput) (string, error) {
	tmpl := s.Filename
	if tmpl == "" {
		tmpl = DefaultFilename
	}
	for _, name := range template.Names(tmpl) {
		if !filenameVars[name] {
			return "", errors.New(errors.ErrCodeInvalidPath, "unknown variable %q in filename %q", name, tmpl)
		}
	}
	name := template.Apply(tmpl, map[string]string{
		"current_page": strconv.Itoa(out.Page),
		"total_pages":  strconv.Itoa(out.TotalPages),
	})

	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".png", ".jpg", ".jpeg":
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	name += Extension(out.Format)

	if err := errors.ValidateFilename(name); err != nil {
		return "", err
	}
	return name, nil
}
