// Package export writes a composed report canvas to SVG, HTML and PNG.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/alexanderramin/weekplot/internal/layout"
	"github.com/alexanderramin/weekplot/internal/render"
	"golang.org/x/sync/errgroup"
)

// ExportError reports a failure to produce one output file.
type ExportError struct {
	Format domain.Format
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s to %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Artifact is one written output file.
type Artifact struct {
	Format domain.Format
	Path   string
	Bytes  int
}

// Exporter writes canvases to disk. The zero value uses the native PNG
// backend.
type Exporter struct {
	Raster Rasterizer
	// Title is used as the HTML document title.
	Title string
}

// NewExporter returns an exporter using raster for PNG output.
func NewExporter(raster Rasterizer) *Exporter {
	return &Exporter{Raster: raster}
}

// Export renders the canvas once and writes every requested format into dir
// as name.<format>. Formats are encoded concurrently from the same scene.
// Artifacts are returned in the order of formats.
func (x *Exporter) Export(ctx context.Context, c *layout.Canvas, name, dir string, formats []domain.Format, opts ...render.Option) ([]Artifact, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	scene := render.Build(c, opts...)

	artifacts := make([]Artifact, len(formats))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range formats {
		path := filepath.Join(dir, name+"."+string(f))
		g.Go(func() error {
			data, err := x.encode(gctx, scene, f)
			if err == nil {
				err = writeFile(path, data)
			}
			if err != nil {
				return &ExportError{Format: f, Path: path, Err: err}
			}
			artifacts[i] = Artifact{Format: f, Path: path, Bytes: len(data)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func (x *Exporter) encode(ctx context.Context, scene render.Scene, f domain.Format) ([]byte, error) {
	switch f {
	case domain.FormatSVG:
		return SVG(scene), nil
	case domain.FormatHTML:
		title := x.Title
		if title == "" {
			title = "Weekly schedule"
		}
		return HTML(scene, title)
	case domain.FormatPNG:
		raster := x.Raster
		if raster == nil {
			raster = &NativeRasterizer{}
		}
		return raster.Rasterize(ctx, scene)
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}

// writeFile writes through a temporary file in the same directory so a
// failed export never leaves a truncated file behind.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
