package writer

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vk/synthgrid/internal/ctxlog"
	"github.com/vk/synthgrid/internal/render"
)

const (
	kittiImagesDir   = "images"
	kittiLabelsDir   = "labels"
	kittiSemanticDir = "semantic"
)

// Kitti writes records in the KITTI object-detection layout: an RGB image,
// a text label file with 2D bounding boxes, and a 16-bit instance mask per
// frame, each named by zero-padded frame index.
type Kitti struct {
	mu        sync.Mutex
	outputDir string
	opts      Options
	written   map[int]struct{}
}

// NewKitti creates an uninitialized KITTI writer.
func NewKitti() *Kitti {
	return &Kitti{written: make(map[int]struct{})}
}

// Initialize creates the output directory layout.
func (w *Kitti) Initialize(outputDir string, opts Options) error {
	for _, sub := range []string{kittiImagesDir, kittiLabelsDir, kittiSemanticDir} {
		if err := os.MkdirAll(filepath.Join(outputDir, sub), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	w.outputDir = outputDir
	w.opts = opts
	return nil
}

// Attach registers a render product. The KITTI layout is per-frame, so
// nothing product-specific needs preparing.
func (w *Kitti) Attach(p *render.Product) error {
	if w.outputDir == "" {
		return fmt.Errorf("kitti writer is not initialized")
	}
	return nil
}

// Write persists one record. Each frame index is accepted exactly once.
func (w *Kitti) Write(ctx context.Context, rec *render.Record) error {
	if w.outputDir == "" {
		return fmt.Errorf("kitti writer is not initialized")
	}

	w.mu.Lock()
	if _, dup := w.written[rec.Index]; dup {
		w.mu.Unlock()
		return fmt.Errorf("frame %d was already written", rec.Index)
	}
	w.written[rec.Index] = struct{}{}
	w.mu.Unlock()

	name := fmt.Sprintf("%06d", rec.Index)

	if err := writePNG(filepath.Join(w.outputDir, kittiImagesDir, name+".png"), rec.Image); err != nil {
		return err
	}
	if err := writePNG(filepath.Join(w.outputDir, kittiSemanticDir, name+".png"), rec.Mask); err != nil {
		return err
	}
	if err := w.writeLabels(filepath.Join(w.outputDir, kittiLabelsDir, name+".txt"), rec); err != nil {
		return err
	}

	ctxlog.FromContext(ctx).Debug("Frame written.", "index", rec.Index, "instances", len(rec.Instances))
	return nil
}

// Close finalizes the writer. The KITTI layout has no trailing index file.
func (w *Kitti) Close() error { return nil }

// writeLabels emits one KITTI object line per visible instance. Only the
// type and 2D bounding box columns carry data; the 3D columns are zeroed.
func (w *Kitti) writeLabels(path string, rec *render.Record) error {
	var sb strings.Builder
	for _, inst := range rec.Instances {
		fmt.Fprintf(&sb, "%s 0.00 0 0.00 %.2f %.2f %.2f %.2f 0.00 0.00 0.00 0.00 0.00 0.00 0.00\n",
			w.label(inst.Label),
			float64(inst.BBox.Min.X), float64(inst.BBox.Min.Y),
			float64(inst.BBox.Max.X), float64(inst.BBox.Max.Y))
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write label file: %w", err)
	}
	return nil
}

func (w *Kitti) label(class string) string {
	if w.opts.OmitSemanticType {
		return class
	}
	return "class:" + class
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode '%s': %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close '%s': %w", path, err)
	}
	return nil
}
