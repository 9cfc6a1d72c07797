package writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/vk/synthgrid/internal/render"
)

// cborFrame is the on-disk annotation record for one frame. Pixel data is
// stored as raw bytes alongside the resolution so a reader can reconstruct
// the images without a codec.
type cborFrame struct {
	Index     int            `cbor:"index"`
	Width     int            `cbor:"width"`
	Height    int            `cbor:"height"`
	Image     []byte         `cbor:"image"`
	Mask      []byte         `cbor:"mask"`
	Instances []cborInstance `cbor:"instances"`
}

type cborInstance struct {
	ID    int    `cbor:"id"`
	Label string `cbor:"label"`
	X1    int    `cbor:"x1"`
	Y1    int    `cbor:"y1"`
	X2    int    `cbor:"x2"`
	Y2    int    `cbor:"y2"`
}

// CBOR writes one self-contained CBOR document per frame. It is the
// compact alternative to the KITTI layout for pipelines that consume the
// dataset programmatically.
type CBOR struct {
	mu        sync.Mutex
	outputDir string
	opts      Options
	encMode   cbor.EncMode
	written   map[int]struct{}
}

// NewCBOR creates an uninitialized CBOR writer.
func NewCBOR() *CBOR {
	return &CBOR{written: make(map[int]struct{})}
}

// Initialize creates the output directory and the deterministic encoder.
func (w *CBOR) Initialize(outputDir string, opts Options) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return fmt.Errorf("failed to configure cbor encoder: %w", err)
	}
	w.outputDir = outputDir
	w.opts = opts
	w.encMode = encMode
	return nil
}

// Attach registers a render product.
func (w *CBOR) Attach(p *render.Product) error {
	if w.outputDir == "" {
		return fmt.Errorf("cbor writer is not initialized")
	}
	return nil
}

// Write persists one record as frame_%06d.cbor.
func (w *CBOR) Write(ctx context.Context, rec *render.Record) error {
	if w.outputDir == "" {
		return fmt.Errorf("cbor writer is not initialized")
	}

	w.mu.Lock()
	if _, dup := w.written[rec.Index]; dup {
		w.mu.Unlock()
		return fmt.Errorf("frame %d was already written", rec.Index)
	}
	w.written[rec.Index] = struct{}{}
	w.mu.Unlock()

	frame := cborFrame{
		Index:  rec.Index,
		Width:  rec.Product.Width(),
		Height: rec.Product.Height(),
		Image:  rec.Image.Pix,
		Mask:   rec.Mask.Pix,
	}
	for _, inst := range rec.Instances {
		label := inst.Label
		if !w.opts.OmitSemanticType {
			label = "class:" + label
		}
		frame.Instances = append(frame.Instances, cborInstance{
			ID:    inst.ID,
			Label: label,
			X1:    inst.BBox.Min.X,
			Y1:    inst.BBox.Min.Y,
			X2:    inst.BBox.Max.X,
			Y2:    inst.BBox.Max.Y,
		})
	}

	data, err := w.encMode.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to encode frame %d: %w", rec.Index, err)
	}
	path := filepath.Join(w.outputDir, fmt.Sprintf("frame_%06d.cbor", rec.Index))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write frame %d: %w", rec.Index, err)
	}
	return nil
}

// Close finalizes the writer.
func (w *CBOR) Close() error { return nil }
