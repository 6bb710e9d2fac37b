package form

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"golang.org/x/image/draw"

	"github.com/eringen/postadmin/client"
)

const (
	maxPreviewWidth = 480
	previewQuality  = 80
	maxStagedSize   = 10 << 20 // 10MB
)

// StageFile stages an image file as the post's new featured image. The raw
// bytes are held for the eventual submit; a JPEG preview data URL is
// produced asynchronously and appears in later Snapshots once the read
// completes. Staging again, or switching the form's subject, cancels a read
// still in flight.
func (f *Form) StageFile(name, mime string, r io.Reader) error {
	if !strings.HasPrefix(mime, "image/") {
		return fmt.Errorf("postadmin: %s is not an image (%s)", name, mime)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxStagedSize+1))
	if err != nil {
		return fmt.Errorf("postadmin: read staged file: %w", err)
	}
	if len(data) > maxStagedSize {
		return fmt.Errorf("postadmin: staged file too large (max 10MB)")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelRead != nil {
		f.cancelRead()
	}
	f.readGen++
	f.staged = &client.Upload{Filename: name, MIME: mime, Data: data}
	f.preview = ""
	// Staging a file satisfies the featured-image rule, so the field no
	// longer counts as in error.
	delete(f.errors, "featuredImage")

	ctx, cancel := context.WithCancel(context.Background())
	f.cancelRead = cancel
	done := make(chan struct{})
	f.readDone = done
	go f.readPreview(ctx, f.readGen, data, done)
	return nil
}

// DropFile is the drag-and-drop entry point. Non-image drops are ignored
// without an error.
func (f *Form) DropFile(name, mime string, r io.Reader) {
	if !strings.HasPrefix(mime, "image/") {
		return
	}
	_ = f.StageFile(name, mime, r)
}

func (f *Form) readPreview(ctx context.Context, gen int, data []byte, done chan struct{}) {
	defer close(done)
	preview, err := renderPreview(ctx, data)
	if err != nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	// A newer stage or a subject switch owns the form now; drop the result.
	if gen != f.readGen || ctx.Err() != nil {
		return
	}
	f.preview = preview
}

// renderPreview decodes the staged bytes, scales them down to the preview
// width, and encodes a JPEG data URL.
func renderPreview(ctx context.Context, data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("postadmin: decode staged image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxPreviewWidth {
		newH := h * maxPreviewWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxPreviewWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: previewQuality}); err != nil {
		return "", fmt.Errorf("postadmin: encode preview: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
