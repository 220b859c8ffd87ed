package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"SignPad/internal/state"

	"github.com/gen2brain/webp"
)

var ErrUnknownFormat = errors.New("export: unknown image format")

type Format int

const (
	PNG Format = iota
	JPEG
	WEBP
)

var mimeTypes = map[Format]string{
	JPEG: "image/jpeg",
	PNG:  "image/png",
	WEBP: "image/webp",
}

func (f Format) MIME() string { return mimeTypes[f] }

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case WEBP:
		return "webp"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Ext is the file extension hosts use when saving a snapshot.
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + f.String()
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "webp":
		return WEBP, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// SnapshotConfig selects what Capture encodes.
type SnapshotConfig struct {
	// Region crops the capture, in logical units. Nil captures everything.
	Region *image.Rectangle
	Format Format
	// Quality runs from 0 to 100, higher being less lossy. PNG ignores it.
	Quality int
}

func DefaultSnapshotConfig() SnapshotConfig {
	return SnapshotConfig{Format: PNG, Quality: 100}
}

// Snapshot is an encoded capture of the drawing surface. It is not kept by
// the drawing core; the caller owns it.
type Snapshot struct {
	Data   []byte `json:"-"`
	Base64 string `json:"data"`
	URI    string `json:"uri"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format Format `json:"-"`
}

// Capture renders f at RenderScale and encodes it. The second result is
// false when there is nothing to capture (zero-size surface or an empty
// crop) or the encoder fails; this is not an error for the caller.
//
// A sized surface with no strokes and no background yields a valid image
// filled with the canvas color.
func Capture(f state.Frame, cfg *SnapshotConfig) (*Snapshot, bool) {
	c := DefaultSnapshotConfig()
	if cfg != nil {
		c = *cfg
	}
	c.Quality = min(max(c.Quality, 0), 100)
	if _, ok := mimeTypes[c.Format]; !ok {
		state.Logger().Debug("export: unsupported snapshot format", "format", c.Format)
		return nil, false
	}

	full := Render(f, RenderScale)
	if full == nil {
		return nil, false
	}
	var img image.Image = full
	if c.Region != nil {
		r := image.Rect(
			c.Region.Min.X*RenderScale, c.Region.Min.Y*RenderScale,
			c.Region.Max.X*RenderScale, c.Region.Max.Y*RenderScale,
		).Intersect(full.Bounds())
		if r.Empty() {
			return nil, false
		}
		img = full.SubImage(r)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, c.Format, c.Quality); err != nil {
		state.Logger().Debug("export: encode failed", "format", c.Format, "err", err)
		return nil, false
	}

	b := img.Bounds()
	data := base64.StdEncoding.EncodeToString(buf.Bytes())
	return &Snapshot{
		Data:   buf.Bytes(),
		Base64: data,
		URI:    "data:" + c.Format.MIME() + ";base64," + data,
		// Reported size is halved for the 2x capture density. Hosts rely on
		// exactly this, so it does not follow RenderScale.
		Width:  b.Dx() / 2,
		Height: b.Dy() / 2,
		Format: c.Format,
	}, true
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, format Format, quality int) error {
	switch format {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: max(quality, 1)})
	case WEBP:
		return webp.Encode(w, img, webp.Options{Quality: quality, Lossless: quality == 100})
	}
	return fmt.Errorf("%w: %v", ErrUnknownFormat, format)
}
