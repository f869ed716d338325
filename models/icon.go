package models

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"sync"
)

// FallbackIconSymbol names the placeholder shown when icon data is missing
// or cannot be decoded.
const FallbackIconSymbol = "questionmark.diamond.fill"

// Icon describes decoded task icon data.
type Icon struct {
	Valid       bool   `json:"valid"`
	Format      string `json:"format,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Symbol      string `json:"symbol,omitempty"`
}

// DecodeIcon inspects raw icon bytes. Undecodable input yields the fallback symbol.
func DecodeIcon(data []byte) Icon {
	if len(data) == 0 {
		return Icon{Symbol: FallbackIconSymbol}
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Icon{Symbol: FallbackIconSymbol}
	}
	return Icon{
		Valid:       true,
		Format:      format,
		ContentType: http.DetectContentType(data),
		Width:       cfg.Width,
		Height:      cfg.Height,
	}
}

const badgeSize = 32

// renderBadge paints fill wherever inside reports true on a transparent
// badgeSize square.
func renderBadge(fill color.NRGBA, inside func(x, y float64) bool) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, badgeSize, badgeSize))
	for y := 0; y < badgeSize; y++ {
		for x := 0; x < badgeSize; x++ {
			if inside(float64(x), float64(y)) {
				img.Set(x, y, fill)
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

var (
	defaultIcon = sync.OnceValue(func() []byte {
		c := float64(badgeSize-1) / 2
		return renderBadge(color.NRGBA{R: 0x00, G: 0x7A, B: 0xFF, A: 0xFF}, func(x, y float64) bool {
			dx, dy := x-c, y-c
			return dx*dx+dy*dy <= c*c
		})
	})

	// An upright oval with a seam down the top half.
	mouseIcon = sync.OnceValue(func() []byte {
		cx, cy, rx, ry := float64(badgeSize-1)/2, float64(badgeSize-1)/2, 9.0, 14.0
		return renderBadge(color.NRGBA{R: 0x8E, G: 0x8E, B: 0x93, A: 0xFF}, func(x, y float64) bool {
			dx, dy := (x-cx)/rx, (y-cy)/ry
			if dx*dx+dy*dy > 1 {
				return false
			}
			return !(y < cy && x > cx-1 && x < cx+1)
		})
	})

	// A wide slab with three rows of key gaps.
	keyboardIcon = sync.OnceValue(func() []byte {
		return renderBadge(color.NRGBA{R: 0x34, G: 0xC7, B: 0x59, A: 0xFF}, func(x, y float64) bool {
			if x < 1 || x > 30 || y < 8 || y > 23 {
				return false
			}
			gapRow := int(y-8)%5 == 4
			gapCol := int(x-1)%4 == 3
			return !(gapRow || gapCol) || y < 10 || y > 21
		})
	})
)

func cloneIcon(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

// DefaultIconPNG returns the icon given to quick-added tasks: a 32x32 badge.
func DefaultIconPNG() []byte {
	return cloneIcon(defaultIcon())
}

// MouseIconPNG is the preview icon for the mouse task.
func MouseIconPNG() []byte {
	return cloneIcon(mouseIcon())
}

// KeyboardIconPNG is the preview icon for the keyboard task.
func KeyboardIconPNG() []byte {
	return cloneIcon(keyboardIcon())
}
