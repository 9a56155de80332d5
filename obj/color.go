package obj

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/mjkkirschner/strutmesh"
)

// ColorID is the material name used for c: its 8-bit RGB as lowercase hex.
// Alpha is ignored.
func ColorID(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("%02x%02x%02x", r>>8, g>>8, b>>8)
}

// ParseColor reads "rrggbb" or "#rrggbb".
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: color %q is not rrggbb", strutmesh.ErrInvalidArgument, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: color %q: %v", strutmesh.ErrInvalidArgument, s, err)
	}

	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
