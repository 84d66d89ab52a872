package scene

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// ParseHex decodes #rrggbb (or the #rgb shorthand).
// Anything it cannot read is decoded per component, with unreadable
// components reading as 0.
func ParseHex(hex string) RGB {
	if c, err := colorful.Hex(strings.TrimSpace(hex)); err == nil {
		r, g, b := c.RGB255()
		return RGB{R: r, G: g, B: b}
	}

	digits := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	return RGB{
		R: hexComponent(digits, 0),
		G: hexComponent(digits, 2),
		B: hexComponent(digits, 4),
	}
}

func hexComponent(digits string, offset int) uint8 {
	if offset >= len(digits) {
		return 0
	}
	end := offset + 2
	if end > len(digits) {
		end = len(digits)
	}
	v, err := strconv.ParseUint(digits[offset:end], 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

// ChannelRGB reads the Red/Green/Blue channels of a light; missing
// channels read as 0.
func ChannelRGB(l Light) RGB {
	return RGB{
		R: uint8(clampValue(channelValue(l, ChannelRed))),
		G: uint8(clampValue(channelValue(l, ChannelGreen))),
		B: uint8(clampValue(channelValue(l, ChannelBlue))),
	}
}

// channelValue returns the first channel with the given name, or 0.
func channelValue(l Light, name string) int {
	for _, ch := range l.Channels {
		if ch.Name == name {
			return ch.Value
		}
	}
	return 0
}

// setLightRGB writes c into whichever of Red/Green/Blue the light has.
func setLightRGB(l *Light, c RGB) {
	for i := range l.Channels {
		switch l.Channels[i].Name {
		case ChannelRed:
			l.Channels[i].Value = int(c.R)
		case ChannelGreen:
			l.Channels[i].Value = int(c.G)
		case ChannelBlue:
			l.Channels[i].Value = int(c.B)
		}
	}
}
