package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHex(t *testing.T) {
	cases := []struct {
		in   string
		want RGB
	}{
		{"#336699", RGB{0x33, 0x66, 0x99}},
		{"#FFFFFF", RGB{255, 255, 255}},
		{"#fff", RGB{255, 255, 255}},
		{" #000000 ", RGB{}},
		{"#12zz56", RGB{R: 0x12, B: 0x56}},
		{"", RGB{}},
		{"#ab", RGB{R: 0xab}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseHex(tc.in), "ParseHex(%q)", tc.in)
	}
}

func TestRGBHex(t *testing.T) {
	assert.Equal(t, "#336699", RGB{0x33, 0x66, 0x99}.Hex())
	assert.Equal(t, "#000000", RGB{}.Hex())
	assert.Equal(t, "#ffffff", RGB{255, 255, 255}.Hex())

	for v := 0; v < 256; v += 17 {
		c := RGB{uint8(v), uint8(255 - v), uint8(v / 2)}
		assert.Equal(t, c, ParseHex(c.Hex()))
	}
}

func TestChannelRGB_FirstMatchWins(t *testing.T) {
	l := Light{Channels: []Channel{
		{Name: ChannelRed, Value: 10},
		{Name: ChannelRed, Value: 99},
		{Name: ChannelBlue, Value: 30},
	}}

	assert.Equal(t, RGB{R: 10, B: 30}, ChannelRGB(l))
}

func TestSetLightRGB(t *testing.T) {
	l := Light{Channels: []Channel{
		{Name: ChannelIntensity, Value: 255},
		{Name: ChannelGreen, Value: 1},
	}}

	setLightRGB(&l, RGB{1, 2, 3})

	assert.Equal(t, []Channel{{Name: ChannelIntensity, Value: 255}, {Name: ChannelGreen, Value: 2}}, l.Channels)
}
