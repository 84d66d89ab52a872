package artnet

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestBuildDMXPacket(t *testing.T) {
	tests := []struct {
		name         string
		universe     int
		wantUniverse uint16
	}{
		{name: "Universe 1", universe: 1, wantUniverse: 0},
		{name: "Universe 4", universe: 4, wantUniverse: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packet := BuildDMXPacket(tt.universe, make([]byte, 512), 123)

			if len(packet) != PacketSize {
				t.Fatalf("packet size = %d, want %d", len(packet), PacketSize)
			}
			if got := string(packet[0:8]); got != "Art-Net\x00" {
				t.Errorf("ID = %q", got)
			}
			if got := binary.LittleEndian.Uint16(packet[8:10]); got != OpCodeDMX {
				t.Errorf("OpCode = 0x%04x, want 0x%04x", got, OpCodeDMX)
			}
			if got := binary.BigEndian.Uint16(packet[10:12]); got != ProtocolVersion {
				t.Errorf("version = %d, want %d", got, ProtocolVersion)
			}
			if packet[12] != 123 {
				t.Errorf("sequence = %d, want 123", packet[12])
			}
			if got := binary.LittleEndian.Uint16(packet[14:16]); got != tt.wantUniverse {
				t.Errorf("universe = %d, want %d", got, tt.wantUniverse)
			}
			if got := binary.BigEndian.Uint16(packet[16:18]); got != DMXDataLength {
				t.Errorf("length = %d, want %d", got, DMXDataLength)
			}
		})
	}
}

func TestBuildDMXPacket_PadsAndTruncates(t *testing.T) {
	short := BuildDMXPacket(1, []byte{10, 20, 30}, 0)
	if short[18] != 10 || short[19] != 20 || short[20] != 30 || short[21] != 0 {
		t.Errorf("short payload not copied and padded: %v", short[18:22])
	}

	long := make([]byte, 600)
	for i := range long {
		long[i] = byte(i % 256)
	}
	packet := BuildDMXPacket(1, long, 0)
	if len(packet) != PacketSize {
		t.Errorf("packet size = %d, want %d", len(packet), PacketSize)
	}
	if packet[PacketSize-1] != byte(511%256) {
		t.Errorf("last channel = %d, want %d", packet[PacketSize-1], 511%256)
	}
}

func TestBuildDMXPacket_InvalidUniverse(t *testing.T) {
	if packet := BuildDMXPacket(0, nil, 0); packet != nil {
		t.Errorf("expected nil packet for universe 0, got %d bytes", len(packet))
	}
}

func TestParseDMXPacket_RoundTrip(t *testing.T) {
	in := DMXPacket{Sequence: 7, Physical: 1, Universe: 3}
	in.Data[0] = 255
	in.Data[511] = 42

	b, err := in.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	out, err := ParseDMXPacket(b)
	if err != nil {
		t.Fatalf("ParseDMXPacket() error = %v", err)
	}
	if *out != in {
		t.Errorf("round trip mismatch: got %+v", *out)
	}
}

func TestParseDMXPacket_Errors(t *testing.T) {
	valid := BuildDMXPacket(1, nil, 0)

	notArtNet := append([]byte(nil), valid...)
	notArtNet[0] = 'X'

	poll := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint16(poll[8:10], 0x2000)

	tests := []struct {
		name string
		in   []byte
		want error
	}{
		{"empty", nil, ErrShortPacket},
		{"truncated header", valid[:10], ErrShortPacket},
		{"truncated data", valid[:100], ErrShortPacket},
		{"wrong id", notArtNet, ErrNotArtNet},
		{"wrong opcode", poll, ErrNotDMXPacket},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDMXPacket(tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}
