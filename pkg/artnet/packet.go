// Package artnet encodes and decodes Art-Net ArtDmx packets.
package artnet

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// OpCodeDMX is the Art-Net operation code for DMX data.
	OpCodeDMX uint16 = 0x5000
	// ProtocolVersion is the Art-Net protocol version.
	ProtocolVersion uint16 = 14
	// DMXDataLength is the number of DMX channels per universe.
	DMXDataLength uint16 = 512
	// HeaderSize is the ArtDmx header length.
	HeaderSize = 18
	// PacketSize is the total size of a full-universe ArtDmx packet.
	PacketSize = HeaderSize + int(DMXDataLength)
	// DefaultPort is the standard Art-Net UDP port.
	DefaultPort = 6454
)

// ArtNetID is the Art-Net packet identifier.
var ArtNetID = []byte{'A', 'r', 't', '-', 'N', 'e', 't', 0x00}

var (
	ErrShortPacket  = errors.New("artnet: packet too short")
	ErrNotArtNet    = errors.New("artnet: missing Art-Net identifier")
	ErrNotDMXPacket = errors.New("artnet: not an ArtDmx packet")
)

// DMXPacket is one ArtDmx frame. Universe is 1-based.
type DMXPacket struct {
	Sequence byte
	Physical byte
	Universe int
	Data     [DMXDataLength]byte
}

// MarshalBinary encodes the packet with a full 512-channel payload.
func (p *DMXPacket) MarshalBinary() ([]byte, error) {
	if p.Universe < 1 || p.Universe > 0x8000 {
		return nil, fmt.Errorf("artnet: universe %d out of range", p.Universe)
	}
	packet := make([]byte, PacketSize)
	copy(packet[0:8], ArtNetID)
	binary.LittleEndian.PutUint16(packet[8:10], OpCodeDMX)
	binary.BigEndian.PutUint16(packet[10:12], ProtocolVersion)
	packet[12] = p.Sequence
	packet[13] = p.Physical
	binary.LittleEndian.PutUint16(packet[14:16], uint16(p.Universe-1))
	binary.BigEndian.PutUint16(packet[16:18], DMXDataLength)
	copy(packet[HeaderSize:], p.Data[:])
	return packet, nil
}

// ParseDMXPacket decodes an ArtDmx frame. Payloads shorter than 512
// channels leave the remaining channels at zero.
func ParseDMXPacket(b []byte) (*DMXPacket, error) {
	if len(b) < HeaderSize {
		return nil, ErrShortPacket
	}
	if !bytes.Equal(b[0:8], ArtNetID) {
		return nil, ErrNotArtNet
	}
	if binary.LittleEndian.Uint16(b[8:10]) != OpCodeDMX {
		return nil, ErrNotDMXPacket
	}
	length := int(binary.BigEndian.Uint16(b[16:18]))
	if len(b) < HeaderSize+length {
		return nil, ErrShortPacket
	}
	if length > int(DMXDataLength) {
		length = int(DMXDataLength)
	}

	p := &DMXPacket{
		Sequence: b[12],
		Physical: b[13],
		Universe: int(binary.LittleEndian.Uint16(b[14:16])) + 1,
	}
	copy(p.Data[:], b[HeaderSize:HeaderSize+length])
	return p, nil
}

// BuildDMXPacket creates an ArtDmx packet for a 1-based universe.
// Channels beyond 512 are dropped and missing channels are zero.
func BuildDMXPacket(universe int, channels []byte, sequence byte) []byte {
	p := DMXPacket{Sequence: sequence, Universe: universe}
	copy(p.Data[:], channels)
	packet, err := p.MarshalBinary()
	if err != nil {
		return nil
	}
	return packet
}
