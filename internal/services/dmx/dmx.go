// Package dmx renders the scene into a DMX universe and delivers it to
// the configured output.
package dmx

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"sync"

	"github.com/bbernstein/lacylights-console/internal/scene"
	"github.com/bbernstein/lacylights-console/pkg/artnet"
)

// UniverseSize is the number of channels per DMX universe.
const UniverseSize = 512

// ErrNotInitialized is returned when sending before Initialize.
var ErrNotInitialized = errors.New("dmx: output not initialized")

// RenderUniverse lays the scene out as one universe. Channel i of a light
// lands on address dmxAddress+i. Lights that are off are skipped, so their
// slots stay zero unless a light that is on shares them. Channels past 512
// are dropped. Later lights win where lights that are on overlap.
func RenderUniverse(payload scene.Payload) []byte {
	universe := make([]byte, UniverseSize)
	for _, g := range payload.Groups {
		for _, l := range g.Lights {
			if !l.On || l.DMXAddress < 1 {
				continue
			}
			for i, ch := range l.Channels {
				slot := l.DMXAddress - 1 + i
				if slot >= UniverseSize {
					break
				}
				universe[slot] = byte(clamp(ch.Value))
			}
		}
	}
	return universe
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func countActiveChannels(universe []byte) int {
	n := 0
	for _, v := range universe {
		if v > 0 {
			n++
		}
	}
	return n
}

// LogSink renders the scene and logs a summary instead of transmitting.
type LogSink struct{}

// Send implements scene.Sink.
func (LogSink) Send(_ context.Context, payload scene.Payload) error {
	universe := RenderUniverse(payload)
	log.Printf("📡 DMX output (simulation mode): master %d%%, %d active channels",
		payload.MasterBrightness, countActiveChannels(universe))
	return nil
}

// Config holds Art-Net output configuration.
type Config struct {
	BroadcastAddr string
	Port          int
	Universe      int
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() Config {
	return Config{
		BroadcastAddr: "255.255.255.255",
		Port:          artnet.DefaultPort,
		Universe:      1,
	}
}

// ArtNetSink sends one ArtDmx packet per Send. It does not refresh the
// universe between sends.
type ArtNetSink struct {
	mu sync.Mutex

	broadcastAddr string
	port          int
	universe      int

	// Art-Net sequence number (increments for each packet, wraps at 255)
	sequence byte
	last     []byte

	conn *net.UDPConn
}

// NewArtNetSink creates an Art-Net sink. Zero config fields take defaults.
func NewArtNetSink(cfg Config) *ArtNetSink {
	def := DefaultConfig()
	if cfg.BroadcastAddr == "" {
		cfg.BroadcastAddr = def.BroadcastAddr
	}
	if cfg.Port <= 0 {
		cfg.Port = def.Port
	}
	if cfg.Universe <= 0 {
		cfg.Universe = def.Universe
	}
	return &ArtNetSink{
		broadcastAddr: cfg.BroadcastAddr,
		port:          cfg.Port,
		universe:      cfg.Universe,
		last:          make([]byte, UniverseSize),
	}
}

// Initialize opens the UDP socket.
func (s *ArtNetSink) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return nil
	}

	addr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(s.broadcastAddr, strconv.Itoa(s.port)))
	if err != nil {
		return fmt.Errorf("failed to resolve Art-Net address: %w", err)
	}
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return fmt.Errorf("failed to open Art-Net socket: %w", err)
	}
	s.conn = conn

	log.Printf("📡 Art-Net output enabled, broadcasting universe %d to %s:%d", s.universe, s.broadcastAddr, s.port)
	return nil
}

// Send renders the scene and transmits it as one packet.
func (s *ArtNetSink) Send(ctx context.Context, payload scene.Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	universe := RenderUniverse(payload)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return ErrNotInitialized
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = s.conn.SetWriteDeadline(deadline)
	}
	s.sequence++
	packet := artnet.BuildDMXPacket(s.universe, universe, s.sequence)
	if _, err := s.conn.Write(packet); err != nil {
		return fmt.Errorf("failed to send Art-Net packet: %w", err)
	}
	s.last = universe
	return nil
}

// LastFrame returns a copy of the most recently transmitted universe.
func (s *ArtNetSink) LastFrame() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.last...)
}

// GetBroadcastAddress returns the configured destination.
func (s *ArtNetSink) GetBroadcastAddress() string {
	return s.broadcastAddr
}

// IsActive reports whether the socket is open.
func (s *ArtNetSink) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Stop sends a final blackout packet and closes the socket.
func (s *ArtNetSink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return
	}

	s.sequence++
	_, _ = s.conn.Write(artnet.BuildDMXPacket(s.universe, make([]byte, UniverseSize), s.sequence))
	_ = s.conn.Close()
	s.conn = nil
	s.last = make([]byte, UniverseSize)

	log.Printf("🎭 Art-Net output stopped")
}
