// Package export provides scene backup functionality.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bbernstein/lacylights-console/internal/scene"
)

const (
	// FormatVersion is the version written into every export.
	FormatVersion = "1.0"
	// LegacyVersion marks a bare group array read by ParseExportedScene.
	LegacyVersion = "0"
)

// ExportedScene represents a full scene export.
type ExportedScene struct {
	Version          string          `json:"version"`
	Metadata         *ExportMetadata `json:"metadata,omitempty"`
	MasterBrightness int             `json:"masterBrightness"`
	Groups           []scene.Group   `json:"groups"`
	ChannelNames     []string        `json:"channelNames,omitempty"`
	Presets          []scene.Preset  `json:"presets,omitempty"`
}

// ExportMetadata contains export metadata.
type ExportMetadata struct {
	ExportedAt     string  `json:"exportedAt"`
	ConsoleVersion string  `json:"consoleVersion"`
	Description    *string `json:"description,omitempty"`
}

// ExportStats contains statistics about an export.
type ExportStats struct {
	GroupsCount       int
	LightsCount       int
	ChannelsCount     int
	PresetsCount      int
	ChannelNamesCount int
}

// Service handles scene export operations.
type Service struct {
	store   *scene.Store
	version string
}

// NewService creates a new export service.
func NewService(store *scene.Store, version string) *Service {
	return &Service{store: store, version: version}
}

// ExportScene captures the current scene.
func (s *Service) ExportScene(ctx context.Context, description *string) (*ExportedScene, *ExportStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	snap := s.store.Snapshot()
	exported := &ExportedScene{
		Version: FormatVersion,
		Metadata: &ExportMetadata{
			ExportedAt:     time.Now().UTC().Format(time.RFC3339),
			ConsoleVersion: s.version,
			Description:    description,
		},
		MasterBrightness: snap.MasterBrightness,
		Groups:           snap.Groups,
		ChannelNames:     s.store.ChannelNames(),
		Presets:          snap.Presets,
	}

	stats := &ExportStats{
		GroupsCount:       len(exported.Groups),
		PresetsCount:      len(exported.Presets),
		ChannelNamesCount: len(exported.ChannelNames),
	}
	for _, g := range exported.Groups {
		stats.LightsCount += len(g.Lights)
		for _, l := range g.Lights {
			stats.ChannelsCount += len(l.Channels)
		}
	}

	log.Printf("💾 Exported scene: %d groups, %d lights", stats.GroupsCount, stats.LightsCount)
	return exported, stats, nil
}

// ToJSON converts the export to JSON string.
func (e *ExportedScene) ToJSON() (string, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseExportedScene parses an export. A bare array of groups, which is
// how the scene record itself is stored, is accepted as a legacy export.
func ParseExportedScene(jsonContent string) (*ExportedScene, error) {
	trimmed := strings.TrimSpace(jsonContent)
	if strings.HasPrefix(trimmed, "[") {
		var groups []scene.Group
		if err := json.Unmarshal([]byte(trimmed), &groups); err != nil {
			return nil, fmt.Errorf("failed to parse legacy scene: %w", err)
		}
		return &ExportedScene{Version: LegacyVersion, Groups: groups}, nil
	}

	var exported ExportedScene
	if err := json.Unmarshal([]byte(trimmed), &exported); err != nil {
		return nil, fmt.Errorf("failed to parse scene export: %w", err)
	}
	if exported.Version == "" {
		return nil, fmt.Errorf("scene export has no version")
	}
	if exported.Groups == nil {
		return nil, fmt.Errorf("scene export has no groups")
	}
	return &exported, nil
}
