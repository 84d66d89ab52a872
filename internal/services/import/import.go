// Package importservice provides scene restore functionality.
package importservice

import (
	"context"
	"fmt"
	"log"

	"github.com/bbernstein/lacylights-console/internal/scene"
	"github.com/bbernstein/lacylights-console/internal/services/export"
)

// ImportMode determines how to handle the import.
type ImportMode string

const (
	ImportModeReplace ImportMode = "REPLACE"
	ImportModeMerge   ImportMode = "MERGE"
)

// ImportStats contains statistics about an import.
type ImportStats struct {
	GroupsImported       int `json:"groupsImported"`
	LightsImported       int `json:"lightsImported"`
	PresetsImported      int `json:"presetsImported"`
	ChannelNamesImported int `json:"channelNamesImported"`
}

// ImportOptions configures the import behavior.
type ImportOptions struct {
	Mode ImportMode
	// RestoreBrightness applies the exported master brightness, which also
	// rewrites every Intensity channel.
	RestoreBrightness bool
}

// Service handles scene import operations.
type Service struct {
	store *scene.Store
}

// NewService creates a new import service.
func NewService(store *scene.Store) *Service {
	return &Service{store: store}
}

// ImportScene restores a scene from JSON. REPLACE swaps out the groups and
// presets; MERGE appends them. Repairs made while normalizing are returned
// as warnings.
func (s *Service) ImportScene(ctx context.Context, jsonContent string, options ImportOptions) (*ImportStats, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	exported, err := export.ParseExportedScene(jsonContent)
	if err != nil {
		return nil, nil, err
	}

	mode := options.Mode
	if mode == "" {
		mode = ImportModeReplace
	}

	stats := &ImportStats{GroupsImported: len(exported.Groups)}
	for _, g := range exported.Groups {
		stats.LightsImported += len(g.Lights)
	}

	var warnings []string
	switch mode {
	case ImportModeReplace:
		warnings = s.store.ReplaceGroups(exported.Groups)
		stats.PresetsImported = s.store.ImportPresets(exported.Presets, true)
	case ImportModeMerge:
		warnings = s.store.AppendGroups(exported.Groups)
		stats.PresetsImported = s.store.ImportPresets(exported.Presets, false)
	default:
		return nil, nil, fmt.Errorf("unknown import mode %q", options.Mode)
	}

	for _, name := range exported.ChannelNames {
		if s.store.AddChannelName(name) {
			stats.ChannelNamesImported++
		}
	}

	if options.RestoreBrightness && exported.Version != export.LegacyVersion {
		s.store.SetBrightness(exported.MasterBrightness)
	}

	log.Printf("💾 Imported scene (%s): %d groups, %d lights, %d warnings",
		mode, stats.GroupsImported, stats.LightsImported, len(warnings))
	return stats, warnings, nil
}
