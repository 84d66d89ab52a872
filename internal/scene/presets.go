package scene

import (
	"fmt"
	"log"
)

// SavePreset stores the current color as a new static preset.
func (s *Store) SavePreset() Preset {
	var saved Preset
	s.apply(func() []EventKind {
		saved = Preset{
			ID:    nextPresetID(s.presets),
			Name:  fmt.Sprintf("Preset %d", len(s.presets)+1),
			Type:  PresetStatic,
			Color: s.color.Hex(),
		}
		s.presets = append(s.presets, saved)
		return []EventKind{EventPresets}
	})
	return saved
}

// DeletePreset removes a preset by id.
func (s *Store) DeletePreset(id string) {
	s.apply(func() []EventKind {
		for i, p := range s.presets {
			if p.ID == id {
				s.presets = append(s.presets[:i:i], s.presets[i+1:]...)
				return []EventKind{EventPresets}
			}
		}
		return nil
	})
}

// ApplyPreset applies a preset by id and reports whether it exists.
// A static preset writes its color to every light regardless of scope.
// Effect presets are not implemented and only log.
func (s *Store) ApplyPreset(id string) bool {
	found := false
	s.apply(func() []EventKind {
		var preset *Preset
		for i := range s.presets {
			if s.presets[i].ID == id {
				preset = &s.presets[i]
				break
			}
		}
		if preset == nil {
			return nil
		}
		found = true

		if preset.Type != PresetStatic {
			log.Printf("✨ Start effect: %s", preset.Name)
			return nil
		}
		c := ParseHex(preset.Color)
		s.color = c
		s.forEachLight(func(l *Light) { setLightRGB(l, c) })
		return []EventKind{EventColor, EventGroups}
	})
	return found
}

// ImportPresets loads presets from a backup. With replace the current list
// is swapped out; otherwise the presets are appended. Entries without a
// known type are skipped and ids are reassigned where they clash. It
// returns the number of presets added.
func (s *Store) ImportPresets(presets []Preset, replace bool) int {
	added := 0
	s.apply(func() []EventKind {
		var list []Preset
		if !replace {
			list = append(list, s.presets...)
		}
		seen := make(map[string]bool)
		for _, p := range list {
			seen[p.ID] = true
		}
		for _, p := range presets {
			if p.Type != PresetStatic && p.Type != PresetEffect {
				continue
			}
			if p.Type == PresetStatic {
				p.Color = ParseHex(p.Color).Hex()
			}
			if p.ID == "" || seen[p.ID] {
				p.ID = nextPresetID(list)
			}
			if p.Name == "" {
				p.Name = fmt.Sprintf("Preset %d", len(list)+1)
			}
			seen[p.ID] = true
			list = append(list, p)
			added++
		}
		if replace && len(list) == 0 {
			return nil
		}
		s.presets = list
		return []EventKind{EventPresets}
	})
	return added
}
