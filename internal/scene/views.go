package scene

// Snapshot returns a copy of the complete store state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	draft := s.draft
	draft.Channels = cloneChannels(s.draft.Channels)
	return Snapshot{
		Groups:           cloneGroups(s.groups),
		Scope:            s.scope,
		MasterBrightness: s.masterBrightness,
		Color:            s.color.Hex(),
		RGB:              s.color,
		Presets:          append([]Preset{}, s.presets...),
		Draft:            draft,
	}
}

// Groups returns a copy of the groups in order.
func (s *Store) Groups() []Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneGroups(s.groups)
}

// Payload returns what SendScene would hand to the sink.
func (s *Store) Payload() Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Payload{
		MasterBrightness: s.masterBrightness,
		Groups:           cloneGroups(s.groups),
	}
}

// AllLights flattens every light in group order, tagged with its group id.
func (s *Store) AllLights() []LightRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	refs := make([]LightRef, 0, countLights(s.groups))
	for _, g := range s.groups {
		for _, l := range g.Lights {
			refs = append(refs, LightRef{Light: cloneLight(l), GroupID: g.ID})
		}
	}
	return refs
}

// GroupChannelNames returns the distinct channel names used by the group's
// lights in first-seen order. Unknown groups yield an empty list.
func (s *Store) GroupChannelNames(groupID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := []string{}
	idx := s.groupIndex(groupID)
	if idx < 0 {
		return names
	}
	seen := make(map[string]bool)
	for _, l := range s.groups[idx].Lights {
		for _, ch := range l.Channels {
			if !seen[ch.Name] {
				seen[ch.Name] = true
				names = append(names, ch.Name)
			}
		}
	}
	return names
}

func (s *Store) Scope() Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

func (s *Store) Color() RGB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.color
}

func (s *Store) MasterBrightness() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.masterBrightness
}

func (s *Store) Presets() []Preset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Preset{}, s.presets...)
}

func (s *Store) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draft
	d.Channels = cloneChannels(s.draft.Channels)
	return d
}
