package scene

import "fmt"

// OpenDraft resets the creation draft and opens it for groupID, or for
// the first group when groupID is empty.
func (s *Store) OpenDraft(groupID string) {
	s.apply(func() []EventKind {
		s.openDraftLocked(groupID)
		return []EventKind{EventDraft}
	})
}

func (s *Store) openDraftLocked(groupID string) {
	if groupID == "" && len(s.groups) > 0 {
		groupID = s.groups[0].ID
	}
	n := 1
	if idx := s.groupIndex(groupID); idx >= 0 {
		n = nextLightNumber(&s.groups[idx])
	}
	s.draft = Draft{
		Open:       true,
		GroupID:    groupID,
		Name:       defaultLightName(n),
		DMXAddress: MinDMXAddress,
		Channels:   defaultDraftChannels(),
	}
}

// UpdateDraft applies patch to the draft. Channel values are clamped;
// the address is clamped when the draft is confirmed.
func (s *Store) UpdateDraft(patch DraftPatch) {
	s.apply(func() []EventKind {
		if patch.GroupID != nil {
			s.draft.GroupID = *patch.GroupID
		}
		if patch.Name != nil {
			s.draft.Name = *patch.Name
		}
		if patch.DMXAddress != nil {
			s.draft.DMXAddress = *patch.DMXAddress
		}
		if patch.Channels != nil {
			channels := cloneChannels(patch.Channels)
			for i := range channels {
				channels[i].Value = clampValue(channels[i].Value)
			}
			s.draft.Channels = channels
		}
		return []EventKind{EventDraft}
	})
}

// AddDraftChannel appends "Channel N" (value 0) to the draft.
func (s *Store) AddDraftChannel() {
	s.apply(func() []EventKind {
		name := fmt.Sprintf("Channel %d", len(s.draft.Channels)+1)
		s.draft.Channels = append(s.draft.Channels, Channel{Name: name})
		return []EventKind{EventDraft}
	})
}

// RemoveDraftChannel drops the draft channel at index.
func (s *Store) RemoveDraftChannel(index int) {
	s.apply(func() []EventKind {
		if index < 0 || index >= len(s.draft.Channels) {
			return nil
		}
		channels := make([]Channel, 0, len(s.draft.Channels)-1)
		channels = append(channels, s.draft.Channels[:index]...)
		channels = append(channels, s.draft.Channels[index+1:]...)
		s.draft.Channels = channels
		return []EventKind{EventDraft}
	})
}

// closedDraft is the draft state outside the creation dialog.
func closedDraft() Draft {
	return Draft{DMXAddress: MinDMXAddress, Channels: defaultDraftChannels()}
}

// CancelDraft discards the draft.
func (s *Store) CancelDraft() {
	s.apply(func() []EventKind {
		s.draft = closedDraft()
		return []EventKind{EventDraft}
	})
}

// ConfirmDraft commits the open draft as a new light, registers its channel
// names and discards the draft. It reports false when no draft is open or
// there is no group to add to.
func (s *Store) ConfirmDraft() (Light, bool) {
	var (
		created Light
		ok      bool
	)
	s.apply(func() []EventKind {
		if !s.draft.Open {
			return nil
		}
		created, ok = s.createLightLocked(s.draft)
		s.draft = closedDraft()
		kinds := []EventKind{EventDraft}
		if !ok {
			return kinds
		}
		kinds = append(kinds, EventGroups)
		added := false
		for _, ch := range created.Channels {
			if s.addChannelNameLocked(ch.Name) {
				added = true
			}
		}
		if added {
			s.persistChannelNamesLocked()
			kinds = append(kinds, EventChannelNames)
		}
		return kinds
	})
	return created, ok
}
