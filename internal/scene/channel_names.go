package scene

import (
	"context"
	"encoding/json"
	"log"
	"strings"
)

// DefaultChannelNames seeds the channel name list when storage has none.
var DefaultChannelNames = []string{ChannelIntensity, ChannelRed, ChannelGreen, ChannelBlue, ChannelPan}

// ChannelNames returns the known channel names in insertion order.
func (s *Store) ChannelNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.channelNames...)
}

// AddChannelName registers a channel name and reports whether it was new.
// Names are trimmed; blank and already known names are ignored.
func (s *Store) AddChannelName(name string) bool {
	added := false
	s.apply(func() []EventKind {
		if !s.addChannelNameLocked(name) {
			return nil
		}
		added = true
		s.persistChannelNamesLocked()
		return []EventKind{EventChannelNames}
	})
	return added
}

func (s *Store) addChannelNameLocked(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	for _, n := range s.channelNames {
		if n == name {
			return false
		}
	}
	s.channelNames = append(s.channelNames, name)
	return true
}

func (s *Store) persistChannelNamesLocked() {
	if s.storage == nil {
		return
	}
	data, err := json.Marshal(s.channelNames)
	if err != nil {
		log.Printf("⚠️  Failed to encode channel names: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()
	if err := s.storage.Set(ctx, s.channelNamesKey, string(data)); err != nil {
		log.Printf("⚠️  Failed to persist channel names: %v", err)
	}
}

func (s *Store) loadChannelNames(ctx context.Context) []string {
	defaults := append([]string{}, DefaultChannelNames...)
	if s.storage == nil {
		return defaults
	}
	raw, ok, err := s.storage.Get(ctx, s.channelNamesKey)
	if err != nil {
		log.Printf("⚠️  Failed to read channel names, using defaults: %v", err)
		return defaults
	}
	if !ok {
		return defaults
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil || names == nil {
		log.Printf("⚠️  Stored channel names are malformed, using defaults")
		return defaults
	}
	return names
}
