package api

import (
	"time"

	"github.com/bbernstein/lacylights-console/internal/scene"
	"github.com/bbernstein/lacylights-console/internal/services/pubsub"
)

// ColorPayload is published on COLOR_CHANGED.
type ColorPayload struct {
	Hex string    `json:"hex"`
	RGB scene.RGB `json:"rgb"`
}

// SentPayload is published on DMX_OUTPUT_SENT.
type SentPayload struct {
	MasterBrightness int    `json:"masterBrightness"`
	SentAt           string `json:"sentAt"`
}

// NewEventPublisher returns a store update callback that publishes each
// touched part of the state on its topic.
func NewEventPublisher(ps *pubsub.PubSub) func(scene.Event) {
	return func(e scene.Event) {
		snap := e.Snapshot
		sceneSent := false
		for _, kind := range e.Kinds {
			switch kind {
			case scene.EventGroups, scene.EventBrightness:
				if !sceneSent {
					ps.Publish(pubsub.TopicSceneUpdated, snap)
					sceneSent = true
				}
			case scene.EventScope:
				ps.Publish(pubsub.TopicSelectionChanged, snap.Scope)
			case scene.EventColor:
				ps.Publish(pubsub.TopicColorChanged, ColorPayload{Hex: snap.Color, RGB: snap.RGB})
			case scene.EventPresets:
				ps.Publish(pubsub.TopicPresetsUpdated, snap.Presets)
			case scene.EventDraft:
				ps.Publish(pubsub.TopicDraftUpdated, snap.Draft)
			case scene.EventChannelNames:
				ps.Publish(pubsub.TopicChannelNamesUpdated, e.ChannelNames)
			case scene.EventSent:
				ps.Publish(pubsub.TopicDMXOutputSent, SentPayload{
					MasterBrightness: snap.MasterBrightness,
					SentAt:           time.Now().UTC().Format(time.RFC3339),
				})
			}
		}
	}
}
