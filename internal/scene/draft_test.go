package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDraft(t *testing.T) {
	s, _ := newTestStore(t)

	s.OpenDraft("")

	d := s.Draft()
	assert.True(t, d.Open)
	assert.Equal(t, "g1", d.GroupID)
	assert.Equal(t, "Light 5", d.Name)
	assert.Equal(t, 1, d.DMXAddress)
	assert.Equal(t, defaultDraftChannels(), d.Channels)
}

func TestAddLightToScope_UsesSelectedGroup(t *testing.T) {
	s, _ := newTestStore(t)
	g2 := s.AddGroup()

	s.SelectScope(GroupScope(g2.ID))
	s.AddLightToScope()

	d := s.Draft()
	assert.True(t, d.Open)
	assert.Equal(t, g2.ID, d.GroupID)
	assert.Equal(t, "Light 1", d.Name)

	s.SelectScope(LightScope("g1-1"))
	s.AddLightToScope()
	assert.Equal(t, "g1", s.Draft().GroupID)
}

func TestDraftChannels(t *testing.T) {
	s, _ := newTestStore(t)
	s.OpenDraft("g1")

	s.AddDraftChannel()
	d := s.Draft()
	require.Len(t, d.Channels, 6)
	assert.Equal(t, Channel{Name: "Channel 6"}, d.Channels[5])

	s.RemoveDraftChannel(0)
	s.RemoveDraftChannel(42)
	d = s.Draft()
	require.Len(t, d.Channels, 5)
	assert.Equal(t, ChannelRed, d.Channels[0].Name)
}

func TestConfirmDraft_CreatesLightAndRegistersNames(t *testing.T) {
	s, _ := newTestStore(t)
	s.OpenDraft("g1")
	name := "Mover"
	addr := 40
	s.UpdateDraft(DraftPatch{
		Name:       &name,
		DMXAddress: &addr,
		Channels:   []Channel{{Name: ChannelIntensity, Value: 400}, {Name: "Tilt", Value: 12}},
	})

	var events []Event
	s.SetUpdateCallback(func(e Event) { events = append(events, e) })

	l, ok := s.ConfirmDraft()
	require.True(t, ok)
	assert.Equal(t, "g1-5", l.ID)
	assert.Equal(t, "Mover", l.Name)
	assert.Equal(t, 40, l.DMXAddress)
	assert.Equal(t, []Channel{{Name: ChannelIntensity, Value: 255}, {Name: "Tilt", Value: 12}}, l.Channels)

	assert.False(t, s.Draft().Open)
	assert.Contains(t, s.ChannelNames(), "Tilt")
	require.Len(t, events, 1)
	assert.True(t, events[0].Has(EventGroups))
	assert.True(t, events[0].Has(EventChannelNames))
}

func TestConfirmDraft_UnknownGroup(t *testing.T) {
	s, _ := newTestStore(t)
	s.OpenDraft("g1")
	missing := "g99"
	s.UpdateDraft(DraftPatch{GroupID: &missing})

	_, ok := s.ConfirmDraft()

	assert.False(t, ok)
	assert.False(t, s.Draft().Open)
	assert.Len(t, s.AllLights(), 4)
}

func TestCancelDraft(t *testing.T) {
	s, _ := newTestStore(t)
	s.OpenDraft("g1")

	s.CancelDraft()

	assert.False(t, s.Draft().Open)
	assert.Len(t, s.AllLights(), 4)
}

func TestConfirmDraft_AfterCancelCreatesNothing(t *testing.T) {
	s, _ := newTestStore(t)
	s.OpenDraft("g1")
	name := "Discarded"
	s.UpdateDraft(DraftPatch{Name: &name})
	s.CancelDraft()

	d := s.Draft()
	assert.False(t, d.Open)
	assert.Empty(t, d.Name)
	assert.Equal(t, defaultDraftChannels(), d.Channels)

	var events []Event
	s.SetUpdateCallback(func(e Event) { events = append(events, e) })

	_, ok := s.ConfirmDraft()

	assert.False(t, ok)
	assert.Len(t, s.AllLights(), 4)
	assert.Empty(t, events)
}

func TestConfirmDraft_Twice(t *testing.T) {
	s, _ := newTestStore(t)
	s.OpenDraft("g1")

	_, ok := s.ConfirmDraft()
	require.True(t, ok)
	_, ok = s.ConfirmDraft()

	assert.False(t, ok)
	assert.Len(t, s.AllLights(), 5)
}
