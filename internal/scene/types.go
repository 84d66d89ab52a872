// Package scene implements the scene store: the single source of truth for
// light groups, channel values, selection scope, color state, presets and the
// light creation draft.
package scene

// Well-known channel names.
const (
	ChannelIntensity = "Intensity"
	ChannelRed       = "Red"
	ChannelGreen     = "Green"
	ChannelBlue      = "Blue"
	ChannelPan       = "Pan"
)

// DMX value ranges.
const (
	MinChannelValue = 0
	MaxChannelValue = 255
	MinDMXAddress   = 1
	MaxDMXAddress   = 512
)

// Channel is a named control value on a light.
type Channel struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

// Light is a single fixture. Channels keep their patch order.
// The JSON layout matches the persisted browser format.
type Light struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	DMXAddress int       `json:"dmxAddress" yaml:"dmxAddress"`
	Channels   []Channel `json:"controls" yaml:"controls"`
	X          *float64  `json:"x,omitempty" yaml:"x,omitempty"`
	Y          *float64  `json:"y,omitempty" yaml:"y,omitempty"`
	On         bool      `json:"on" yaml:"on"`
}

// Group owns an ordered set of lights.
type Group struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	ColorTag string  `json:"color" yaml:"color"`
	Lights   []Light `json:"lights" yaml:"lights"`
}

// LightRef is a light tagged with the id of its owning group.
type LightRef struct {
	Light
	GroupID string `json:"groupId"`
}

// ScopeType identifies which lights bulk edits target.
type ScopeType string

const (
	ScopeMaster ScopeType = "master"
	ScopeGroup  ScopeType = "group"
	ScopeLight  ScopeType = "light"
)

// Scope is the current selection. ID is empty for ScopeMaster.
type Scope struct {
	Type ScopeType `json:"type"`
	ID   string    `json:"id,omitempty"`
}

// MasterScope selects every light.
func MasterScope() Scope { return Scope{Type: ScopeMaster} }

// GroupScope selects the lights of one group.
func GroupScope(id string) Scope { return Scope{Type: ScopeGroup, ID: id} }

// LightScope selects a single light.
func LightScope(id string) Scope { return Scope{Type: ScopeLight, ID: id} }

// PresetType distinguishes effect presets from static colors.
type PresetType string

const (
	PresetEffect PresetType = "effect"
	PresetStatic PresetType = "static"
)

// Preset is a saved color or effect. Color is only set for static presets.
type Preset struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Type  PresetType `json:"type"`
	Color string     `json:"color,omitempty"`
}

// Draft is the uncommitted light edited in the creation dialog.
type Draft struct {
	Open       bool      `json:"open"`
	GroupID    string    `json:"groupId"`
	Name       string    `json:"name"`
	DMXAddress int       `json:"dmxAddress"`
	Channels   []Channel `json:"controls"`
}

// DraftPatch updates selected draft fields. Nil fields are left unchanged.
type DraftPatch struct {
	GroupID    *string   `json:"groupId,omitempty"`
	Name       *string   `json:"name,omitempty"`
	DMXAddress *int      `json:"dmxAddress,omitempty"`
	Channels   []Channel `json:"controls,omitempty"`
}

// LightPatch updates selected light fields. Nil fields are left unchanged.
type LightPatch struct {
	Name       *string  `json:"name,omitempty"`
	On         *bool    `json:"on,omitempty"`
	DMXAddress *int     `json:"dmxAddress,omitempty"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
}

// Payload is what gets handed to the DMX sink.
type Payload struct {
	MasterBrightness int     `json:"masterBrightness"`
	Groups           []Group `json:"groups"`
}

// Snapshot is a copy of the complete store state.
type Snapshot struct {
	Groups           []Group  `json:"groups"`
	Scope            Scope    `json:"selectedScope"`
	MasterBrightness int      `json:"masterBrightness"`
	Color            string   `json:"selectedColor"`
	RGB              RGB      `json:"rgb"`
	Presets          []Preset `json:"presets"`
	Draft            Draft    `json:"draft"`
}

func defaultDraftChannels() []Channel {
	return []Channel{
		{Name: ChannelIntensity, Value: 255},
		{Name: ChannelRed, Value: 0},
		{Name: ChannelGreen, Value: 0},
		{Name: ChannelBlue, Value: 0},
		{Name: ChannelPan, Value: 0},
	}
}

func defaultPresets() []Preset {
	return []Preset{
		{ID: "p1", Name: "Rainbow", Type: PresetEffect},
		{ID: "p2", Name: "Static Color", Type: PresetStatic, Color: "#ffffff"},
	}
}

func cloneChannels(channels []Channel) []Channel {
	out := make([]Channel, len(channels))
	copy(out, channels)
	return out
}

func cloneLight(l Light) Light {
	out := l
	out.Channels = cloneChannels(l.Channels)
	if l.X != nil {
		x := *l.X
		out.X = &x
	}
	if l.Y != nil {
		y := *l.Y
		out.Y = &y
	}
	return out
}

func cloneGroups(groups []Group) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = g
		out[i].Lights = make([]Light, len(g.Lights))
		for j, l := range g.Lights {
			out[i].Lights[j] = cloneLight(l)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampValue(v int) int {
	return clamp(v, MinChannelValue, MaxChannelValue)
}

func clampAddress(v int) int {
	return clamp(v, MinDMXAddress, MaxDMXAddress)
}
