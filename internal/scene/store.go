package scene

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultSceneKey is the record holding the persisted groups.
	DefaultSceneKey = "dmx_scene_v1"
	// DefaultChannelNamesKey is the record holding known channel names.
	DefaultChannelNamesKey = "channelNames"
	// DefaultPersistTimeout bounds a single storage write.
	DefaultPersistTimeout = 2 * time.Second

	defaultMasterBrightness = 50
)

// RecordStore is the string-keyed persistence used by the store.
type RecordStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Sink receives the scene when it is sent to DMX.
type Sink interface {
	Send(ctx context.Context, payload Payload) error
}

// Config holds scene store configuration.
type Config struct {
	Storage         RecordStore
	Sink            Sink
	SceneKey        string
	ChannelNamesKey string
	PersistTimeout  time.Duration

	// Fallback is loaded when storage holds no usable scene.
	// DemoScene is used when nil.
	Fallback []Group
}

// EventKind names the part of the state an update touched.
type EventKind string

const (
	EventGroups       EventKind = "groups"
	EventBrightness   EventKind = "brightness"
	EventScope        EventKind = "scope"
	EventColor        EventKind = "color"
	EventPresets      EventKind = "presets"
	EventDraft        EventKind = "draft"
	EventChannelNames EventKind = "channelNames"
	EventSent         EventKind = "sent"
)

// Event is delivered to the update callback after each state change.
// Seq increases by one per event, in the order the changes were applied.
type Event struct {
	Seq          uint64
	Kinds        []EventKind
	Snapshot     Snapshot
	ChannelNames []string
}

// Has reports whether the event includes kind.
func (e Event) Has(kind EventKind) bool {
	for _, k := range e.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Store is the single source of truth for the scene. All mutation goes
// through its methods, each of which runs to completion under one lock.
type Store struct {
	mu sync.Mutex

	storage         RecordStore
	sink            Sink
	sceneKey        string
	channelNamesKey string
	persistTimeout  time.Duration

	groups           []Group
	scope            Scope
	masterBrightness int
	color            RGB
	presets          []Preset
	draft            Draft
	channelNames     []string

	// Callback for state updates (optional)
	onUpdate func(Event)

	// Events are numbered under mu and delivered in that order.
	seq        uint64
	notifyMu   sync.Mutex
	notifyCond *sync.Cond
	notified   uint64
}

// New creates a store and loads the scene and channel names from storage.
// Unreadable or malformed records never fail startup; the fallback scene
// and default channel names are used instead.
func New(ctx context.Context, cfg Config) *Store {
	s := &Store{
		storage:          cfg.Storage,
		sink:             cfg.Sink,
		sceneKey:         cfg.SceneKey,
		channelNamesKey:  cfg.ChannelNamesKey,
		persistTimeout:   cfg.PersistTimeout,
		scope:            MasterScope(),
		masterBrightness: defaultMasterBrightness,
		color:            RGB{R: 255, G: 255, B: 255},
		presets:          defaultPresets(),
		draft:            closedDraft(),
	}
	if s.sceneKey == "" {
		s.sceneKey = DefaultSceneKey
	}
	if s.channelNamesKey == "" {
		s.channelNamesKey = DefaultChannelNamesKey
	}
	if s.persistTimeout <= 0 {
		s.persistTimeout = DefaultPersistTimeout
	}
	if s.sink == nil {
		s.sink = logSink{}
	}
	s.notifyCond = sync.NewCond(&s.notifyMu)

	fallback := cfg.Fallback
	if fallback == nil {
		fallback = DemoScene()
	}
	s.groups = s.loadGroups(ctx, fallback)
	s.channelNames = s.loadChannelNames(ctx)

	log.Printf("🎭 Scene store ready: %d groups, %d lights", len(s.groups), countLights(s.groups))
	return s
}

// SetUpdateCallback sets the callback invoked after every state change.
// It runs outside the store lock, one event at a time in Seq order, and
// must not mutate the store.
func (s *Store) SetUpdateCallback(callback func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = callback
}

// apply runs fn under the lock. When fn reports a group change the groups
// are persisted, and the color state is resynchronized from the scope
// unless fn already set it.
func (s *Store) apply(fn func() []EventKind) {
	s.mu.Lock()
	kinds := fn()
	if containsKind(kinds, EventGroups) {
		if !containsKind(kinds, EventColor) && s.syncColorLocked() {
			kinds = append(kinds, EventColor)
		}
		s.persistGroupsLocked()
	}
	if len(kinds) == 0 {
		s.mu.Unlock()
		return
	}
	s.seq++
	event := Event{
		Seq:          s.seq,
		Kinds:        kinds,
		Snapshot:     s.snapshotLocked(),
		ChannelNames: append([]string(nil), s.channelNames...),
	}
	callback := s.onUpdate
	s.mu.Unlock()

	s.notify(callback, event)
}

// notify waits for every earlier event to be delivered, then delivers e.
func (s *Store) notify(callback func(Event), e Event) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	for s.notified != e.Seq-1 {
		s.notifyCond.Wait()
	}
	defer func() {
		s.notified = e.Seq
		s.notifyCond.Broadcast()
	}()
	if callback != nil {
		callback(e)
	}
}

// SetBrightness sets master brightness (0-100) and writes the scaled
// intensity to every light, whatever the scope.
func (s *Store) SetBrightness(percent int) {
	s.apply(func() []EventKind {
		percent = clamp(percent, 0, 100)
		s.masterBrightness = percent
		scaled := int(math.Round(float64(percent) / 100 * 255))
		s.forEachLight(func(l *Light) {
			for i := range l.Channels {
				if l.Channels[i].Name == ChannelIntensity {
					l.Channels[i].Value = scaled
				}
			}
		})
		return []EventKind{EventBrightness, EventGroups}
	})
}

// SetAllOn switches every light on.
func (s *Store) SetAllOn() { s.setAll(true) }

// SetAllOff switches every light off.
func (s *Store) SetAllOff() { s.setAll(false) }

func (s *Store) setAll(on bool) {
	s.apply(func() []EventKind {
		s.forEachLight(func(l *Light) { l.On = on })
		return []EventKind{EventGroups}
	})
}

// SetColor decodes hex and writes it to the Red/Green/Blue channels of
// the lights in the current scope.
func (s *Store) SetColor(hex string) {
	s.setColor(ParseHex(hex))
}

// SetRGBComponent changes one component ("r", "g" or "b") of the current
// color and writes the result to the scoped lights. Unknown components
// are ignored.
func (s *Store) SetRGBComponent(component string, value int) {
	v := uint8(clampValue(value))
	s.apply(func() []EventKind {
		c := s.color
		switch strings.ToLower(component) {
		case "r", "red":
			c.R = v
		case "g", "green":
			c.G = v
		case "b", "blue":
			c.B = v
		default:
			return nil
		}
		return s.writeColorLocked(c)
	})
}

func (s *Store) setColor(c RGB) {
	s.apply(func() []EventKind {
		return s.writeColorLocked(c)
	})
}

func (s *Store) writeColorLocked(c RGB) []EventKind {
	s.color = c
	s.forEachScopedLight(func(l *Light) { setLightRGB(l, c) })
	return []EventKind{EventColor, EventGroups}
}

// SelectScope replaces the selection and pulls the color state from the
// newly selected light, or the first light of the selected group.
// Unknown scope types select master.
func (s *Store) SelectScope(scope Scope) {
	s.apply(func() []EventKind {
		switch scope.Type {
		case ScopeGroup, ScopeLight:
			s.scope = Scope{Type: scope.Type, ID: scope.ID}
		default:
			s.scope = MasterScope()
		}
		kinds := []EventKind{EventScope}
		if s.syncColorLocked() {
			kinds = append(kinds, EventColor)
		}
		return kinds
	})
}

// AddGroup appends an empty group and returns it.
func (s *Store) AddGroup() Group {
	var added Group
	s.apply(func() []EventKind {
		n := nextGroupNumber(s.groups)
		added = Group{
			ID:       "g" + strconv.Itoa(n),
			Name:     "Group " + strconv.Itoa(len(s.groups)+1),
			ColorTag: groupColorTags[len(s.groups)%len(groupColorTags)],
			Lights:   []Light{},
		}
		s.groups = append(s.groups, added)
		return []EventKind{EventGroups}
	})
	return added
}

// DeleteGroup removes a group. The scope resets to master when it pointed
// at the group or at one of its lights.
func (s *Store) DeleteGroup(id string) {
	s.apply(func() []EventKind {
		idx := s.groupIndex(id)
		if idx < 0 {
			return nil
		}
		s.groups = append(s.groups[:idx], s.groups[idx+1:]...)
		kinds := []EventKind{EventGroups}
		if s.reconcileScopeLocked() {
			kinds = append(kinds, EventScope)
		}
		return kinds
	})
}

// CreateLight appends a light built from draft to the draft's group (or
// the first group when none is set). It reports false when there is no
// group to add to.
func (s *Store) CreateLight(draft Draft) (Light, bool) {
	var (
		created Light
		ok      bool
	)
	s.apply(func() []EventKind {
		created, ok = s.createLightLocked(draft)
		if !ok {
			return nil
		}
		return []EventKind{EventGroups}
	})
	return created, ok
}

func (s *Store) createLightLocked(draft Draft) (Light, bool) {
	groupID := draft.GroupID
	if groupID == "" && len(s.groups) > 0 {
		groupID = s.groups[0].ID
	}
	idx := s.groupIndex(groupID)
	if idx < 0 {
		return Light{}, false
	}
	g := &s.groups[idx]

	name := strings.TrimSpace(draft.Name)
	if name == "" {
		name = defaultLightName(nextLightNumber(g))
	}
	channels := cloneChannels(draft.Channels)
	for i := range channels {
		channels[i].Value = clampValue(channels[i].Value)
	}

	light := Light{
		ID:         nextLightID(g),
		Name:       name,
		DMXAddress: clampAddress(draft.DMXAddress),
		Channels:   channels,
		On:         true,
	}
	g.Lights = append(g.Lights, light)
	return cloneLight(light), true
}

// DeleteLight removes a light from whichever group holds it. The scope
// resets to master when it pointed at the light.
func (s *Store) DeleteLight(id string) {
	s.apply(func() []EventKind {
		removed := false
		for gi := range s.groups {
			lights := s.groups[gi].Lights
			for li := range lights {
				if lights[li].ID == id {
					s.groups[gi].Lights = append(lights[:li], lights[li+1:]...)
					removed = true
					break
				}
			}
			if removed {
				break
			}
		}
		if !removed {
			return nil
		}
		kinds := []EventKind{EventGroups}
		if s.reconcileScopeLocked() {
			kinds = append(kinds, EventScope)
		}
		return kinds
	})
}

// AddLightToScope opens the creation draft for the selected group, or
// for the first group when the scope is not a group.
func (s *Store) AddLightToScope() {
	s.apply(func() []EventKind {
		groupID := ""
		if s.scope.Type == ScopeGroup {
			groupID = s.scope.ID
		}
		s.openDraftLocked(groupID)
		return []EventKind{EventDraft}
	})
}

// DeleteLightInScope deletes the selected light, or the last light of the
// selected group. It does nothing under master scope.
func (s *Store) DeleteLightInScope() {
	s.apply(func() []EventKind {
		switch s.scope.Type {
		case ScopeLight:
			id := s.scope.ID
			for gi := range s.groups {
				s.groups[gi].Lights = removeLight(s.groups[gi].Lights, id)
			}
			s.scope = MasterScope()
			return []EventKind{EventGroups, EventScope}
		case ScopeGroup:
			idx := s.groupIndex(s.scope.ID)
			if idx < 0 || len(s.groups[idx].Lights) == 0 {
				return nil
			}
			lights := s.groups[idx].Lights
			s.groups[idx].Lights = lights[:len(lights)-1]
			return []EventKind{EventGroups}
		}
		return nil
	})
}

// UpdateLight applies a partial update to one light. The address is
// clamped to [1,512] and the layout position to [0,100].
func (s *Store) UpdateLight(groupID, lightID string, patch LightPatch) {
	s.apply(func() []EventKind {
		idx := s.groupIndex(groupID)
		if idx < 0 {
			return nil
		}
		for li := range s.groups[idx].Lights {
			l := &s.groups[idx].Lights[li]
			if l.ID != lightID {
				continue
			}
			if patch.Name != nil {
				l.Name = *patch.Name
			}
			if patch.On != nil {
				l.On = *patch.On
			}
			if patch.DMXAddress != nil {
				l.DMXAddress = clampAddress(*patch.DMXAddress)
			}
			if patch.X != nil {
				x := math.Max(0, math.Min(100, *patch.X))
				l.X = &x
			}
			if patch.Y != nil {
				y := math.Max(0, math.Min(100, *patch.Y))
				l.Y = &y
			}
			return []EventKind{EventGroups}
		}
		return nil
	})
}

// SetGroupChannelValue writes value to the named channel of every light in
// the group that has it. Lights without the channel are left untouched;
// the channel is never added.
func (s *Store) SetGroupChannelValue(groupID, channelName string, value int) {
	s.apply(func() []EventKind {
		idx := s.groupIndex(groupID)
		if idx < 0 {
			return nil
		}
		value = clampValue(value)
		for li := range s.groups[idx].Lights {
			l := &s.groups[idx].Lights[li]
			for ci := range l.Channels {
				if l.Channels[ci].Name == channelName {
					l.Channels[ci].Value = value
				}
			}
		}
		return []EventKind{EventGroups}
	})
}

// SetLightChannelValue writes the channel at index on one light. Editing
// Red, Green or Blue makes that light's color the current color.
func (s *Store) SetLightChannelValue(lightID string, index, value int) {
	s.apply(func() []EventKind {
		l := s.findLight(lightID)
		if l == nil || index < 0 || index >= len(l.Channels) {
			return nil
		}
		l.Channels[index].Value = clampValue(value)
		switch l.Channels[index].Name {
		case ChannelRed, ChannelGreen, ChannelBlue:
			s.color = ChannelRGB(*l)
			return []EventKind{EventGroups, EventColor}
		}
		return []EventKind{EventGroups}
	})
}

// ReplaceGroups swaps in a whole new scene after normalizing it. It
// returns the repairs made during normalization.
func (s *Store) ReplaceGroups(groups []Group) []string {
	normalized, warnings := NormalizeGroups(groups)
	s.apply(func() []EventKind {
		s.groups = normalized
		kinds := []EventKind{EventGroups}
		if s.reconcileScopeLocked() {
			kinds = append(kinds, EventScope)
		}
		return kinds
	})
	return warnings
}

// AppendGroups adds groups after the existing ones. Group ids that clash
// with existing groups are reassigned, and their lights are renumbered
// under the new id.
func (s *Store) AppendGroups(groups []Group) []string {
	normalized, warnings := NormalizeGroups(groups)
	s.apply(func() []EventKind {
		for _, g := range normalized {
			if s.groupIndex(g.ID) >= 0 {
				oldID := g.ID
				g.ID = "g" + strconv.Itoa(nextGroupNumber(s.groups))
				warnings = append(warnings, "group "+oldID+" renamed to "+g.ID)
				renumbered := Group{ID: g.ID}
				for _, l := range g.Lights {
					l.ID = nextLightID(&renumbered)
					renumbered.Lights = append(renumbered.Lights, l)
				}
				g.Lights = renumbered.Lights
				if g.Lights == nil {
					g.Lights = []Light{}
				}
			}
			s.groups = append(s.groups, g)
		}
		return []EventKind{EventGroups}
	})
	return warnings
}

// SendScene hands the current scene and master brightness to the sink.
func (s *Store) SendScene(ctx context.Context) error {
	payload := s.Payload()
	if err := s.sink.Send(ctx, payload); err != nil {
		return err
	}
	s.apply(func() []EventKind { return []EventKind{EventSent} })
	return nil
}

// syncColorLocked pulls the color from the selected light, or from the
// first light of the selected group. It reports whether the color changed.
func (s *Store) syncColorLocked() bool {
	var c RGB
	switch s.scope.Type {
	case ScopeLight:
		l := s.findLight(s.scope.ID)
		if l == nil {
			return false
		}
		c = ChannelRGB(*l)
	case ScopeGroup:
		idx := s.groupIndex(s.scope.ID)
		if idx < 0 || len(s.groups[idx].Lights) == 0 {
			return false
		}
		c = ChannelRGB(s.groups[idx].Lights[0])
	default:
		return false
	}
	if c == s.color {
		return false
	}
	s.color = c
	return true
}

// reconcileScopeLocked resets the scope to master when its target no
// longer exists.
func (s *Store) reconcileScopeLocked() bool {
	switch s.scope.Type {
	case ScopeGroup:
		if s.groupIndex(s.scope.ID) >= 0 {
			return false
		}
	case ScopeLight:
		if s.findLight(s.scope.ID) != nil {
			return false
		}
	default:
		return false
	}
	s.scope = MasterScope()
	return true
}

func (s *Store) persistGroupsLocked() {
	if s.storage == nil {
		return
	}
	data, err := json.Marshal(s.groups)
	if err != nil {
		log.Printf("⚠️  Failed to encode scene: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()
	if err := s.storage.Set(ctx, s.sceneKey, string(data)); err != nil {
		log.Printf("⚠️  Failed to persist scene: %v", err)
	}
}

func (s *Store) loadGroups(ctx context.Context, fallback []Group) []Group {
	fallbackGroups := func() []Group {
		groups, _ := NormalizeGroups(fallback)
		return groups
	}
	if s.storage == nil {
		return fallbackGroups()
	}

	raw, ok, err := s.storage.Get(ctx, s.sceneKey)
	if err != nil {
		log.Printf("⚠️  Failed to read stored scene, using fallback: %v", err)
		return fallbackGroups()
	}
	if !ok {
		return fallbackGroups()
	}

	var groups []Group
	if err := json.Unmarshal([]byte(raw), &groups); err != nil {
		log.Printf("⚠️  Stored scene is malformed, using fallback: %v", err)
		return fallbackGroups()
	}
	if groups == nil {
		return fallbackGroups()
	}
	normalized, warnings := NormalizeGroups(groups)
	for _, w := range warnings {
		log.Printf("⚠️  Stored scene repaired: %s", w)
	}
	return normalized
}

func (s *Store) forEachLight(fn func(*Light)) {
	for gi := range s.groups {
		for li := range s.groups[gi].Lights {
			fn(&s.groups[gi].Lights[li])
		}
	}
}

// forEachScopedLight visits the lights selected by the current scope.
func (s *Store) forEachScopedLight(fn func(*Light)) {
	switch s.scope.Type {
	case ScopeGroup:
		if idx := s.groupIndex(s.scope.ID); idx >= 0 {
			for li := range s.groups[idx].Lights {
				fn(&s.groups[idx].Lights[li])
			}
		}
	case ScopeLight:
		if l := s.findLight(s.scope.ID); l != nil {
			fn(l)
		}
	default:
		s.forEachLight(fn)
	}
}

func (s *Store) groupIndex(id string) int {
	for i := range s.groups {
		if s.groups[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) findLight(id string) *Light {
	for gi := range s.groups {
		for li := range s.groups[gi].Lights {
			if s.groups[gi].Lights[li].ID == id {
				return &s.groups[gi].Lights[li]
			}
		}
	}
	return nil
}

func removeLight(lights []Light, id string) []Light {
	out := lights[:0]
	for _, l := range lights {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}

func containsKind(kinds []EventKind, kind EventKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func countLights(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Lights)
	}
	return n
}

// logSink is used when no sink is configured.
type logSink struct{}

func (logSink) Send(_ context.Context, payload Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	log.Printf("📡 DMX payload: %s", data)
	return nil
}
