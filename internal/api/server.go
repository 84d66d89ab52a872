// Package api exposes the scene store over HTTP and websockets.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bbernstein/lacylights-console/internal/scene"
	"github.com/bbernstein/lacylights-console/internal/services/export"
	importservice "github.com/bbernstein/lacylights-console/internal/services/import"
	"github.com/bbernstein/lacylights-console/internal/services/pubsub"
)

// maxBodyBytes caps request bodies, imports included.
const maxBodyBytes = 4 << 20

// Server wires HTTP handlers to the scene store.
type Server struct {
	store    *scene.Store
	exporter *export.Service
	importer *importservice.Service
	pubsub   *pubsub.PubSub
	version  string
	started  time.Time
	output   DMXOutput
}

// DMXOutput is a network DMX output whose state is reported by /health.
type DMXOutput interface {
	IsActive() bool
	GetBroadcastAddress() string
	LastFrame() []byte
}

// NewServer creates the API server. The store's update callback is pointed
// at ps so websocket clients see every change.
func NewServer(store *scene.Store, ps *pubsub.PubSub, version string) *Server {
	store.SetUpdateCallback(NewEventPublisher(ps))
	return &Server{
		store:    store,
		exporter: export.NewService(store, version),
		importer: importservice.NewService(store),
		pubsub:   ps,
		version:  version,
		started:  time.Now(),
	}
}

// SetDMXOutput adds out to the health report. Call before serving.
func (s *Server) SetDMXOutput(out DMXOutput) {
	s.output = out
}

// Routes builds the router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWS)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/scene", s.handleScene)
		r.Get("/lights", s.handleLights)

		r.Post("/brightness", s.handleBrightness)
		r.Post("/lights/on", s.handleAllOn)
		r.Post("/lights/off", s.handleAllOff)
		r.Post("/lights/add", s.handleAddLightToScope)
		r.Post("/lights/remove", s.handleDeleteLightInScope)
		r.Delete("/lights/{lightID}", s.handleDeleteLight)
		r.Put("/lights/{lightID}/channels/{index}", s.handleSetLightChannel)

		r.Post("/color", s.handleColor)
		r.Post("/color/{component}", s.handleColorComponent)
		r.Put("/scope", s.handleScope)

		r.Post("/groups", s.handleAddGroup)
		r.Delete("/groups/{groupID}", s.handleDeleteGroup)
		r.Get("/groups/{groupID}/channels", s.handleGroupChannels)
		r.Put("/groups/{groupID}/channels/{channelName}", s.handleSetGroupChannel)
		r.Patch("/groups/{groupID}/lights/{lightID}", s.handleUpdateLight)

		r.Get("/draft", s.handleGetDraft)
		r.Put("/draft", s.handleUpdateDraft)
		r.Post("/draft/open", s.handleOpenDraft)
		r.Post("/draft/channels", s.handleAddDraftChannel)
		r.Delete("/draft/channels/{index}", s.handleRemoveDraftChannel)
		r.Post("/draft/cancel", s.handleCancelDraft)
		r.Post("/draft/confirm", s.handleConfirmDraft)

		r.Get("/presets", s.handleListPresets)
		r.Post("/presets", s.handleSavePreset)
		r.Delete("/presets/{presetID}", s.handleDeletePreset)
		r.Post("/presets/{presetID}/apply", s.handleApplyPreset)

		r.Get("/channel-names", s.handleChannelNames)
		r.Post("/channel-names", s.handleAddChannelName)

		r.Post("/send", s.handleSend)
		r.Get("/dmx/targets", s.handleBroadcastTargets)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
	})

	return r
}

type healthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Version   string           `json:"version"`
	Uptime    string           `json:"uptime"`
	Clients   int              `json:"clients"`
	DMXOutput *dmxOutputStatus `json:"dmxOutput,omitempty"`
}

type dmxOutputStatus struct {
	Active         bool   `json:"active"`
	Broadcast      string `json:"broadcast"`
	ActiveChannels int    `json:"activeChannels"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	// every websocket client subscribes to all topics
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.version,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Clients:   s.pubsub.SubscriberCount(pubsub.TopicSceneUpdated),
	}
	if s.output != nil {
		status := &dmxOutputStatus{
			Active:    s.output.IsActive(),
			Broadcast: s.output.GetBroadcastAddress(),
		}
		for _, v := range s.output.LastFrame() {
			if v > 0 {
				status.ActiveChannels++
			}
		}
		resp.DMXOutput = status
	}
	writeJSON(w, http.StatusOK, resp)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️  Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON reads the body into v. An empty body is only accepted when
// optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, optional bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	if errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "request body is required")
		return false
	}
	writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
	return false
}

// pathParam returns the unescaped URL parameter.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return v, true
}
