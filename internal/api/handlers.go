package api

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/bbernstein/lacylights-console/internal/scene"
	importservice "github.com/bbernstein/lacylights-console/internal/services/import"
	"github.com/bbernstein/lacylights-console/internal/services/network"
)

type valueRequest struct {
	Value *int `json:"value"`
}

func (s *Server) writeSnapshot(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

// decodeValue reads {"value": n}; the field is required.
func decodeValue(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req valueRequest
	if !decodeJSON(w, r, &req, false) {
		return 0, false
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "value is required")
		return 0, false
	}
	return *req.Value, true
}

func (s *Server) handleScene(w http.ResponseWriter, _ *http.Request) {
	s.writeSnapshot(w)
}

func (s *Server) handleLights(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.AllLights())
}

func (s *Server) handleBrightness(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Percent *int `json:"percent"`
	}
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if req.Percent == nil {
		writeError(w, http.StatusBadRequest, "percent is required")
		return
	}
	s.store.SetBrightness(*req.Percent)
	s.writeSnapshot(w)
}

func (s *Server) handleAllOn(w http.ResponseWriter, _ *http.Request) {
	s.store.SetAllOn()
	s.writeSnapshot(w)
}

func (s *Server) handleAllOff(w http.ResponseWriter, _ *http.Request) {
	s.store.SetAllOff()
	s.writeSnapshot(w)
}

func (s *Server) handleColor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hex string `json:"hex"`
	}
	if !decodeJSON(w, r, &req, false) {
		return
	}
	s.store.SetColor(req.Hex)
	s.writeSnapshot(w)
}

func (s *Server) handleColorComponent(w http.ResponseWriter, r *http.Request) {
	component := pathParam(r, "component")
	switch component {
	case "r", "g", "b", "red", "green", "blue":
	default:
		writeError(w, http.StatusBadRequest, "unknown color component "+strconv.Quote(component))
		return
	}
	value, ok := decodeValue(w, r)
	if !ok {
		return
	}
	s.store.SetRGBComponent(component, value)
	s.writeSnapshot(w)
}

func (s *Server) handleScope(w http.ResponseWriter, r *http.Request) {
	var scope scene.Scope
	if !decodeJSON(w, r, &scope, false) {
		return
	}
	s.store.SelectScope(scope)
	s.writeSnapshot(w)
}

func (s *Server) handleAddGroup(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusCreated, s.store.AddGroup())
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteGroup(pathParam(r, "groupID"))
	s.writeSnapshot(w)
}

func (s *Server) handleGroupChannels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.GroupChannelNames(pathParam(r, "groupID")))
}

func (s *Server) handleSetGroupChannel(w http.ResponseWriter, r *http.Request) {
	value, ok := decodeValue(w, r)
	if !ok {
		return
	}
	s.store.SetGroupChannelValue(pathParam(r, "groupID"), pathParam(r, "channelName"), value)
	s.writeSnapshot(w)
}

func (s *Server) handleUpdateLight(w http.ResponseWriter, r *http.Request) {
	var patch scene.LightPatch
	if !decodeJSON(w, r, &patch, false) {
		return
	}
	s.store.UpdateLight(pathParam(r, "groupID"), pathParam(r, "lightID"), patch)
	s.writeSnapshot(w)
}

func (s *Server) handleDeleteLight(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteLight(pathParam(r, "lightID"))
	s.writeSnapshot(w)
}

func (s *Server) handleSetLightChannel(w http.ResponseWriter, r *http.Request) {
	index, ok := intParam(w, r, "index")
	if !ok {
		return
	}
	value, ok := decodeValue(w, r)
	if !ok {
		return
	}
	s.store.SetLightChannelValue(pathParam(r, "lightID"), index, value)
	s.writeSnapshot(w)
}

func (s *Server) handleAddLightToScope(w http.ResponseWriter, _ *http.Request) {
	s.store.AddLightToScope()
	writeJSON(w, http.StatusOK, s.store.Draft())
}

func (s *Server) handleDeleteLightInScope(w http.ResponseWriter, _ *http.Request) {
	s.store.DeleteLightInScope()
	s.writeSnapshot(w)
}

func (s *Server) handleGetDraft(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Draft())
}

func (s *Server) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	var patch scene.DraftPatch
	if !decodeJSON(w, r, &patch, false) {
		return
	}
	s.store.UpdateDraft(patch)
	writeJSON(w, http.StatusOK, s.store.Draft())
}

func (s *Server) handleOpenDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID string `json:"groupId"`
	}
	if !decodeJSON(w, r, &req, true) {
		return
	}
	s.store.OpenDraft(req.GroupID)
	writeJSON(w, http.StatusOK, s.store.Draft())
}

func (s *Server) handleAddDraftChannel(w http.ResponseWriter, _ *http.Request) {
	s.store.AddDraftChannel()
	writeJSON(w, http.StatusOK, s.store.Draft())
}

func (s *Server) handleRemoveDraftChannel(w http.ResponseWriter, r *http.Request) {
	index, ok := intParam(w, r, "index")
	if !ok {
		return
	}
	s.store.RemoveDraftChannel(index)
	writeJSON(w, http.StatusOK, s.store.Draft())
}

func (s *Server) handleCancelDraft(w http.ResponseWriter, _ *http.Request) {
	s.store.CancelDraft()
	writeJSON(w, http.StatusOK, s.store.Draft())
}

func (s *Server) handleConfirmDraft(w http.ResponseWriter, _ *http.Request) {
	light, ok := s.store.ConfirmDraft()
	if !ok {
		writeError(w, http.StatusConflict, "no open draft or no group to add the light to")
		return
	}
	writeJSON(w, http.StatusCreated, light)
}

func (s *Server) handleListPresets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Presets())
}

func (s *Server) handleSavePreset(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusCreated, s.store.SavePreset())
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	s.store.DeletePreset(pathParam(r, "presetID"))
	writeJSON(w, http.StatusOK, s.store.Presets())
}

func (s *Server) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	s.store.ApplyPreset(pathParam(r, "presetID"))
	s.writeSnapshot(w)
}

func (s *Server) handleChannelNames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ChannelNames())
}

func (s *Server) handleAddChannelName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req, false) {
		return
	}
	s.store.AddChannelName(req.Name)
	writeJSON(w, http.StatusOK, s.store.ChannelNames())
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	if err := s.store.SendScene(r.Context()); err != nil {
		log.Printf("⚠️  Failed to send scene: %v", err)
		writeError(w, http.StatusBadGateway, "failed to send scene: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.store.Payload())
}

func (s *Server) handleBroadcastTargets(w http.ResponseWriter, _ *http.Request) {
	targets, err := network.BroadcastTargets()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, targets)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var description *string
	if d := r.URL.Query().Get("description"); d != "" {
		description = &d
	}
	exported, _, err := s.exporter.ExportScene(r.Context(), description)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export scene: "+err.Error())
		return
	}
	content, err := exported.ToJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode export: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="scene.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, content)
}

type importResponse struct {
	Stats    *importservice.ImportStats `json:"stats"`
	Warnings []string                   `json:"warnings"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body: "+err.Error())
		return
	}

	q := r.URL.Query()
	options := importservice.ImportOptions{
		Mode: importservice.ImportMode(q.Get("mode")),
	}
	if v, err := strconv.ParseBool(q.Get("restoreBrightness")); err == nil {
		options.RestoreBrightness = v
	}

	stats, warnings, err := s.importer.ImportScene(r.Context(), string(body), options)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, http.StatusOK, importResponse{Stats: stats, Warnings: warnings})
}
