package api

import (
	"net/http"
	"time"

	"github.com/tallowisp/gazeshim/internal/openvr"
	"github.com/tallowisp/gazeshim/internal/telemetry"
)

// healthResponse is the /health payload.
type healthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// statusResponse is the /status payload.
type statusResponse struct {
	Shimmed      bool               `json:"shimmed"`
	TargetModule string             `json:"target_module,omitempty"`
	Devices      int                `json:"devices"`
	Hooks        []hookStatus       `json:"hooks"`
	Counters     telemetry.Counters `json:"counters"`
}

// hookStatus describes one installed detour.
type hookStatus struct {
	Interface string `json:"interface"`
	Slot      int    `json:"slot"`
}

// sampleResponse is the /sample payload.
type sampleResponse struct {
	Serial string           `json:"serial"`
	Sample telemetry.Sample `json:"sample"`
}

// deviceStatus describes one wrapped device.
type deviceStatus struct {
	Serial string `json:"serial"`
	Class  string `json:"class"`
	Active bool   `json:"active"`
}

// handleHealth returns liveness information.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	})
}

// handleStatus returns the shim's interception state and counters.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Counters: s.recorder.Counters(),
		Hooks:    s.hookStatuses(),
	}
	if s.plugin != nil {
		resp.Shimmed = s.plugin.Shimmed()
		resp.TargetModule = s.plugin.TargetModule()
		resp.Devices = len(s.plugin.Devices())
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSample returns the most recently published gaze sample.
func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	serial, sample, ok := s.recorder.Last()
	if !ok {
		writeNotFound(w, "no sample published yet")
		return
	}
	writeJSON(w, http.StatusOK, sampleResponse{Serial: serial, Sample: sample})
}

// handleHooks lists the installed detours.
func (s *Server) handleHooks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.hookStatuses())
}

// handleDevices lists the wrapped devices.
func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	out := []deviceStatus{}
	if s.plugin != nil {
		for _, d := range s.plugin.Devices() {
			out = append(out, deviceStatus{
				Serial: d.Serial(),
				Class:  openvr.DeviceClassHMD.String(),
				Active: d.Active(),
			})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) hookStatuses() []hookStatus {
	out := []hookStatus{}
	if s.hooks == nil {
		return out
	}
	for _, reg := range s.hooks.Registrations() {
		out = append(out, hookStatus{Interface: reg.Interface, Slot: reg.Slot})
	}
	return out
}
