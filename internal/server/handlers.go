package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalysisRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !checkText(w, req.Text) {
		return
	}
	if req.Mode != "" && req.Mode != model.ModePage && req.Mode != model.ModeSelection {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown mode %q", req.Mode))
		return
	}
	writeJSON(w, http.StatusOK, s.analyzer.Analyze(r.Context(), req))
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if s.agent == nil {
		writeError(w, http.StatusServiceUnavailable, "verification agent is not configured")
		return
	}
	var req model.VerifyRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !checkText(w, req.Text) {
		return
	}
	writeJSON(w, http.StatusOK, s.agent.VerifyClaim(r.Context(), req))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.agent == nil {
		writeError(w, http.StatusServiceUnavailable, "verification agent is not configured")
		return
	}
	var req model.ChatRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	writeJSON(w, http.StatusOK, s.agent.ChatWithAgent(r.Context(), req))
}

// decode reads a JSON body into v, answering 400 or 413 on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "malformed JSON: "+err.Error())
		return false
	}
	return true
}

func checkText(w http.ResponseWriter, text string) bool {
	switch {
	case strings.TrimSpace(text) == "":
		writeError(w, http.StatusBadRequest, "text is required")
		return false
	case len(text) > MaxTextBytes:
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("text exceeds %d bytes", MaxTextBytes))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
