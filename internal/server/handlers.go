package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tuanngo/preppath/internal/preparation"
	"github.com/tuanngo/preppath/internal/scan"
	"github.com/tuanngo/preppath/internal/server/middleware"
)

// maxUploadBytes caps JD file uploads.
const maxUploadBytes = 10 << 20

// SubmitJDRequest is the JSON body of POST /analysis/submit. Exactly one of
// Text and URL must be set; file uploads use multipart form data instead.
type SubmitJDRequest struct {
	Text          string     `json:"text"`
	URL           string     `json:"url" validate:"omitempty,url"`
	UseBrowser    bool       `json:"use_browser"`
	InterviewDate *time.Time `json:"interview_date"`
	PreparationID *uuid.UUID `json:"preparation_id"`
}

// SubmitJDResponse pairs the created analysis with its preparation.
type SubmitJDResponse struct {
	Analysis    any `json:"analysis"`
	Preparation any `json:"preparation"`
}

func (s *Server) handleSubmitJD(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	input, ok := s.decodeJDInput(w, r)
	if !ok {
		return
	}

	analysis, prep, err := s.service.SubmitJD(r.Context(), userID, input)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, SubmitJDResponse{Analysis: analysis, Preparation: prep})
}

// decodeJDInput reads a JD submission from either a multipart upload or a
// JSON body.
func (s *Server) decodeJDInput(w http.ResponseWriter, r *http.Request) (preparation.JDInput, bool) {
	var input preparation.JDInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid multipart body")
			return input, false
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Missing file field")
			return input, false
		}
		defer func() { _ = file.Close() }()

		content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Could not read upload")
			return input, false
		}
		input.FileContent = content
		input.Filename = header.Filename
		if prepID := r.FormValue("preparation_id"); prepID != "" {
			id, err := uuid.Parse(prepID)
			if err != nil {
				s.errorResponse(w, http.StatusBadRequest, "Invalid preparation_id")
				return input, false
			}
			input.PreparationID = &id
		}
		return input, true
	}

	var req SubmitJDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return input, false
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return input, false
	}
	if (req.Text == "") == (req.URL == "") {
		s.errorResponse(w, http.StatusBadRequest, "Provide exactly one of text or url")
		return input, false
	}

	input.Text = req.Text
	input.URL = req.URL
	input.UseBrowser = req.UseBrowser
	input.InterviewDate = req.InterviewDate
	input.PreparationID = req.PreparationID
	return input, true
}

func (s *Server) handleListPreparations(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	preps, err := s.service.ListByUser(r.Context(), userID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, preps)
}

func (s *Server) handleGetPreparation(w http.ResponseWriter, r *http.Request) {
	userID, prepID, ok := s.requestIDs(w, r)
	if !ok {
		return
	}

	prep, err := s.service.Get(r.Context(), userID, prepID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, prep)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, prepID, ok := s.requestIDs(w, r)
	if !ok {
		return
	}

	analysis, err := s.service.Analysis(r.Context(), userID, prepID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis)
}

func (s *Server) handleMemoryScanQuestions(w http.ResponseWriter, r *http.Request) {
	userID, prepID, ok := s.requestIDs(w, r)
	if !ok {
		return
	}

	source := scan.ParseSource(r.URL.Query().Get("source"))
	questions, err := s.service.DiagnosticQuestions(r.Context(), userID, prepID, source)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"questions": questions})
}

// SubmitAnswersRequest is the body of POST /preparations/{id}/memory-scan/submit.
type SubmitAnswersRequest struct {
	Answers []scan.Answer `json:"answers" validate:"required,min=1,dive"`
}

func (s *Server) handleMemoryScanSubmit(w http.ResponseWriter, r *http.Request) {
	userID, prepID, ok := s.requestIDs(w, r)
	if !ok {
		return
	}

	var req SubmitAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	result, err := s.service.SubmitDiagnostic(r.Context(), userID, prepID, req.Answers)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleMemoryScanReset(w http.ResponseWriter, r *http.Request) {
	userID, prepID, ok := s.requestIDs(w, r)
	if !ok {
		return
	}

	if err := s.service.ResetDiagnostic(r.Context(), userID, prepID); err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleCreateRoadmap(w http.ResponseWriter, r *http.Request) {
	userID, prepID, ok := s.requestIDs(w, r)
	if !ok {
		return
	}

	roadmap, err := s.service.CreateRoadmap(r.Context(), userID, prepID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, roadmap)
}

func (s *Server) handleGetRoadmap(w http.ResponseWriter, r *http.Request) {
	userID, prepID, ok := s.requestIDs(w, r)
	if !ok {
		return
	}

	roadmap, err := s.service.Roadmap(r.Context(), userID, prepID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, roadmap)
}

func (s *Server) handleSelfCheckQuestions(w http.ResponseWriter, r *http.Request) {
	userID, prepID, ok := s.requestIDs(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	questions, err := s.service.RehearsalQuestions(r.Context(), userID, prepID, limit)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"questions": questions})
}

// requestIDs extracts the authenticated user and the {id} path parameter.
func (s *Server) requestIDs(w http.ResponseWriter, r *http.Request) (userID, prepID uuid.UUID, ok bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}
	prepID, err = uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid preparation ID")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, prepID, true
}
