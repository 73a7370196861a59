package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/fpang/logonova/internal/brand"
	"github.com/fpang/logonova/internal/export"
	"github.com/fpang/logonova/internal/motion"
	"github.com/fpang/logonova/internal/palette"
	"github.com/fpang/logonova/internal/pipeline"
)

const maxRequestBody = 1 << 20

func itoa(i int) string { return strconv.Itoa(i) }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Credential gate ---

type credentialStatus struct {
	Selected bool `json:"selected"`
	Offline  bool `json:"offline"`
}

func (s *Server) credentialStatus() credentialStatus {
	return credentialStatus{Selected: s.studio.CredentialSelected(), Offline: s.studio.Offline()}
}

func (s *Server) handleCredentialStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.credentialStatus())
}

func (s *Server) handleCredentialUse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"apiKey"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.studio.Gate().Use(req.APIKey); err != nil {
		httpError(w, http.StatusBadRequest, "apiKey is required")
		return
	}
	respondJSON(w, http.StatusOK, s.credentialStatus())
}

func (s *Server) handleCredentialSelect(w http.ResponseWriter, r *http.Request) {
	if err := s.studio.Gate().OpenSelection(r.Context()); err != nil {
		log.Warn().Err(err).Msg("Credential selection failed")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.credentialStatus())
}

func (s *Server) handleCredentialValidate(w http.ResponseWriter, r *http.Request) {
	if err := s.studio.ValidateCredential(r.Context()); err != nil {
		respondJSON(w, http.StatusOK, map[string]any{
			"valid":    false,
			"message":  err.Error(),
			"selected": s.studio.CredentialSelected(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"valid": true, "selected": s.studio.CredentialSelected()})
}

// --- Batches ---

type createBatchRequest struct {
	Config brand.ConfigInput `json:"config"`
	Count  int               `json:"count"`
}

func (s *Server) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	var req createBatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cfg, err := brand.NewGenerationConfig(req.Config)
	if err != nil {
		respondError(w, err)
		return
	}
	count := req.Count
	if count == 0 {
		count = s.opts.DefaultBatchSize
	}

	bundles, err := s.studio.RunBatch(r.Context(), cfg, count)
	s.recordBatch(len(bundles), err)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"bundles": summarizeAll(bundles)})
}

func (s *Server) recordBatch(produced int, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = string(pipeline.CodeOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	s.metrics.batches.WithLabelValues(outcome).Inc()
	s.metrics.bundles.Add(float64(produced))
}

// --- Bundles ---

func (s *Server) handleListBundles(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"bundles": summarizeAll(s.studio.Bundles())})
}

func (s *Server) bundle(w http.ResponseWriter, r *http.Request) (brand.AssetBundle, bool) {
	b, err := s.studio.Bundle(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return brand.AssetBundle{}, false
	}
	return b, true
}

func (s *Server) handleGetBundle(w http.ResponseWriter, r *http.Request) {
	if b, ok := s.bundle(w, r); ok {
		respondJSON(w, http.StatusOK, summarize(b))
	}
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	b, ok := s.bundle(w, r)
	if !ok {
		return
	}
	filename := ""
	if r.URL.Query().Get("download") != "" {
		filename = export.MarkFilename(b)
	}
	writeMedia(w, b.PrimaryImage.MIMEType, b.PrimaryImage.Data, filename)
}

func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	b, ok := s.bundle(w, r)
	if !ok {
		return
	}
	thumb, err := palette.Thumbnail(b.PrimaryImage.Data, s.opts.ThumbnailSize)
	if err != nil {
		log.Warn().Err(err).Str("bundle_id", b.ID).Msg("Thumbnail failed, serving original")
		writeMedia(w, b.PrimaryImage.MIMEType, b.PrimaryImage.Data, "")
		return
	}
	writeMedia(w, "image/png", thumb, "")
}

func (s *Server) handleMoodboard(w http.ResponseWriter, r *http.Request) {
	b, ok := s.bundle(w, r)
	if !ok {
		return
	}
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 1 || n > len(b.Moodboard) {
		httpError(w, http.StatusNotFound, "moodboard image not found")
		return
	}
	m := b.Moodboard[n-1]
	writeMedia(w, m.MIMEType, m.Data, "")
}

func (s *Server) handleBlueprint(w http.ResponseWriter, r *http.Request) {
	b, ok := s.bundle(w, r)
	if !ok {
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	data, err := export.NewBlueprint(b).Encode(format)
	if err != nil {
		respondError(w, err)
		return
	}
	writeMedia(w, format.ContentType(), data, "")
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	b, ok := s.bundle(w, r)
	if !ok {
		return
	}
	data, err := export.Kit(b)
	if err != nil {
		respondError(w, err)
		return
	}
	writeMedia(w, "application/zip", data, export.KitFilename(b))
}

// --- Motion ---

type motionStatus struct {
	State   motion.State `json:"state"`
	URL     string       `json:"url,omitempty"`
	Code    string       `json:"code,omitempty"`
	Message string       `json:"message,omitempty"`
}

func (s *Server) motionStatus(id string) (motionStatus, error) {
	state, err := s.studio.MotionState(id)
	if err != nil {
		return motionStatus{}, err
	}
	st := motionStatus{State: state}
	switch state {
	case motion.StateDone:
		st.URL = "/api/bundles/" + id + "/motion/video"
	case motion.StateFailed:
		s.mu.Lock()
		jobErr := s.motionErrs[id]
		s.mu.Unlock()
		if jobErr != nil {
			st.Code = string(pipeline.CodeOf(jobErr))
			st.Message = pipeline.UserMessage(jobErr)
		}
	}
	return st, nil
}

// handleStartMotion starts the job in the background and returns immediately.
// A job already running or finished is not restarted.
func (s *Server) handleStartMotion(w http.ResponseWriter, r *http.Request) {
	b, ok := s.bundle(w, r)
	if !ok {
		return
	}
	if !s.studio.CredentialSelected() {
		respondError(w, &pipeline.Error{Code: pipeline.CodeCredentialInvalid, Slot: pipeline.NoSlot})
		return
	}

	st, err := s.motionStatus(b.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	if st.State == motion.StateDone {
		respondJSON(w, http.StatusOK, st)
		return
	}
	if st.State != motion.StateSubmitted && st.State != motion.StatePolling {
		s.startMotion(b.ID)
	}
	respondJSON(w, http.StatusAccepted, motionStatus{State: motion.StateSubmitted})
}

func (s *Server) startMotion(id string) {
	s.mu.Lock()
	delete(s.motionErrs, id)
	s.mu.Unlock()

	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()
		_, err := s.studio.SynthesizeMotion(s.base, id)
		outcome := "done"
		if err != nil {
			outcome = "failed"
			s.mu.Lock()
			s.motionErrs[id] = err
			s.mu.Unlock()
		}
		if s.metrics != nil {
			s.metrics.motionJobs.WithLabelValues(outcome).Inc()
		}
	}()
}

func (s *Server) handleMotionStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.motionStatus(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleMotionVideo(w http.ResponseWriter, r *http.Request) {
	b, ok := s.bundle(w, r)
	if !ok {
		return
	}
	if !b.HasMotion() {
		httpError(w, http.StatusNotFound, "motion asset not generated")
		return
	}
	writeMedia(w, b.MotionAsset.MIMEType, b.MotionAsset.Data, "")
}
