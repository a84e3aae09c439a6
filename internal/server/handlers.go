package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/xyplot/pkg/buildinfo"
	"github.com/matzehuels/xyplot/pkg/errors"
	"github.com/matzehuels/xyplot/pkg/pipeline"
	"github.com/matzehuels/xyplot/pkg/session"
	"github.com/matzehuels/xyplot/pkg/sweep"
)

// Response headers of a composed page.
const (
	HeaderPage          = "X-Page"
	HeaderTotalPages    = "X-Total-Pages"
	HeaderSweepComplete = "X-Sweep-Complete"
	HeaderCache         = "X-Cache"
)

// maxJSONBytes bounds JSON request bodies.
const maxJSONBytes = 1 << 20

type indexRequest struct {
	sweep.Dims
	Index int `json:"index"`
}

type sweepResponse struct {
	ID         string `json:"id"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleIndex maps one global index without registering a sweep.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := sweep.Index(req.Dims, req.Index)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCreateSweep(w http.ResponseWriter, r *http.Request) {
	opts := pipeline.DefaultOptions()
	if err := decodeJSON(r, &opts); err != nil {
		s.writeError(w, err)
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, err)
		return
	}

	sess := session.New(opts, s.sessionTTL)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store sweep"))
		return
	}

	s.logger.Info("sweep registered", "sweep", sess.ID, "iterations", opts.Total(), "pages", opts.TotalPages())
	writeJSON(w, http.StatusCreated, sweepResponse{
		ID:         sess.ID,
		Total:      opts.Total(),
		TotalPages: opts.TotalPages(),
	})
}

// handleStep feeds one uploaded image into its page. It answers 202 with
// the iteration record while the page accumulates and 200 with the
// composed page once it completes.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, sessionError(id, err))
		return
	}
	opts := sess.Options
	idx, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "index query parameter must be an integer"))
		return
	}
	rec, err := sweep.Index(opts.Dims, idx)
	if err != nil {
		s.writeError(w, err)
		return
	}

	img, err := pipeline.DecodeImage(http.MaxBytesReader(w, r.Body, s.maxUploadBytes))
	if err != nil {
		s.writeError(w, err)
		return
	}

	sess, err = s.sessions.Update(r.Context(), id, func(sess *session.Session) {
		if rec.Index == 0 {
			sess.Restart()
		}
		sess.Touch()
	})
	if err != nil {
		s.writeError(w, sessionError(id, err))
		return
	}
	res, err := s.runner.Step(r.Context(), id, rec, img, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if res.Blocked {
		writeJSON(w, http.StatusAccepted, rec)
		return
	}

	data, err := pipeline.EncodeBytes(res.Grid, opts.Format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sess, err = s.sessions.Update(r.Context(), id, func(sess *session.Session) { sess.MarkComplete(rec.PageNumber) })
	if err != nil {
		s.writeError(w, sessionError(id, err))
		return
	}

	h := w.Header()
	h.Set("Content-Type", pipeline.ContentType(opts.Format))
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set(HeaderPage, strconv.Itoa(rec.CurrentPage()))
	h.Set(HeaderTotalPages, strconv.Itoa(rec.TotalPages))
	h.Set(HeaderSweepComplete, strconv.FormatBool(sess.Done()))
	if res.CacheHit {
		h.Set(HeaderCache, "HIT")
	} else {
		h.Set(HeaderCache, "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleDeleteSweep(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, sessionError(id, err))
		return
	}
	if n := s.runner.Pages.Drop(id); n > 0 {
		s.logger.Info("dropped unfinished pages", "sweep", id, "pages", n)
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionError maps a session store error to an API error.
func sessionError(id string, err error) error {
	if stderrors.Is(err, session.ErrNotFound) {
		return errors.New(errors.ErrCodeNotFound, "unknown sweep %q", id)
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "sweep %s", id)
}

// =============================================================================
// Encoding
// =============================================================================

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.IsConfig(err), errors.Is(err, errors.ErrCodeIndexOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeCellPopulated):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}
