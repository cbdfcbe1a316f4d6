package server

import (
	"encoding/json"
	stderrors "errors"
	"maps"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/framegrid/pkg/buildinfo"
	"github.com/matzehuels/framegrid/pkg/cache"
	"github.com/matzehuels/framegrid/pkg/errors"
	"github.com/matzehuels/framegrid/pkg/core/frameset"
	"github.com/matzehuels/framegrid/pkg/observability"
	"github.com/matzehuels/framegrid/pkg/pipeline"
	"github.com/matzehuels/framegrid/pkg/session"
	"github.com/matzehuels/framegrid/pkg/snapshot"
)

// Request is the body of the layout and render endpoints.
type Request struct {
	pipeline.Options

	// Session applies a stored session's deltas. Deltas in the request
	// take precedence for the paths they name.
	Session string `json:"session,omitempty"`
}

// LayoutResponse is returned by POST /v1/layout.
type LayoutResponse struct {
	DocHash    string            `json:"doc_hash"`
	LayoutHash string            `json:"layout_hash"`
	Cached     bool              `json:"cached"`
	Snapshot   snapshot.Snapshot `json:"snapshot"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      string `json:"code"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatText: "text/plain; charset=utf-8",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatTree: "image/svg+xml",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := buildinfo.Fields()
	body["status"] = "ok"
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx := r.Context()
	opts := req.Options

	doc, docHash, err := s.cfg.Runner.Load(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.applySession(r, req, docHash, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, hit, err := s.cfg.Runner.LayoutWithCacheInfo(ctx, doc, docHash, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := snapshot.Marshal(snap)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{
		DocHash:    docHash,
		LayoutHash: cache.Hash(data),
		Cached:     hit,
		Snapshot:   snap,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := req.Options

	format := r.URL.Query().Get("format")
	switch {
	case format != "":
	case len(opts.Formats) > 0:
		format = opts.Formats[0]
	default:
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	if v := r.URL.Query().Get("scale"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid scale %q", v))
			return
		}
		opts.Scale = n
	}
	if r.URL.Query().Has("labels") {
		opts.Labels = true
	}

	if req.Session != "" {
		_, docHash, err := s.cfg.Runner.Load(r.Context(), opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.applySession(r, req, docHash, &opts); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	result, err := s.cfg.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Layout-Hash", result.LayoutHash)
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Session != "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "session must not be set when creating a session"))
		return
	}
	ctx := r.Context()
	doc, docHash, err := s.cfg.Runner.Load(ctx, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := session.ValidateDeltas(req.Deltas); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess := session.New(docHash, doc.Width, doc.Height)
	sess.Merge(req.Deltas)
	if err := s.cfg.Sessions.Save(ctx, sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.cfg.Logger.Info("created session", "id", sess.ID, "document", docHash[:12])
	w.Header().Set("Location", "/v1/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.cfg.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleUpdateDeltas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := s.cfg.Sessions.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var deltas map[string]frameset.AxisDeltas
	if err := s.decode(w, r, &deltas); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := session.ValidateDeltas(deltas); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.Merge(deltas)
	if err := s.cfg.Sessions.Save(ctx, sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// applySession folds the deltas of req.Session into opts. The session must
// have been created for the same description.
func (s *Server) applySession(r *http.Request, req Request, docHash string, opts *pipeline.Options) error {
	if req.Session == "" {
		return nil
	}
	sess, err := s.cfg.Sessions.Get(r.Context(), req.Session)
	if err != nil {
		return err
	}
	if sess.Document != docHash {
		return errors.New(errors.ErrCodeInvalidInput, "session %s belongs to a different description", sess.ID)
	}
	merged := make(map[string]frameset.AxisDeltas, len(sess.Deltas)+len(req.Deltas))
	maps.Copy(merged, sess.Deltas)
	maps.Copy(merged, req.Deltas)
	opts.Deltas = merged
	return nil
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (Request, error) {
	var req Request
	if err := s.decode(w, r, &req); err != nil {
		return Request{}, err
	}
	req.Logger = s.cfg.Logger
	return req, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body: %v", err)
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		s.cfg.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		if code == errors.ErrCodeInternal {
			msg = "internal error"
		}
	}
	writeJSON(w, status, ErrorResponse{
		Code:      string(code),
		Error:     msg,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
