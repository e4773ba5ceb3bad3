// Package server exposes the conversion engine as a JSON HTTP API.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"k8s.io/klog/v2"

	"attitude-engine/internal/imageio"
	"attitude-engine/internal/mathutil"
	"attitude-engine/internal/metrics"
	"attitude-engine/internal/preview"
	"attitude-engine/pkg/attitude"
)

const (
	maxBodyBytes     = 1 << 20
	// DegenerateHeader is set to "true" when the input was replaced by the identity.
	DegenerateHeader = "X-Attitude-Degenerate"
	stageDelayMs     = 800
)

// Defaults apply to requests that leave the corresponding field unset.
type Defaults struct {
	Order      string
	AutoShadow bool
	Degrees    bool
}

type Options struct {
	Engine   *attitude.Engine
	Renderer *preview.Renderer
	// Metrics, when set, instruments every route and serves /metrics.
	Metrics  *metrics.Recorder
	Defaults Defaults
}

// Server handles the API routes.
type Server struct {
	engine   *attitude.Engine
	renderer *preview.Renderer
	metrics  *metrics.Recorder
	defaults Defaults
	mux      *http.ServeMux
}

func New(opts Options) *Server {
	s := &Server{
		engine:   opts.Engine,
		renderer: opts.Renderer,
		metrics:  opts.Metrics,
		defaults: opts.Defaults,
		mux:      http.NewServeMux(),
	}
	if s.engine == nil {
		s.engine = attitude.NewEngine()
	}
	if s.renderer == nil {
		s.renderer = preview.NewRenderer(preview.DefaultOptions())
	}
	if s.defaults.Order == "" {
		s.defaults.Order = "ZYX"
	}

	s.handle("POST /api/convert", s.handleConvertInput)
	s.handle("POST /api/convert/{source}", s.handleConvert)
	s.handle("POST /api/preview/{source}", s.handlePreview)
	s.handle("GET /api/orders", s.handleOrders)
	s.handle("GET /api/version", s.handleVersion)
	s.handle("GET /api/health", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return s
}

func (s *Server) handle(pattern string, h http.HandlerFunc) {
	if s.metrics != nil {
		s.mux.Handle(pattern, s.metrics.Instrument(pattern, h))
		return
	}
	s.mux.Handle(pattern, h)
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		klog.InfoS("Starting attitude API", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	klog.InfoS("Shutting down attitude API")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": attitude.Version()})
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, attitude.EulerOrders())
}

// handleConvert takes the entry point's named parameters.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	res, _, ok := s.convertNamed(w, r)
	if !ok {
		return
	}
	s.writeResult(w, res)
}

// handleConvertInput takes the flat {source, values, ...} form.
func (s *Server) handleConvertInput(w http.ResponseWriter, r *http.Request) {
	var body struct {
		attitude.Input
		Degrees *bool `json:"degrees,omitempty"`
	}
	body.AutoShadow = s.defaults.AutoShadow
	if err := decode(r, w, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	in := body.Input
	if src, err := attitude.ParseSource(string(in.Source)); err == nil {
		in.Source = src
	}
	if in.Order == "" {
		in.Order = s.defaults.Order
	}
	if (body.Degrees == nil && s.defaults.Degrees) || (body.Degrees != nil && *body.Degrees) {
		in.AnglesToRadians()
	}

	res, err := s.engine.Convert(in)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.writeResult(w, res)
}

// handlePreview converts like handleConvert and answers with an image of the
// result: a still of the attitude, or with "stages" an animation of the Euler sequence.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	res, req, ok := s.convertNamed(w, r)
	if !ok {
		return
	}

	format := imageio.WebP
	if req.Format != "" {
		f, err := imageio.ParseFormat(req.Format)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		format = f
	}

	var buf bytes.Buffer
	if req.Stages {
		if format != imageio.WebP {
			writeError(w, http.StatusBadRequest, errors.New("stage animations are only available as webp"))
			return
		}
		e := res.Euler
		frames, err := s.renderer.RenderStages(e.Order, e.Angle1, e.Angle2, e.Angle3)
		if err == nil {
			err = imageio.EncodeAnimation(&buf, frames, stageDelayMs)
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	} else {
		img := s.renderer.Render(mathutil.Mat3FromRows(res.RotationMatrix.Matrix))
		if err := imageio.Encode(&buf, img, format); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	if res.Degenerate {
		w.Header().Set(DegenerateHeader, "true")
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		klog.ErrorS(err, "Failed to write image", "source", r.PathValue("source"))
	}
}

// convertNamed decodes a ConvertRequest for the {source} path value and runs it.
// On failure the error response is already written.
func (s *Server) convertNamed(w http.ResponseWriter, r *http.Request) (*attitude.ConversionResult, *ConvertRequest, bool) {
	source, err := attitude.ParseSource(r.PathValue("source"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return nil, nil, false
	}

	var req ConvertRequest
	if err := decode(r, w, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, nil, false
	}

	in, err := req.input(source, s.defaults)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, nil, false
	}

	res, err := s.engine.Convert(in)
	if err != nil {
		writeError(w, statusFor(err), err)
		return nil, nil, false
	}
	return res, &req, true
}

func (s *Server) writeResult(w http.ResponseWriter, res *attitude.ConversionResult) {
	if res.Degenerate {
		w.Header().Set(DegenerateHeader, "true")
	}
	writeJSON(w, http.StatusOK, res)
}

func decode(r *http.Request, w http.ResponseWriter, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// statusFor maps a conversion error on a request body to a status code. An
// unknown {source} path value is answered with 404 before the body is read.
func statusFor(err error) int {
	switch {
	case errors.Is(err, attitude.ErrInvalidOrder),
		errors.Is(err, attitude.ErrInputShape),
		errors.Is(err, attitude.ErrUnknownSource):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		klog.ErrorS(err, "Failed to write response")
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	klog.V(2).InfoS("Request failed", "code", code, "err", err)
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
