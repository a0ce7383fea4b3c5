package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/digibouquet/pkg/buildinfo"
	"github.com/matzehuels/digibouquet/pkg/core/bouquet"
	"github.com/matzehuels/digibouquet/pkg/core/flower"
	"github.com/matzehuels/digibouquet/pkg/core/render"
	"github.com/matzehuels/digibouquet/pkg/core/render/layout"
	"github.com/matzehuels/digibouquet/pkg/errors"
	"github.com/matzehuels/digibouquet/pkg/pipeline"
	"github.com/matzehuels/digibouquet/pkg/share"
)

// =============================================================================
// Request and response bodies
// =============================================================================

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Raster  bool   `json:"raster"`
}

type flowersResponse struct {
	Flowers    []flower.Type `json:"flowers"`
	Default    string        `json:"default"`
	MinFlowers int           `json:"minFlowers"`
	MaxFlowers int           `json:"maxFlowers"`
}

type layoutResponse struct {
	SpecHash string        `json:"specHash"`
	Layout   layout.Layout `json:"layout"`
}

// renderRequest is a pipeline.Options with a single output format.
type renderRequest struct {
	pipeline.Options
	Format string `json:"format,omitempty"`
}

type bouquetResponse struct {
	ID          string         `json:"id,omitempty"`
	URL         string         `json:"url"`
	ShareText   string         `json:"shareText"`
	WhatsAppURL string         `json:"whatsappUrl"`
	Bouquet     *share.Bouquet `json:"bouquet"`
}

type linkResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

func newBouquetResponse(b *share.Bouquet) bouquetResponse {
	return bouquetResponse{
		ID:          b.ID,
		URL:         b.URL,
		ShareText:   share.ShareText(b),
		WhatsAppURL: share.WhatsAppURL(b),
		Bouquet:     b,
	}
}

// =============================================================================
// Service endpoints
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Raster:  render.Available(),
	})
}

// handleFlowers lists the catalog. ?q= filters it by key or name.
func (s *Server) handleFlowers(w http.ResponseWriter, r *http.Request) {
	types := flower.All()
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		types = flower.Search(q)
	}
	respondJSON(w, http.StatusOK, flowersResponse{
		Flowers:    types,
		Default:    flower.DefaultKey,
		MinFlowers: bouquet.MinAuthoringFlowers,
		MaxFlowers: bouquet.MaxFlowers,
	})
}

// =============================================================================
// Pipeline endpoints
// =============================================================================

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if !s.decodeJSON(w, r, &opts) {
		return
	}
	s.applyDefaults(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		s.fail(w, r, err)
		return
	}

	l, hit, err := s.svc.Runner().GenerateLayoutWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	setCacheHeader(w, hit)
	respondJSON(w, http.StatusOK, layoutResponse{
		SpecHash: pipeline.SpecHash(opts.Spec),
		Layout:   l,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	opts := req.Options
	if req.Format != "" {
		opts.Formats = []string{req.Format}
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatSVG}
	}
	if len(opts.Formats) > 1 {
		s.respondError(w, r, http.StatusBadRequest, string(errors.ErrCodeInvalidFormat),
			"Render one format per request.")
		return
	}
	s.applyDefaults(&opts)

	res, err := s.svc.Runner().Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	format := opts.Formats[0]
	writeArtifact(w, format, res.Artifacts[format], res.CacheInfo.RenderHit)
}

// =============================================================================
// Stored bouquets
// =============================================================================

func (s *Server) handleCreateBouquet(w http.ResponseWriter, r *http.Request) {
	var d share.Draft
	if !s.decodeJSON(w, r, &d) {
		return
	}
	b, err := s.svc.Compose(r.Context(), d)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Location", b.URL)
	respondJSON(w, http.StatusCreated, newBouquetResponse(b))
}

func (s *Server) handleGetBouquet(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newBouquetResponse(b))
}

func (s *Server) handleBouquetImage(w http.ResponseWriter, r *http.Request) {
	opts, err := s.imageOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := s.svc.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderImage(w, r, b, opts)
}

// =============================================================================
// Self-contained links
// =============================================================================

func (s *Server) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	var d share.Draft
	if !s.decodeJSON(w, r, &d) {
		return
	}
	token, url, err := s.svc.EncodeLink(d)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, linkResponse{Token: token, URL: url})
}

func (s *Server) handleGetLink(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.DecodeLink(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newBouquetResponse(b))
}

func (s *Server) handleLinkImage(w http.ResponseWriter, r *http.Request) {
	opts, err := s.imageOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := s.svc.DecodeLink(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderImage(w, r, b, opts)
}

// =============================================================================
// Helpers
// =============================================================================

// imageOptions reads the format from the path and the style from ?style=.
func (s *Server) imageOptions(r *http.Request) (pipeline.Options, error) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	if err := pipeline.ValidateFormat(format); err != nil {
		return pipeline.Options{}, err
	}
	style := r.URL.Query().Get("style")
	if style == "" {
		style = s.cfg.DefaultStyle
	}
	if style != "" {
		if err := pipeline.ValidateStyle(style); err != nil {
			return pipeline.Options{}, err
		}
	}
	return pipeline.Options{Formats: []string{format}, Style: style}, nil
}

func (s *Server) renderImage(w http.ResponseWriter, r *http.Request, b *share.Bouquet, opts pipeline.Options) {
	artifacts, hit, err := s.svc.RenderWithCacheInfo(r.Context(), b, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	format := opts.Formats[0]
	w.Header().Set("Cache-Control", "public, max-age=86400")
	writeArtifact(w, format, artifacts[format], hit)
}

func (s *Server) applyDefaults(opts *pipeline.Options) {
	if opts.Style == "" {
		opts.Style = s.cfg.DefaultStyle
	}
	if opts.Width == 0 {
		opts.Width = s.cfg.Width
	}
	if opts.Height == 0 {
		opts.Height = s.cfg.Height
	}
}
