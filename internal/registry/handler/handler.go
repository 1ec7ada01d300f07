// Package handler is the thin HTTP layer over the registry service. It
// delegates to the service without embedding business logic so transport
// concerns remain isolated.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mintguard/internal/platform/middleware"
	"mintguard/internal/registry/models"
	"mintguard/internal/registry/service"
	"mintguard/internal/registry/store/asset"
	"mintguard/internal/registry/validator"
	"mintguard/pkg/domain"
)

type Service interface {
	RegisterAsset(ctx context.Context, cfg validator.Config) (*asset.Definition, error)
	List(ctx context.Context) ([]*asset.Definition, error)
	Decide(ctx context.Context, anchor domain.Anchor, req *models.TransitionRequest) (service.Verdict, error)
	Apply(ctx context.Context, anchor domain.Anchor, req *models.TransitionRequest) (*models.RegistryRecord, error)
	Get(ctx context.Context, anchor domain.Anchor) (*models.RegistryRecord, error)
}

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// NewRouter wires all endpoints. adminGuard protects mutating admin routes;
// pass middleware.AdminJWT in production and an identity function in tests.
func NewRouter(h *Handler, adminGuard func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/assets", func(r chi.Router) {
		r.With(adminGuard).Post("/", h.handleRegisterAsset)
		r.Get("/", h.handleListAssets)
		r.Get("/{anchor}", h.handleGetRecord)
		r.Post("/{anchor}/transitions", h.handleApply)
		r.Post("/{anchor}/verdicts", h.handleDecide)
	})
	return r
}

func (h *Handler) handleRegisterAsset(w http.ResponseWriter, r *http.Request) {
	var body registerAssetRequest
	if err := decodeJSON(r, &body); err != nil {
		writeInvalidInput(w, err)
		return
	}
	cfg, err := body.toConfig()
	if err != nil {
		writeInvalidInput(w, err)
		return
	}
	def, err := h.svc.RegisterAsset(r.Context(), cfg)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	client := middleware.GetClientInfo(r.Context())
	h.logger.Info("asset registered",
		"anchor", def.Anchor, "subject", middleware.GetSubject(r.Context()),
		"client", client.Browser, "remote_ip", client.RemoteIP)
	writeJSON(w, http.StatusCreated, newDefinitionResponse(def))
}

func (h *Handler) handleListAssets(w http.ResponseWriter, r *http.Request) {
	defs, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	out := make([]definitionResponse, 0, len(defs))
	for _, def := range defs {
		out = append(out, newDefinitionResponse(def))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	anchor := domain.Anchor(chi.URLParam(r, "anchor"))
	rec, err := h.svc.Get(r.Context(), anchor)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleDecide returns the verdict without applying the transition; both
// accept and reject answer 200 with the verdict body.
func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	anchor := domain.Anchor(chi.URLParam(r, "anchor"))
	req, err := decodeTransition(r)
	if err != nil {
		writeInvalidInput(w, err)
		return
	}
	verdict, err := h.svc.Decide(r.Context(), anchor, req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newVerdictResponse(verdict))
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	anchor := domain.Anchor(chi.URLParam(r, "anchor"))
	req, err := decodeTransition(r)
	if err != nil {
		writeInvalidInput(w, err)
		return
	}
	rec, err := h.svc.Apply(r.Context(), anchor, req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}
