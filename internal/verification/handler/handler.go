// Package handler exposes the verification service over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"verigate/internal/gateways/documents"
	"verigate/internal/verification/models"
	"verigate/internal/verification/orchestrator"
	"verigate/pkg/attrs"
	dErrors "verigate/pkg/domain-errors"
	"verigate/pkg/platform/httputil"
	"verigate/pkg/requestcontext"
)

// TenantHeader carries the calling tenant on tenant-scoped routes.
const TenantHeader = "X-Tenant-ID"

// Service is the verification surface the handler drives.
type Service interface {
	Providers() []string
	Verify(ctx context.Context, tenantID string, req models.VerificationRequest) (models.VerificationOutcome, error)
	BatchVerify(ctx context.Context, tenantID string, reqs []models.VerificationRequest) (*models.BatchJob, error)
	Verification(ctx context.Context, requestID string) (*models.VerificationOutcome, error)
	BatchJob(ctx context.Context, jobID string) (*models.BatchJob, error)
	UnifiedEntity(ctx context.Context, providerID, subjectID string) (*models.CanonicalInstitution, error)
	Score(ctx context.Context, providerID, subjectID string) (models.TierRecommendation, error)
	Search(ctx context.Context, providerID string, filters models.SearchFilters) (*orchestrator.CombinedResults, error)
	SystemStatus(ctx context.Context) models.SystemStatus
	AttachEvidence(ctx context.Context, tenantID, requestID string, content []byte, meta documents.Metadata) (documents.Stored, error)
	EvidenceURL(ctx context.Context, documentID string, ttl time.Duration) (string, error)
	DeleteEvidence(ctx context.Context, tenantID, documentID string) error
	RegisterTenant(ctx context.Context, t models.Tenant) (*models.Tenant, error)
	Summary(ctx context.Context, tenantID string, from, to time.Time) (*models.VerificationSummary, error)
	AuditLog(ctx context.Context, tenantID string, limit int) ([]models.AuditEntry, error)
}

// Handler wires verification endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts the /v1 routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/providers", h.HandleListProviders)
		r.Get("/providers/{provider}/entities/{subject}", h.HandleGetEntity)
		r.Get("/providers/{provider}/entities/{subject}/tier", h.HandleGetTier)
		r.Get("/providers/{provider}/search", h.HandleSearch)
		r.Get("/search", h.HandleSearch)
		r.Get("/health/providers", h.HandleSystemStatus)

		r.Get("/verifications/{requestID}", h.HandleGetVerification)
		r.Get("/batches/{jobID}", h.HandleGetBatch)
		r.Get("/documents/{documentID}/url", h.HandleDocumentURL)

		r.Group(func(r chi.Router) {
			r.Use(RequireTenant(h.logger))
			r.Post("/verifications", h.HandleVerify)
			r.Post("/verifications/batch", h.HandleBatchVerify)
			r.Post("/verifications/{requestID}/documents", h.HandleUploadDocument)
			r.Delete("/documents/{documentID}", h.HandleDeleteDocument)
		})

		r.Put("/tenants/{tenantID}", h.HandleRegisterTenant)
		r.Get("/tenants/{tenantID}/summary", h.HandleSummary)
		r.Get("/tenants/{tenantID}/audit", h.HandleAuditLog)
	})
}

// RequireTenant rejects requests without a tenant header and stores the
// tenant in the request context.
func RequireTenant(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID := r.Header.Get(TenantHeader)
			if tenantID == "" {
				logger.WarnContext(r.Context(), "missing tenant header",
					attrs.RequestID, requestcontext.RequestID(r.Context()),
					"path", r.URL.Path,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, TenantHeader+" header is required"))
				return
			}
			next.ServeHTTP(w, r.WithContext(requestcontext.WithTenantID(r.Context(), tenantID)))
		})
	}
}

// HandleVerify handles POST /v1/verifications.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	tenantID := requestcontext.TenantID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	outcome, err := h.service.Verify(ctx, tenantID, req.Domain())
	if err != nil {
		h.logger.WarnContext(ctx, "verification rejected",
			attrs.RequestID, requestID,
			attrs.TenantID, tenantID,
			attrs.ProviderID, req.ProviderID,
			attrs.Error, err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "verification completed",
		attrs.RequestID, requestID,
		attrs.TenantID, tenantID,
		attrs.ProviderID, outcome.ProviderID,
		attrs.Status, outcome.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, outcome)
}

// HandleBatchVerify handles POST /v1/verifications/batch.
func (h *Handler) HandleBatchVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	tenantID := requestcontext.TenantID(ctx)

	req, ok := httputil.DecodeAndPrepare[BatchVerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	job, err := h.service.BatchVerify(ctx, tenantID, req.Domain())
	if err != nil {
		h.logger.WarnContext(ctx, "batch verification rejected",
			attrs.RequestID, requestID,
			attrs.TenantID, tenantID,
			attrs.Error, err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, job)
}

func (h *Handler) HandleGetVerification(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.service.Verification(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, outcome)
}

func (h *Handler) HandleGetBatch(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.BatchJob(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, job)
}

func (h *Handler) HandleListProviders(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, ProvidersResponse{Providers: h.service.Providers()})
}

// HandleGetEntity handles GET /v1/providers/{provider}/entities/{subject}.
func (h *Handler) HandleGetEntity(w http.ResponseWriter, r *http.Request) {
	entity, err := h.service.UnifiedEntity(r.Context(), chi.URLParam(r, "provider"), chi.URLParam(r, "subject"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entity)
}

// HandleGetTier handles GET /v1/providers/{provider}/entities/{subject}/tier.
func (h *Handler) HandleGetTier(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Score(r.Context(), chi.URLParam(r, "provider"), chi.URLParam(r, "subject"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

// HandleSearch serves both the single-provider and the cross-provider search.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	filters, err := ParseSearchFilters(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	results, err := h.service.Search(r.Context(), chi.URLParam(r, "provider"), filters)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, results)
}

func (h *Handler) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.SystemStatus(r.Context()))
}

// HandleRegisterTenant handles PUT /v1/tenants/{tenantID}.
func (h *Handler) HandleRegisterTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[TenantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	tenant, err := h.service.RegisterTenant(ctx, req.Domain(chi.URLParam(r, "tenantID")))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tenant)
}

// HandleSummary handles GET /v1/tenants/{tenantID}/summary?from&to.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	from, to, err := ParseWindow(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	sum, err := h.service.Summary(r.Context(), chi.URLParam(r, "tenantID"), from, to)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sum)
}

// HandleAuditLog handles GET /v1/tenants/{tenantID}/audit?limit.
func (h *Handler) HandleAuditLog(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query(), "limit")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	entries, err := h.service.AuditLog(r.Context(), chi.URLParam(r, "tenantID"), limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AuditLogResponse{Entries: entries})
}
