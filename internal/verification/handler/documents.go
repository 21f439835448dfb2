package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"verigate/internal/gateways/documents"
	"verigate/pkg/attrs"
	dErrors "verigate/pkg/domain-errors"
	"verigate/pkg/platform/httputil"
	"verigate/pkg/requestcontext"
)

// multipartOverhead leaves room for form fields and part headers around the file.
const multipartOverhead = 1 << 20

// HandleUploadDocument handles POST /v1/verifications/{requestID}/documents.
// The file is sent as the "file" part of a multipart form; "category" and
// "uploaded_by" are optional form fields.
func (h *Handler) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := requestcontext.TenantID(ctx)
	requestID := chi.URLParam(r, "requestID")

	r.Body = http.MaxBytesReader(w, r.Body, documents.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "document exceeds the 50 MiB limit"))
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "expected a multipart form"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "file is required"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read file"))
		return
	}

	meta := documents.Metadata{
		FileName:   header.Filename,
		MimeType:   partMimeType(header.Header.Get("Content-Type"), content),
		Category:   documents.Category(strings.TrimSpace(r.FormValue("category"))),
		UploadedBy: strings.TrimSpace(r.FormValue("uploaded_by")),
	}
	if meta.Category == "" {
		meta.Category = documents.CategoryVerification
	}

	stored, err := h.service.AttachEvidence(ctx, tenantID, requestID, content, meta)
	if err != nil {
		h.logger.WarnContext(ctx, "document upload failed",
			attrs.TenantID, tenantID,
			attrs.RequestID, requestID,
			attrs.Error, err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, stored)
}

// HandleDocumentURL handles GET /v1/documents/{documentID}/url?ttl=1h.
func (h *Handler) HandleDocumentURL(w http.ResponseWriter, r *http.Request) {
	ttl := documents.DefaultURLTTL
	if raw := r.URL.Query().Get("ttl"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "ttl must be a duration such as 15m or 2h"))
			return
		}
		ttl = d
	}

	url, err := h.service.EvidenceURL(r.Context(), chi.URLParam(r, "documentID"), ttl)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, DocumentURLResponse{
		URL:       url,
		ExpiresAt: requestcontext.Now(r.Context()).Add(ttl).UTC(),
	})
}

// HandleDeleteDocument handles DELETE /v1/documents/{documentID}.
func (h *Handler) HandleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.DeleteEvidence(ctx, requestcontext.TenantID(ctx), chi.URLParam(r, "documentID")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// partMimeType prefers the declared part type and sniffs the content when
// the client sent none or a generic one.
func partMimeType(declared string, content []byte) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(content))
	return mt
}
