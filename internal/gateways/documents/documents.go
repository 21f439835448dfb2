// Package documents stores evidence attached to verifications.
package documents

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxUploadBytes is the largest accepted document.
const MaxUploadBytes = 50 << 20

// ErrInvalidDocument marks an upload rejected before it reached storage.
var ErrInvalidDocument = errors.New("invalid document")

// Category groups documents under their storage prefix.
type Category string

const (
	CategoryVerification Category = "verification_document"
	CategoryIDProof      Category = "id_proof"
	CategoryAddressProof Category = "address_proof"
	CategoryAcademic     Category = "academic_certificate"
	CategoryCompliance   Category = "compliance_document"
	CategoryOther        Category = "other"
)

var categories = []Category{
	CategoryVerification, CategoryIDProof, CategoryAddressProof,
	CategoryAcademic, CategoryCompliance, CategoryOther,
}

// AllowedMimeTypes lists the content types accepted for upload.
var AllowedMimeTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"image/gif",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var mimeExtensions = map[string]string{
	"application/pdf":    ".pdf",
	"image/jpeg":         ".jpg",
	"image/png":          ".png",
	"image/gif":          ".gif",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

// Metadata describes an upload.
type Metadata struct {
	TenantID   string   `json:"tenant_id"`
	RequestID  string   `json:"request_id"`
	FileName   string   `json:"file_name"`
	MimeType   string   `json:"mime_type"`
	Category   Category `json:"category"`
	UploadedBy string   `json:"uploaded_by,omitempty"`
}

// Stored identifies an uploaded document.
type Stored struct {
	DocumentID string `json:"document_id"`
	Location   string `json:"location"`
}

// Store is the document storage contract.
type Store interface {
	Upload(ctx context.Context, content []byte, meta Metadata) (Stored, error)
	GetDownloadURL(ctx context.Context, documentID string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, documentID string) (bool, error)
}

// Validate checks size, content type and category before upload.
func Validate(content []byte, meta Metadata) error {
	if len(content) == 0 {
		return fmt.Errorf("%w: empty content", ErrInvalidDocument)
	}
	if len(content) > MaxUploadBytes {
		return fmt.Errorf("%w: size %d exceeds %d bytes", ErrInvalidDocument, len(content), MaxUploadBytes)
	}
	if !slices.Contains(AllowedMimeTypes, meta.MimeType) {
		return fmt.Errorf("%w: content type %q is not allowed", ErrInvalidDocument, meta.MimeType)
	}
	if meta.Category != "" && !slices.Contains(categories, meta.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidDocument, meta.Category)
	}
	if strings.TrimSpace(meta.TenantID) == "" {
		return fmt.Errorf("%w: tenant is required", ErrInvalidDocument)
	}
	return nil
}

// NewDocumentID returns a fresh document id.
func NewDocumentID() string {
	return "doc_" + uuid.NewString()
}

var unsafeSegment = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// ObjectKey builds organizations/{tenant}/{category}/{yyyy}/{mm}/{id}{ext}.
func ObjectKey(meta Metadata, documentID string, now time.Time) string {
	category := meta.Category
	if category == "" {
		category = CategoryOther
	}
	return fmt.Sprintf("organizations/%s/%s/%04d/%02d/%s%s",
		unsafeSegment.ReplaceAllString(meta.TenantID, "_"),
		category,
		now.Year(), int(now.Month()),
		documentID,
		extension(meta),
	)
}

func extension(meta Metadata) string {
	ext := strings.ToLower(filepath.Ext(meta.FileName))
	if ext != "" && !unsafeSegment.MatchString(ext) {
		return ext
	}
	return mimeExtensions[meta.MimeType]
}
