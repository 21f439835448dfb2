package providers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"verigate/internal/verification/models"
)

const (
	// WarnEmptyResponse is attached to snapshots built from a 2xx body that is
	// empty or carries no status.
	WarnEmptyResponse = "provider returned an empty or partial response; verification is incomplete"

	RecommendRetryLater = "Retry verification later or contact the authority directly"
)

// PendingInstitution is the snapshot for a 2xx response with no content.
func PendingInstitution(providerID, subjectID string, now time.Time) *models.CanonicalInstitution {
	return models.NewCanonicalInstitution(models.CanonicalInstitution{
		InstitutionID:      subjectID,
		ProviderID:         providerID,
		VerificationStatus: models.StatusPending,
		Warnings:           []string{WarnEmptyResponse},
		Recommendations:    []string{RecommendRetryLater},
	}, now)
}

// MarkIncomplete turns out into a pending snapshot. Adapters call it when a
// 2xx payload names the subject but carries no status field.
func MarkIncomplete(out *models.CanonicalInstitution) {
	out.VerificationStatus = models.StatusPending
	out.Warnings = append(out.Warnings, WarnEmptyResponse)
	out.Recommendations = append(out.Recommendations, RecommendRetryLater)
}

// ApplyExpiry sets the approval expiry from raw. A non-blank value in no
// known layout leaves the expiry unknown, so a verified snapshot is demoted
// to unverified. Call it after the status has been mapped.
func ApplyExpiry(out *models.CanonicalInstitution, field, raw string) {
	out.Approval.ExpiresAt = ParseDate(raw)
	if out.Approval.ExpiresAt != nil || strings.TrimSpace(raw) == "" {
		return
	}
	out.Warnings = append(out.Warnings, fmt.Sprintf("unreadable %s %q; approval currency unknown", field, raw))
	if out.VerificationStatus == models.StatusVerified {
		out.VerificationStatus = models.StatusUnverified
		out.Recommendations = append(out.Recommendations, "Confirm the approval expiry with the authority")
	}
}

// UnknownStatusWarning describes a status string the adapter cannot map.
func UnknownStatusWarning(field, value string) string {
	return fmt.Sprintf("unrecognized %s %q; treated as unverified", field, value)
}

// MissingKey is the NormalizationError for a payload without its identifier.
func MissingKey(providerID, field string) error {
	return &NormalizationError{ProviderID: providerID, Field: field, Reason: "identifying key missing"}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
	"02/01/2006",
	"02-01-2006",
}

// ParseDate accepts the date formats seen across providers. Unparseable or
// blank input yields nil.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// Normalize lowercases and trims a status token.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Digits strips everything but ASCII digits from s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PageQuery sets page and limit on q after applying paging defaults.
func PageQuery(q url.Values, f models.SearchFilters) {
	n := f.Normalized()
	q.Set("page", strconv.Itoa(n.Page))
	q.Set("limit", strconv.Itoa(n.Limit))
}

// SetQuery sets key on q when value is non-empty.
func SetQuery(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// SetQueryInt sets key on q when value is positive.
func SetQueryInt(q url.Values, key string, value int) {
	if value > 0 {
		q.Set(key, strconv.Itoa(value))
	}
}
