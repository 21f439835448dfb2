// Package attrs names the structured log keys shared across packages.
package attrs

const (
	TenantID   = "tenant_id"
	RequestID  = "request_id"
	ProviderID = "provider_id"
	SubjectID  = "subject_id"
	DocumentID = "document_id"
	JobID      = "job_id"
	Status     = "status"
	Error      = "error"
)

// ExtractString returns the string value for key in a slog-style
// [key1, value1, key2, value2, ...] slice, or "" when absent or not a string.
func ExtractString(kv []any, key string) string {
	for i := 0; i < len(kv)-1; i += 2 {
		k, ok := kv[i].(string)
		if !ok || k != key {
			continue
		}
		if v, ok := kv[i+1].(string); ok {
			return v
		}
	}
	return ""
}
