package handler

import (
	"time"

	"verigate/internal/verification/models"
)

type ProvidersResponse struct {
	Providers []string `json:"providers"`
}

type DocumentURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuditLogResponse struct {
	Entries []models.AuditEntry `json:"entries"`
}
