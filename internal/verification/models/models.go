package models

import (
	"time"
)

// SubjectKind distinguishes what a verification request is about.
type SubjectKind string

const (
	SubjectInstitution SubjectKind = "institution"
	SubjectStudent     SubjectKind = "student"
)

// VerificationStatus is the canonical verdict for an institution or school.
type VerificationStatus string

const (
	StatusVerified   VerificationStatus = "verified"
	StatusPending    VerificationStatus = "pending"
	StatusUnverified VerificationStatus = "unverified"
	StatusExpired    VerificationStatus = "expired"
	StatusRejected   VerificationStatus = "rejected"
)

// OutcomeStatus is the state of a single verification request.
type OutcomeStatus string

const (
	OutcomeVerified OutcomeStatus = "verified"
	OutcomePending  OutcomeStatus = "pending"
	OutcomeFailed   OutcomeStatus = "failed"
)

// HealthStatus classifies a provider probe.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthDegraded HealthStatus = "degraded"
	HealthDown     HealthStatus = "down"
)

// Tier is a subscription tier recommendation.
type Tier string

const (
	TierStarter    Tier = "starter"
	TierGrowth     Tier = "growth"
	TierScale      Tier = "scale"
	TierEnterprise Tier = "enterprise"
)

type Address struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	District string `json:"district"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

type Approval struct {
	Authority     string     `json:"authority"`
	ApplicationID string     `json:"application_id"`
	Status        string     `json:"status"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

type Program struct {
	Name     string `json:"name"`
	Level    string `json:"level"`
	Intake   int    `json:"intake"`
	Approved bool   `json:"approved"`
}

type ExamResult struct {
	Percentage float64 `json:"percentage"`
	Grade      string  `json:"grade"`
}

type SubjectMark struct {
	Name  string  `json:"name"`
	Marks float64 `json:"marks"`
	Grade string  `json:"grade"`
}

// ProviderHealth is the result of the most recent probe of one provider.
type ProviderHealth struct {
	ProviderID string       `json:"provider_id"`
	Status     HealthStatus `json:"status"`
	LatencyMs  int64        `json:"latency_ms"`
	CheckedAt  time.Time    `json:"checked_at"`
	Error      string       `json:"error,omitempty"`
}

// SystemStatus aggregates provider health with operator guidance.
type SystemStatus struct {
	Healthy         bool             `json:"healthy"`
	Providers       []ProviderHealth `json:"providers"`
	Recommendations []string         `json:"recommendations"`
}

// TierRecommendation explains a recommended subscription tier.
type TierRecommendation struct {
	RecommendedTier Tier     `json:"recommended_tier"`
	Score           int      `json:"score"`
	Reasoning       []string `json:"reasoning"`
}

// Tenant is the organization a verification is performed for.
type Tenant struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	SubscriptionID string `json:"subscription_id"`
	ContactEmail   string `json:"contact_email"`
	ContactName    string `json:"contact_name"`
}

// AuditEntry is one append-only record of a verification attempt.
type AuditEntry struct {
	ID         string        `json:"id"`
	TenantID   string        `json:"tenant_id"`
	RequestID  string        `json:"request_id"`
	ProviderID string        `json:"provider_id"`
	SubjectID  string        `json:"subject_id"`
	Action     string        `json:"action"`
	Status     OutcomeStatus `json:"status"`
	ErrorKind  ErrorKind     `json:"error_kind,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// VerificationSummary counts a tenant's verifications over a period.
type VerificationSummary struct {
	TenantID   string         `json:"tenant_id"`
	From       time.Time      `json:"from"`
	To         time.Time      `json:"to"`
	Total      int            `json:"total"`
	Verified   int            `json:"verified"`
	Pending    int            `json:"pending"`
	Failed     int            `json:"failed"`
	ByProvider map[string]int `json:"by_provider"`
}
