package aicte

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verigate/internal/verification/models"
	"verigate/internal/verification/providers/contract"
	"verigate/internal/verification/providers/providertest"
)

const approvedBody = `{
	"institutionId": "1-12345",
	"aicteApplicationId": "APP-2025-77",
	"approvalOrderNumber": "F.No.Southern/1-12345",
	"approvalStatus": "approved",
	"approvalDate": "2025-06-01",
	"expiryDate": "2099-05-31",
	"approvedPrograms": [
		{"programName": "B.Tech CSE", "level": "degree", "intake": 120, "shift": 1, "academicYear": "2025-26"},
		{"programName": "MBA", "level": "post_graduation", "intake": 60, "shift": 1, "academicYear": "2025-26"}
	],
	"lastVerifiedAt": "2025-07-01T00:00:00Z"
}`

func newFixture(t *testing.T) (*Adapter, *providertest.Server) {
	t.Helper()
	srv := providertest.NewServer(t)
	srv.Handle(http.MethodPost, "/auth/token", http.StatusOK, `{"access_token":"aicte-token","expires_in":3600}`)
	deps := providertest.NewDeps(t)
	a := New(Config{BaseURL: srv.URL, APIKey: "key", SecretKey: "secret"}, deps.Store, deps.Executor, deps.Logger)
	return a, srv
}

func TestContract(t *testing.T) {
	contract.Run(t, func(t *testing.T) contract.Fixture {
		a, srv := newFixture(t)
		return contract.Fixture{
			Provider:             a,
			Server:               srv,
			SubjectID:            "1-12345",
			VerifyPath:           "/institutions/1-12345/approval-status",
			EmptyBody:            ``,
			UnknownStatusBody:    `{"institutionId":"1-12345","approvalStatus":"under_review"}`,
			ApprovedBody:         approvedBody,
			ExpiredApprovalBody:  `{"institutionId":"1-12345","approvalStatus":"approved","expiryDate":"2020-05-31 00:00:00"}`,
			MissingKeyBody:       `{"approvalStatus":"approved"}`,
			PartialBody:          `{"institutionId":"1-12345"}`,
			UnreadableExpiryBody: `{"institutionId":"1-12345","approvalStatus":"approved","expiryDate":"sometime in 2030"}`,
			HealthPath:           "/institutions/search",
		}
	})
}

func TestExchangeSendsClientCredentials(t *testing.T) {
	a, srv := newFixture(t)
	srv.Handle(http.MethodGet, "/institutions/1-12345/approval-status", http.StatusOK, approvedBody)

	_, err := a.VerifyInstitution(context.Background(), "1-12345")
	require.NoError(t, err)

	auth := srv.Requests(http.MethodPost, "/auth/token")
	require.Len(t, auth, 1)
	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(auth[0].Body), &body))
	assert.Equal(t, "client_credentials", body["grant_type"])
	assert.Equal(t, "key", body["client_id"])
	assert.Equal(t, "secret", body["client_secret"])
	assert.Equal(t, "aicte_read aicte_write", body["scope"])

	calls := srv.Requests(http.MethodGet, "/institutions/1-12345/approval-status")
	assert.Equal(t, "Bearer aicte-token", calls[0].Header.Get("Authorization"))
}

func TestNormalizeApproval(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	var approved approvalStatus
	require.NoError(t, json.Unmarshal([]byte(approvedBody), &approved))
	inst, err := normalizeApproval(approved, nil, now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, inst.VerificationStatus)
	assert.True(t, inst.Regulated)
	assert.Equal(t, "AICTE", inst.Approval.Authority)
	assert.Equal(t, "APP-2025-77", inst.Approval.ApplicationID)
	assert.Equal(t, 180, inst.TotalApprovedIntake())
	assert.Equal(t, now, inst.LastVerifiedAt)

	tests := []struct {
		name       string
		status     string
		conditions []string
		want       models.VerificationStatus
		warnings   int
		recs       int
	}{
		{"conditional", "conditional_approval", []string{"faculty ratio", "library"}, models.StatusVerified, 2, 2},
		{"conditional without conditions", "conditional_approval", nil, models.StatusVerified, 1, 0},
		{"pending", "pending", nil, models.StatusPending, 1, 0},
		{"expired", "expired", nil, models.StatusExpired, 1, 1},
		{"not approved", "not_approved", nil, models.StatusRejected, 0, 0},
		{"withdrawn", "withdrawn", nil, models.StatusRejected, 1, 0},
		{"unknown", "suspended", nil, models.StatusUnverified, 1, 0},
		{"missing status", "", nil, models.StatusPending, 1, 1},
		{"case insensitive", " Approved ", nil, models.StatusVerified, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := normalizeApproval(approvalStatus{
				InstitutionID:     "1-1",
				ApprovalStatus:    tt.status,
				SpecialConditions: tt.conditions,
			}, nil, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, inst.VerificationStatus)
			assert.Len(t, inst.Warnings, tt.warnings)
			assert.Len(t, inst.Recommendations, tt.recs)
		})
	}
}

func TestNonKeyTypeMismatchKeepsRecord(t *testing.T) {
	a, srv := newFixture(t)
	srv.Handle(http.MethodGet, "/institutions/1-9/approval-status", http.StatusOK,
		`{"institutionId":"1-9","approvalStatus":"approved","approvedPrograms":"n/a"}`)

	inst, err := a.VerifyInstitution(context.Background(), "1-9")
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, inst.VerificationStatus)
	assert.Empty(t, inst.Programs)
	require.Len(t, inst.Warnings, 1)
	assert.Contains(t, inst.Warnings[0], "approvedPrograms")
}

func TestGetDetails(t *testing.T) {
	a, srv := newFixture(t)
	srv.Handle(http.MethodGet, "/institutions/1-12345", http.StatusOK, `{
		"institutionId": "1-12345",
		"name": "Example Institute of Technology",
		"address": "12 College Road",
		"state": "Karnataka",
		"district": "Bengaluru Urban",
		"pincode": "560001",
		"type": "engineering",
		"establishmentYear": 1998,
		"coursesOffered": ["B.Tech CSE", "MBA"],
		"approvedIntake": 180
	}`)

	inst, err := a.GetDetails(context.Background(), "1-12345")
	require.NoError(t, err)
	assert.Equal(t, "Example Institute of Technology", inst.Name)
	assert.Equal(t, "560001", inst.Address.Pincode)
	assert.Equal(t, 1998, inst.EstablishmentYear)
	assert.Len(t, inst.Programs, 2)
	assert.Equal(t, models.StatusUnverified, inst.VerificationStatus)
}

func TestSearch(t *testing.T) {
	a, srv := newFixture(t)
	srv.Handle(http.MethodGet, "/institutions/search", http.StatusOK, `{
		"institutions": [
			{"institutionId": "1-1", "name": "A"},
			{"name": "no id"},
			{"institutionId": "1-2", "name": "B"}
		],
		"total": 42, "page": 2, "limit": 2, "totalPages": 21
	}`)

	page, err := a.Search(context.Background(), models.SearchFilters{State: "Kerala", YearFrom: 2000, Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "B", page.Items[1].Name)
	assert.Equal(t, 42, page.Total)
	assert.Equal(t, 21, page.TotalPages)

	req := srv.Requests(http.MethodGet, "/institutions/search")[0]
	assert.Equal(t, "Kerala", req.Query["state"][0])
	assert.Equal(t, "2000", req.Query["year_from"][0])
	assert.Equal(t, "2", req.Query["page"][0])
	assert.NotContains(t, req.Query, "district")
}
