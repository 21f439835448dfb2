package cbse

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

const affiliatedBody = `{
	"schoolId": "S-1",
	"udiseCode": "07050123456",
	"affiliationNumber": "2730001234",
	"schoolName": "Delhi Public School",
	"address": {"street": "Mathura Road", "city": "New Delhi", "district": "South", "state": "Delhi", "pincode": "110003"},
	"affiliationStatus": "affiliated",
	"affiliationLevel": {"primary": true, "upperPrimary": true, "secondary": true, "seniorSecondary": true},
	"streams": ["science", "commerce"],
	"yearOfEstablishment": 1972,
	"management": "private_unaided"
}`

func newFixture(t *testing.T) (*Adapter, *providertest.Server) {
	t.Helper()
	srv := providertest.NewServer(t)
	srv.Handle(http.MethodPost, "/auth/token", http.StatusOK, `{"access_token":"cbse-token","expires_in":3600}`)
	deps := providertest.NewDeps(t)
	return New(Config{BaseURL: srv.URL, APIKey: "cbse-client"}, deps.Store, deps.Executor, deps.Logger), srv
}

func TestContract(t *testing.T) {
	contract.Run(t, func(t *testing.T) contract.Fixture {
		a, srv := newFixture(t)
		return contract.Fixture{
			Provider:          a,
			Server:            srv,
			SubjectID:         "2730001234",
			VerifyPath:        "/schools/affiliation/2730001234",
			EmptyBody:         `{}`,
			UnknownStatusBody: `{"affiliationNumber":"2730001234","affiliationStatus":"suspended"}`,
			ApprovedBody:      affiliatedBody,
			MissingKeyBody:    `{"schoolName":"Nameless","affiliationStatus":"affiliated"}`,
			PartialBody:       `{"affiliationNumber":"2730001234"}`,
			HealthPath:        "/schools/search",
		}
	})
}

func TestIdentifiers(t *testing.T) {
	assert.True(t, ValidAffiliationNumber("2730001234"))
	assert.True(t, ValidAffiliationNumber("2730-00-1234"))
	assert.False(t, ValidAffiliationNumber("273000123"))
	assert.False(t, ValidAffiliationNumber("27300012AB"))

	assert.Equal(t, "2730-00-1234", FormatAffiliationNumber("2730001234"))
	assert.Equal(t, "2730-00-1234", FormatAffiliationNumber("2730-00-1234"))
	assert.Equal(t, "12-34", FormatAffiliationNumber("12-34"))

	assert.True(t, ValidRollNumber("1234567"))
	assert.False(t, ValidRollNumber("123456"))
}

func TestVerifyInstitution(t *testing.T) {
	a, srv := newFixture(t)
	srv.Handle(http.MethodGet, "/schools/affiliation/2730001234", http.StatusOK, affiliatedBody)

	inst, err := a.VerifyInstitution(context.Background(), "2730001234")
	require.NoError(t, err)
	assert.Equal(t, "2730-00-1234", inst.InstitutionID)
	assert.Equal(t, "Delhi Public School", inst.Name)
	assert.Equal(t, "New Delhi", inst.Address.City)
	assert.False(t, inst.Regulated)
	assert.Len(t, inst.Programs, 6)

	auth := srv.Requests(http.MethodPost, "/auth/token")
	require.Len(t, auth, 1)
	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(auth[0].Body), &body))
	assert.Equal(t, "cbse_school cbse_result", body["scope"])
	assert.Equal(t, "cbse-client", body["client_id"])
}

func TestVerifyInstitutionRejectsMalformedNumber(t *testing.T) {
	a, srv := newFixture(t)
	_, err := a.VerifyInstitution(context.Background(), "12345")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
	assert.Equal(t, models.KindInvalidRequest, models.ErrorKindOf(err))
	assert.Zero(t, srv.Hits(http.MethodPost, "/auth/token"))
}

func TestAffiliationStatusMapping(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		status  string
		want    models.VerificationStatus
		warning string
	}{
		{"affiliated", models.StatusVerified, ""},
		{"temporary_affiliation", models.StatusVerified, "School has temporary affiliation - verify renewal status"},
		{"upgradation_pending", models.StatusVerified, "Upgradation to higher level is pending"},
		{"deaffiliated", models.StatusRejected, "School is no longer affiliated with CBSE"},
		{"closed", models.StatusRejected, "School is no longer affiliated with CBSE"},
		{"pending", models.StatusPending, "CBSE affiliation decision is pending"},
		{"withheld", models.StatusUnverified, "Unable to determine affiliation status"},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			inst := normalizeSchool(school{AffiliationNumber: "2730001234", AffiliationStatus: tt.status}, nil, now)
			assert.Equal(t, tt.want, inst.VerificationStatus)
			if tt.warning == "" {
				assert.Empty(t, inst.Warnings)
				return
			}
			assert.Contains(t, inst.Warnings, tt.warning)
			if tt.want != models.StatusPending {
				assert.NotEmpty(t, inst.Recommendations)
			}
		})
	}
}

func TestGetDetailsRoutesByIdentifier(t *testing.T) {
	a, srv := newFixture(t)
	srv.Handle(http.MethodGet, "/schools/udise/07050123456", http.StatusOK, affiliatedBody)
	srv.Handle(http.MethodGet, "/schools/affiliation/2730001234", http.StatusOK, affiliatedBody)

	_, err := a.GetDetails(context.Background(), "07050123456")
	require.NoError(t, err)
	_, err = a.GetDetails(context.Background(), "2730001234")
	require.NoError(t, err)

	assert.Equal(t, 1, srv.Hits(http.MethodGet, "/schools/udise/07050123456"))
	assert.Equal(t, 1, srv.Hits(http.MethodGet, "/schools/affiliation/2730001234"))
}

func TestSearch(t *testing.T) {
	a, srv := newFixture(t)
	srv.Handle(http.MethodGet, "/schools/search", http.StatusOK, `{"schools":[`+affiliatedBody+`],"total":45}`)

	page, err := a.Search(context.Background(), models.SearchFilters{State: "Delhi", Management: "private_unaided"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 45, page.Total)
	assert.Equal(t, 3, page.TotalPages)

	q := srv.Requests(http.MethodGet, "/schools/search")[0].Query
	assert.Equal(t, "cbse", q["board"][0])
	assert.Equal(t, "private_unaided", q["management"][0])
}

func TestVerifyStudent(t *testing.T) {
	a, srv := newFixture(t)
	srv.Handle(http.MethodGet, "/results/class12/1234567/2024", http.StatusOK, `{
		"rollNumber": "1234567",
		"schoolNumber": "27301",
		"subjects": [
			{"subjectCode": "041", "subjectName": "Mathematics", "totalMarks": 95, "grade": "A1"},
			{"subjectCode": "042", "subjectName": "Physics", "totalMarks": 88, "grade": "A2"}
		],
		"overallResult": {"cgpa": 9.4, "percentage": 91.5, "grade": "A1", "resultStatus": " compartment"},
		"certificateNumber": "CERT-77"
	}`)

	rec, err := a.VerifyStudent(context.Background(), models.StudentQuery{RollNumber: "1234567", Year: 2024, ClassLevel: 12})
	require.NoError(t, err)
	assert.Equal(t, "cbse_1234567_2024", rec.StudentID)
	assert.True(t, rec.IsAuthentic)
	assert.Equal(t, 91.5, rec.Result.Percentage)
	assert.Len(t, rec.Subjects, 2)
	assert.Equal(t, "CERT-77", rec.CertificateNumber)
	assert.False(t, rec.Incomplete)
}

func TestVerifyStudentEdgeCases(t *testing.T) {
	a, srv := newFixture(t)
	ctx := context.Background()

	_, err := a.VerifyStudent(ctx, models.StudentQuery{RollNumber: "12", Year: 2024, ClassLevel: 10})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)

	_, err = a.VerifyStudent(ctx, models.StudentQuery{RollNumber: "1234567", Year: 2024, ClassLevel: 11})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)

	srv.Handle(http.MethodGet, "/results/class10/1234567/2023", http.StatusOK, ``)
	rec, err := a.VerifyStudent(ctx, models.StudentQuery{RollNumber: "1234567", Year: 2023, ClassLevel: 10})
	require.NoError(t, err)
	assert.True(t, rec.Incomplete)
	assert.False(t, rec.IsAuthentic)
	assert.NotEmpty(t, rec.Warnings)

	srv.Handle(http.MethodGet, "/results/class10/7654321/2023", http.StatusOK, `{"rollNumber":"7654321","overallResult":{"resultStatus":"fail"}}`)
	rec, err = a.VerifyStudent(ctx, models.StudentQuery{RollNumber: "7654321", Year: 2023, ClassLevel: 10})
	require.NoError(t, err)
	assert.False(t, rec.IsAuthentic)
}
