package stateboard

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verigate/internal/verification/models"
	"verigate/internal/verification/providers"
	"verigate/internal/verification/providers/contract"
	"verigate/internal/verification/providers/providertest"
)

const recognizedSchool = `{
	"schoolId": "MH-77",
	"udiseCode": "27251000101",
	"boardRegistrationNumber": "123456",
	"schoolName": "Sahyadri Vidyalaya",
	"address": {"street": "FC Road", "city": "Pune", "district": "Pune", "pincode": "411004"},
	"schoolCategory": "higher_secondary",
	"managementType": "government",
	"recognitionStatus": "recognized",
	"streams": ["science"],
	"yearOfEstablishment": 1961
}`

func success(data string) string {
	return `{"status":"success","data":` + data + `}`
}

func newFixture(t *testing.T, code string) (*Adapter, *providertest.Server) {
	t.Helper()
	board, ok := Lookup(code)
	require.True(t, ok)
	srv := providertest.NewServer(t)
	srv.Handle(http.MethodPost, "/auth/token", http.StatusOK, `{"success":true,"data":{"token":"board-token","expiresIn":1800}}`)
	deps := providertest.NewDeps(t)
	return New(board, Config{BaseURL: srv.URL, APIKey: code + "-key"}, deps.Store, deps.Executor, deps.Logger), srv
}

func TestContract(t *testing.T) {
	contract.Run(t, func(t *testing.T) contract.Fixture {
		a, srv := newFixture(t, "maharashtra")
		return contract.Fixture{
			Provider:          a,
			Server:            srv,
			SubjectID:         "123456",
			VerifyPath:        "/schools/123456",
			EmptyBody:         success(`null`),
			UnknownStatusBody: success(`{"boardRegistrationNumber":"123456","recognitionStatus":"under_review"}`),
			ApprovedBody:      success(recognizedSchool),
			MissingKeyBody:    success(`{"schoolName":"Nameless","recognitionStatus":"recognized"}`),
			PartialBody:       success(`{"boardRegistrationNumber":"123456"}`),
			HealthPath:        "/schools/search",
		}
	})
}

func TestBoards(t *testing.T) {
	all := Boards()
	require.Len(t, all, 8)
	codes := make([]string, 0, len(all))
	for _, b := range all {
		codes = append(codes, b.Code)
		assert.NotEmpty(t, b.DefaultBaseURL)
		assert.Len(t, b.StateCode, 2)
	}
	assert.ElementsMatch(t, []string{"up", "mp", "rajasthan", "maharashtra", "karnataka", "tamilnadu", "gujarat", "westbengal"}, codes)

	_, ok := Lookup("kerala")
	assert.False(t, ok)
}

func TestSchoolCodeFormats(t *testing.T) {
	tests := []struct {
		board string
		code  string
		want  bool
	}{
		{"up", "12345678", true},
		{"up", "1234567", false},
		{"mp", "123456", true},
		{"rajasthan", "123456", false},
		{"maharashtra", "12345", true},
		{"maharashtra", "12345678", false},
		{"karnataka", "12345678", true},
		{"tamilnadu", "12345", false},
		{"gujarat", "123456789012", true},
		{"westbengal", "1234", false},
	}
	for _, tt := range tests {
		t.Run(tt.board+"/"+tt.code, func(t *testing.T) {
			b, ok := Lookup(tt.board)
			require.True(t, ok)
			assert.Equal(t, tt.want, b.ValidSchoolCode(tt.code))
		})
	}
}

func TestVerifyInstitution(t *testing.T) {
	a, srv := newFixture(t, "maharashtra")
	srv.Handle(http.MethodGet, "/schools/123456", http.StatusOK, success(recognizedSchool))

	inst, err := a.VerifyInstitution(context.Background(), "123456")
	require.NoError(t, err)
	assert.Equal(t, "maharashtra", inst.ProviderID)
	assert.Equal(t, "Maharashtra", inst.Address.State, "board state fills a missing address state")
	assert.Equal(t, "Maharashtra State Board", inst.Approval.Authority)
	// higher_secondary covers secondary and senior secondary plus one stream
	assert.Len(t, inst.Programs, 3)

	auth := srv.Requests(http.MethodPost, "/auth/token")
	require.Len(t, auth, 1)
	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(auth[0].Body), &body))
	assert.Equal(t, "client_credentials", body["grant_type"])
	assert.Equal(t, "Bearer board-token", srv.Requests(http.MethodGet, "/schools/123456")[0].Header.Get("Authorization"))
}

func TestRecognitionMapping(t *testing.T) {
	a, _ := newFixture(t, "up")
	tests := []struct {
		status string
		want   models.VerificationStatus
	}{
		{"recognized", models.StatusVerified},
		{"unrecognized", models.StatusRejected},
		{"pending", models.StatusPending},
		{"suspended", models.StatusUnverified},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			inst := a.normalizeSchool(school{BoardRegistrationNumber: "12345678", RecognitionStatus: tt.status}, nil, a.now())
			assert.Equal(t, tt.want, inst.VerificationStatus)
			if tt.want != models.StatusVerified {
				assert.NotEmpty(t, inst.Warnings)
				assert.NotEmpty(t, inst.Recommendations)
			}
		})
	}
}

func TestFailedEnvelope(t *testing.T) {
	a, srv := newFixture(t, "gujarat")
	srv.Handle(http.MethodGet, "/schools/55555", http.StatusOK, `{"status":"error","error":"School not found"}`)
	srv.Handle(http.MethodGet, "/schools/66666", http.StatusOK, `{"success":false,"message":"maintenance window"}`)

	_, err := a.VerifyInstitution(context.Background(), "55555")
	require.Error(t, err)
	assert.True(t, providers.IsNotFound(err))

	_, err = a.VerifyInstitution(context.Background(), "66666")
	require.Error(t, err)
	assert.Equal(t, providers.CategoryUnavailable, providers.CategoryOf(err))
}

func TestSearch(t *testing.T) {
	a, srv := newFixture(t, "karnataka")
	srv.Handle(http.MethodGet, "/schools/search", http.StatusOK, success(`{"schools":[`+recognizedSchool+`],"total":1}`))

	page, err := a.Search(context.Background(), models.SearchFilters{District: "Mysuru", Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Page)

	q := srv.Requests(http.MethodGet, "/schools/search")[0].Query
	assert.Equal(t, "Mysuru", q["district"][0])
	assert.Equal(t, "5", q["limit"][0])
	assert.NotContains(t, q, "board")
}

func TestVerifyStudent(t *testing.T) {
	a, srv := newFixture(t, "rajasthan")
	srv.Handle(http.MethodGet, "/results/12th/45678/2024", http.StatusOK, success(`{
		"rollNumber": "45678",
		"schoolCode": "1234567",
		"subjects": [
			{"subjectName": "Hindi", "totalMarks": 84},
			{"subjectName": "Physics", "totalMarks": 39, "grade": "E"}
		],
		"result": {"percentage": 61.5, "division": "first", "resultStatus": "pass"},
		"passCertificateNumber": "RJ-2024-1"
	}`))
	srv.Handle(http.MethodGet, "/results/10th/45678/2023", http.StatusOK, success(`{}`))

	rec, err := a.VerifyStudent(context.Background(), models.StudentQuery{RollNumber: "45678", Year: 2024, ClassLevel: 12})
	require.NoError(t, err)
	assert.Equal(t, "rajasthan_45678_2024", rec.StudentID)
	assert.True(t, rec.IsAuthentic)
	assert.Equal(t, "first", rec.Result.Grade)
	require.Len(t, rec.Subjects, 2)
	assert.Equal(t, "A", rec.Subjects[0].Grade, "grade derived from marks")
	assert.Equal(t, "E", rec.Subjects[1].Grade)

	rec, err = a.VerifyStudent(context.Background(), models.StudentQuery{RollNumber: "45678", Year: 2023, ClassLevel: 10})
	require.NoError(t, err)
	assert.True(t, rec.Incomplete)

	_, err = a.VerifyStudent(context.Background(), models.StudentQuery{RollNumber: "123", Year: 2023, ClassLevel: 10})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}

func TestGradeFromMarks(t *testing.T) {
	cases := map[float64]string{95: "A+", 90: "A+", 85: "A", 72: "B+", 60: "B", 55: "C+", 40: "C", 12: "D"}
	for marks, want := range cases {
		assert.Equal(t, want, providers.GradeFromMarks(marks), "marks %v", marks)
	}
}
