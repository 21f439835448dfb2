package icse

import "verigate/internal/verification/providers"

type session struct {
	SessionToken string `json:"sessionToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

type school struct {
	SchoolID           string                  `json:"schoolId"`
	UDISECode          string                  `json:"udiseCode"`
	CouncilNumber      string                  `json:"councilNumber"`
	SchoolIndexNumber  string                  `json:"schoolIndexNumber"`
	SchoolName         string                  `json:"schoolName"`
	Address            providers.SchoolAddress `json:"address"`
	AffiliationStatus  string                  `json:"affiliationStatus"`
	AffiliationType    string                  `json:"affiliationType"`
	BoardType          string                  `json:"boardType"`
	EstablishedYear    int                     `json:"establishedYear"`
	RecognisedBy       []string                `json:"recognisedBy"`
	LastEvaluationDate string                  `json:"lastEvaluationDate"`
	NextEvaluationDue  string                  `json:"nextEvaluationDue"`
}

type searchResponse struct {
	Schools []school `json:"schools"`
	Total   int      `json:"total"`
}

type studentResult struct {
	IndexNumber    string          `json:"indexNumber"`
	SubjectOptions []subjectOption `json:"subjectOptions"`
	OverallResult  struct {
		TotalMarks   float64 `json:"totalMarks"`
		Percentage   float64 `json:"percentage"`
		Grade        string  `json:"grade"`
		ResultStatus string  `json:"resultStatus"`
	} `json:"overallResult"`
	SchoolCode        string `json:"schoolCode"`
	SchoolName        string `json:"schoolName"`
	ExamYear          int    `json:"examYear"`
	ExamMonth         string `json:"examMonth"`
	CertificateNumber string `json:"certificateNumber"`
}

type subjectOption struct {
	SubjectGroup string `json:"subjectGroup"`
	Subjects     []struct {
		SubjectCode string  `json:"subjectCode"`
		SubjectName string  `json:"subjectName"`
		Marks       float64 `json:"marks"`
		Grade       string  `json:"grade"`
	} `json:"subjects"`
}
