package cbse

import "verigate/internal/verification/providers"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type school struct {
	SchoolID            string                     `json:"schoolId"`
	UDISECode           string                     `json:"udiseCode"`
	AffiliationNumber   string                     `json:"affiliationNumber"`
	SchoolName          string                     `json:"schoolName"`
	Address             providers.SchoolAddress    `json:"address"`
	AffiliationStatus   string                     `json:"affiliationStatus"`
	AffiliationLevel    providers.AffiliationLevel `json:"affiliationLevel"`
	AffiliationType     string                     `json:"affiliationType"`
	Streams             []string                   `json:"streams"`
	YearOfEstablishment int                        `json:"yearOfEstablishment"`
	Management          string                     `json:"management"`
	Region              string                     `json:"region"`
	NextInspectionDue   string                     `json:"nextInspectionDue"`
}

type searchResponse struct {
	Schools []school `json:"schools"`
	Total   int      `json:"total"`
}

type studentResult struct {
	RollNumber       string         `json:"rollNumber"`
	EnrollmentNumber string         `json:"enrollmentNumber"`
	SchoolNumber     string         `json:"schoolNumber"`
	SchoolName       string         `json:"schoolName"`
	Subjects         []subjectMarks `json:"subjects"`
	OverallResult    overallResult  `json:"overallResult"`
	CertificateNo    string         `json:"certificateNumber"`
}

type subjectMarks struct {
	SubjectCode    string  `json:"subjectCode"`
	SubjectName    string  `json:"subjectName"`
	TheoryMarks    float64 `json:"theoryMarks"`
	PracticalMarks float64 `json:"practicalMarks"`
	TotalMarks     float64 `json:"totalMarks"`
	Grade          string  `json:"grade"`
}

type overallResult struct {
	CGPA         float64 `json:"cgpa"`
	Percentage   float64 `json:"percentage"`
	Grade        string  `json:"grade"`
	ResultStatus string  `json:"resultStatus"`
}
