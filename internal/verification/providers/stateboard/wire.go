package stateboard

import "verigate/internal/verification/providers"

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

type school struct {
	SchoolID                string                  `json:"schoolId"`
	UDISECode               string                  `json:"udiseCode"`
	BoardRegistrationNumber string                  `json:"boardRegistrationNumber"`
	SchoolName              string                  `json:"schoolName"`
	Address                 providers.SchoolAddress `json:"address"`
	DistrictCode            string                  `json:"districtCode"`
	SchoolCategory          string                  `json:"schoolCategory"`
	ManagementType          string                  `json:"managementType"`
	RecognitionStatus       string                  `json:"recognitionStatus"`
	Streams                 []string                `json:"streams"`
	YearOfEstablishment     int                     `json:"yearOfEstablishment"`
}

type searchResponse struct {
	Schools []school `json:"schools"`
	Total   int      `json:"total"`
}

type result struct {
	RollNumber         string `json:"rollNumber"`
	RegistrationNumber string `json:"registrationNumber"`
	SchoolCode         string `json:"schoolCode"`
	SchoolName         string `json:"schoolName"`
	Stream             string `json:"stream"`
	Subjects           []struct {
		SubjectCode    string  `json:"subjectCode"`
		SubjectName    string  `json:"subjectName"`
		TheoryMarks    float64 `json:"theoryMarks"`
		PracticalMarks float64 `json:"practicalMarks"`
		TotalMarks     float64 `json:"totalMarks"`
		Grade          string  `json:"grade"`
	} `json:"subjects"`
	Result struct {
		TotalMarks          float64  `json:"totalMarks"`
		Percentage          float64  `json:"percentage"`
		Division            string   `json:"division"`
		ResultStatus        string   `json:"resultStatus"`
		CompartmentSubjects []string `json:"compartmentSubjects"`
	} `json:"result"`
	PassCertificateNumber string `json:"passCertificateNumber"`
	MarksheetNumber       string `json:"marksheetNumber"`
	ResultDate            string `json:"resultDate"`
}
