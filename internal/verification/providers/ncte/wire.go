package ncte

type session struct {
	SessionToken string `json:"sessionToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

type course struct {
	CourseName             string `json:"courseName"`
	CourseCode             string `json:"courseCode"`
	Duration               int    `json:"duration"`
	Intake                 int    `json:"intake"`
	ApprovedIntake         int    `json:"approvedIntake"`
	Status                 string `json:"status"`
	AcademicYear           string `json:"academicYear"`
	RecognitionOrderNumber string `json:"recognitionOrderNumber"`
	RecognitionDate        string `json:"recognitionDate"`
	ExpiryDate             string `json:"expiryDate"`
}

type institution struct {
	InstitutionID     string   `json:"institutionId"`
	ApplicationNumber string   `json:"ncteApplicationNumber"`
	InstitutionName   string   `json:"institutionName"`
	Address           string   `json:"address"`
	State             string   `json:"state"`
	District          string   `json:"district"`
	Pincode           string   `json:"pincode"`
	InstitutionType   string   `json:"institutionType"`
	EstablishmentYear int      `json:"establishmentYear"`
	Affiliation       string   `json:"affiliation"`
	Courses           []course `json:"courses"`
}

type verificationResult struct {
	InstitutionID       string      `json:"institutionId"`
	IsVerified          bool        `json:"isVerified"`
	VerificationDate    string      `json:"verificationDate"`
	ExpiryDate          string      `json:"expiryDate"`
	CoursesVerified     int         `json:"coursesVerified"`
	CoursesApproved     int         `json:"coursesApproved"`
	TotalApprovedIntake int         `json:"totalApprovedIntake"`
	Warnings            []string    `json:"warnings"`
	Details             institution `json:"details"`
}

type searchResult struct {
	Data       []institution `json:"data"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}
