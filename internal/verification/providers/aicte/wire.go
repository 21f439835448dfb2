package aicte

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type approvalStatus struct {
	InstitutionID       string            `json:"institutionId"`
	ApplicationID       string            `json:"aicteApplicationId"`
	ApprovalOrderNumber string            `json:"approvalOrderNumber"`
	ApprovalStatus      string            `json:"approvalStatus"`
	ApprovalDate        string            `json:"approvalDate"`
	ExpiryDate          string            `json:"expiryDate"`
	ApprovedPrograms    []approvedProgram `json:"approvedPrograms"`
	SpecialConditions   []string          `json:"specialConditions"`
	LastVerifiedAt      string            `json:"lastVerifiedAt"`
}

type approvedProgram struct {
	ProgramName  string `json:"programName"`
	Level        string `json:"level"`
	Intake       int    `json:"intake"`
	Shift        int    `json:"shift"`
	AcademicYear string `json:"academicYear"`
}

type institution struct {
	InstitutionID         string   `json:"institutionId"`
	Name                  string   `json:"name"`
	Address               string   `json:"address"`
	State                 string   `json:"state"`
	District              string   `json:"district"`
	Pincode               string   `json:"pincode"`
	Type                  string   `json:"type"`
	EstablishmentYear     int      `json:"establishmentYear"`
	AffiliationUniversity string   `json:"affiliationUniversity"`
	CoursesOffered        []string `json:"coursesOffered"`
	ApprovedIntake        int      `json:"approvedIntake"`
	CurrentIntake         int      `json:"currentIntake"`
	NBAAccredited         bool     `json:"nbaAccredited"`
}

type searchResponse struct {
	Institutions []institution `json:"institutions"`
	Total        int           `json:"total"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
	TotalPages   int           `json:"totalPages"`
}
