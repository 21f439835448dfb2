package providers

import (
	"strings"

	"verigate/internal/verification/models"
)

// SchoolAddress is the structured address school boards return.
type SchoolAddress struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	District string `json:"district"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

func (a SchoolAddress) Canonical() models.Address {
	return models.Address{
		Street:   a.Street,
		City:     a.City,
		District: a.District,
		State:    a.State,
		Pincode:  a.Pincode,
	}
}

// AffiliationLevel lists the stages a school is affiliated for.
type AffiliationLevel struct {
	Primary         bool `json:"primary"`
	UpperPrimary    bool `json:"upperPrimary"`
	Secondary       bool `json:"secondary"`
	SeniorSecondary bool `json:"seniorSecondary"`
}

// Programs renders affiliated stages and streams as canonical programs.
// Schools publish no intake, so Intake is zero.
func (l AffiliationLevel) Programs(affiliated bool, streams []string) []models.Program {
	var out []models.Program
	add := func(ok bool, name, level string) {
		if ok {
			out = append(out, models.Program{Name: name, Level: level, Approved: affiliated})
		}
	}
	add(l.Primary, "Primary", "primary")
	add(l.UpperPrimary, "Upper Primary", "upper_primary")
	add(l.Secondary, "Secondary", "secondary")
	add(l.SeniorSecondary, "Senior Secondary", "senior_secondary")
	for _, s := range streams {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, models.Program{Name: "Senior Secondary " + s, Level: "stream", Approved: affiliated})
		}
	}
	return out
}

// GradeFromMarks derives a letter grade from a percentage score.
func GradeFromMarks(marks float64) string {
	switch {
	case marks >= 90:
		return "A+"
	case marks >= 80:
		return "A"
	case marks >= 70:
		return "B+"
	case marks >= 60:
		return "B"
	case marks >= 50:
		return "C+"
	case marks >= 40:
		return "C"
	}
	return "D"
}
