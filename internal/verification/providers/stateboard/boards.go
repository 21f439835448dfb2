package stateboard

import (
	"regexp"
	"slices"
)

// Board describes one state education board.
type Board struct {
	Code           string
	Name           string
	State          string
	StateCode      string
	DefaultBaseURL string
	schoolCode     *regexp.Regexp
}

var (
	genericSchoolCode = regexp.MustCompile(`^\d{5,12}$`)
	rollPattern       = regexp.MustCompile(`^\d{4,7}$`)
)

var boards = []Board{
	{Code: "up", Name: "Uttar Pradesh Board", State: "Uttar Pradesh", StateCode: "09",
		DefaultBaseURL: "https://api.upmsce.edu.in", schoolCode: regexp.MustCompile(`^\d{8,11}$`)},
	{Code: "mp", Name: "Madhya Pradesh Board", State: "Madhya Pradesh", StateCode: "23",
		DefaultBaseURL: "https://api.mpbse.edu.in", schoolCode: regexp.MustCompile(`^\d{6,8}$`)},
	{Code: "rajasthan", Name: "Rajasthan Board", State: "Rajasthan", StateCode: "08",
		DefaultBaseURL: "https://api.rajsboard.edu.in", schoolCode: regexp.MustCompile(`^\d{7,9}$`)},
	{Code: "maharashtra", Name: "Maharashtra State Board", State: "Maharashtra", StateCode: "27",
		DefaultBaseURL: "https://api.msbshse.edu.in", schoolCode: regexp.MustCompile(`^\d{5,7}$`)},
	{Code: "karnataka", Name: "Karnataka Board", State: "Karnataka", StateCode: "29",
		DefaultBaseURL: "https://api.kseeb.edu.in", schoolCode: regexp.MustCompile(`^\d{5,8}$`)},
	{Code: "tamilnadu", Name: "Tamil Nadu Board", State: "Tamil Nadu", StateCode: "33",
		DefaultBaseURL: "https://api.dntert.gov.in", schoolCode: regexp.MustCompile(`^\d{6,8}$`)},
	{Code: "gujarat", Name: "Gujarat Board", State: "Gujarat", StateCode: "24",
		DefaultBaseURL: "https://api.gseb.org"},
	{Code: "westbengal", Name: "West Bengal Board", State: "West Bengal", StateCode: "19",
		DefaultBaseURL: "https://api.wbbpe.edu.in"},
}

// Boards lists every supported state board.
func Boards() []Board {
	return slices.Clone(boards)
}

// Lookup returns the board with the given code.
func Lookup(code string) (Board, bool) {
	i := slices.IndexFunc(boards, func(b Board) bool { return b.Code == code })
	if i < 0 {
		return Board{}, false
	}
	return boards[i], true
}

// ValidSchoolCode checks code against the board's registration number format.
func (b Board) ValidSchoolCode(code string) bool {
	if b.schoolCode == nil {
		return genericSchoolCode.MatchString(code)
	}
	return b.schoolCode.MatchString(code)
}

// ValidRollNumber accepts four to seven digit roll numbers.
func ValidRollNumber(roll string) bool {
	return rollPattern.MatchString(roll)
}
