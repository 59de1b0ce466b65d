package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// caseNumberPattern accepts plain numbers plus the slash or dash variants the
// registry uses, e.g. "1234", "1234/2023", "1234-1".
var caseNumberPattern = regexp.MustCompile(`^[0-9]+[/\-]?[0-9]*$`)

const (
	maxCaseNumberLen = 50
	minFilingYear    = 1950
)

// CaseTypes lists the case-type codes the Delhi High Court search accepts.
var CaseTypes = []string{
	"W.P.(C)",
	"CRL.A.",
	"CRL.M.C.",
	"FAO",
	"RFA",
	"CS(OS)",
	"CS(COMM)",
	"MAT.APP.",
	"CM(M)",
	"LPA",
	"ARB.P.",
	"O.M.P.(COMM)",
	"CO.PET.",
	"ITA",
	"BAIL APPLN.",
}

// IsValidCaseType reports whether t is a known case-type code.
func IsValidCaseType(t string) bool {
	for _, known := range CaseTypes {
		if strings.EqualFold(known, strings.TrimSpace(t)) {
			return true
		}
	}
	return false
}

// ValidateCaseNumber checks the registry number format and length.
func ValidateCaseNumber(number string) bool {
	number = strings.TrimSpace(number)
	if number == "" || len(number) > maxCaseNumberLen {
		return false
	}
	return caseNumberPattern.MatchString(number)
}

// ValidateFilingYear checks y is a plausible filing year: 1950 through the
// current year.
func ValidateFilingYear(y int) bool {
	return y >= minFilingYear && y <= time.Now().Year()
}

// ParseFilingYear parses and validates a filing year string.
func ParseFilingYear(s string) (int, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return y, ValidateFilingYear(y)
}

// SanitizeFilename strips characters that are unsafe in a filename, keeping
// letters, digits, dots, dashes and underscores.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// FormatDisplayDate converts a canonical YYYY-MM-DD date back to the
// DD/MM/YYYY form the court uses. Unparseable input is returned unchanged.
func FormatDisplayDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}
