// Package formats scores OCR text for format compliance per document type and
// parses out the structured identity fields. Validators are pure pattern
// matches: noisy OCR earns partial scores, never an error.
package formats

import (
	"regexp"
	"strings"
	"time"

	"veridoc/internal/domain"
)

// Result is a validator's verdict over one document's OCR text.
type Result struct {
	Total  int
	Fields domain.ExtractedFields
}

var (
	licenseNumberRe = regexp.MustCompile(`\b\d{12}\b`)
	idNumberRe      = regexp.MustCompile(`\b[A-Z0-9]{12}\b`)
	// dateRe accepts the separators French documents show up with after OCR.
	dateRe = regexp.MustCompile(`\b(\d{2})[/.\-](\d{2})[/.\-](\d{4})\b`)
	// nameRe matches all-uppercase word tokens of length >= 2, accents included.
	nameRe = regexp.MustCompile(`\b[A-ZÀ-ÖØ-Þ]{2,}\b`)
)

// idCardHeaders are the canonical markers printed on national identity cards.
var idCardHeaders = []string{
	"CARTE NATIONALE",
	"IDENTITE",
	"IDENTITÉ",
	"REPUBLIQUE",
	"RÉPUBLIQUE",
	"NATIONAL IDENTITY",
	"IDENTITY CARD",
}

// headerWords never count as name candidates; they are document boilerplate.
var headerWords = map[string]struct{}{
	"CARTE": {}, "NATIONALE": {}, "IDENTITE": {}, "IDENTITÉ": {},
	"REPUBLIQUE": {}, "RÉPUBLIQUE": {}, "FRANCAISE": {}, "FRANÇAISE": {},
	"NATIONAL": {}, "IDENTITY": {}, "CARD": {},
	"PERMIS": {}, "CONDUIRE": {}, "DE": {}, "DU": {}, "LA": {}, "LE": {},
}

// Validate dispatches on document type. Unknown types score zero.
func Validate(docType domain.DocumentType, text string, now time.Time) Result {
	switch docType {
	case domain.DocumentTypeDrivingLicense:
		return ValidateDrivingLicense(text, now)
	case domain.DocumentTypeIDCard:
		return ValidateIDCard(text)
	default:
		return Result{}
	}
}

// ValidateDrivingLicense scores a driving license's OCR text.
// Bands: 12-digit license number +30, date of birth +20, a second date +20,
// and a future expiry +30 (the last date token is read as the expiry).
func ValidateDrivingLicense(text string, now time.Time) Result {
	var r Result

	if num := licenseNumberRe.FindString(text); num != "" {
		r.Fields.LicenseNumber = num
		r.Total += 30
	}

	dates := dateRe.FindAllString(text, -1)
	if len(dates) > 0 {
		r.Fields.DateOfBirth = dates[0]
		r.Total += 20
	}
	if len(dates) >= 2 {
		r.Total += 20
		expiry := dates[len(dates)-1]
		r.Fields.ExpiryDate = expiry
		if t, ok := parseDate(expiry); ok {
			if t.After(now) {
				r.Fields.LicenseValid = true
				r.Total += 30
			} else {
				r.Fields.LicenseExpired = true
			}
		}
	}

	r.Fields.Names = nameCandidates(text)
	return r
}

// ValidateIDCard scores a national ID card's OCR text.
// Bands: 12-char alphanumeric number +40, canonical header +20, date of birth
// +20, and at least two uppercase name candidates +20.
func ValidateIDCard(text string) Result {
	var r Result

	if num := idNumberRe.FindString(text); num != "" {
		r.Fields.IDNumber = num
		r.Total += 40
	}

	upper := strings.ToUpper(text)
	for _, header := range idCardHeaders {
		if strings.Contains(upper, header) {
			r.Total += 20
			break
		}
	}

	if dob := dateRe.FindString(text); dob != "" {
		r.Fields.DateOfBirth = dob
		r.Total += 20
	}

	r.Fields.Names = nameCandidates(text)
	if len(r.Fields.Names) >= 2 {
		r.Total += 20
	}

	return r
}

// nameCandidates collects the uppercase tokens that plausibly name the holder,
// skipping document boilerplate and all-digit runs.
func nameCandidates(text string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, tok := range nameRe.FindAllString(text, -1) {
		if _, boilerplate := headerWords[tok]; boilerplate {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		names = append(names, tok)
	}
	return names
}

// parseDate interprets a matched date token as day-month-year.
func parseDate(token string) (time.Time, bool) {
	normalized := strings.NewReplacer(".", "/", "-", "/").Replace(token)
	t, err := time.Parse("02/01/2006", normalized)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
