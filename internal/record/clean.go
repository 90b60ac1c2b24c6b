package record

import (
	"strconv"
	"strings"
	"unicode"
)

// Placeholders substituted for absent fields when a record is displayed.
const (
	PlaceholderNotProvided = "NON FOURNI"
	PlaceholderToGenerate  = "À GÉNÉRER"
	PlaceholderDirect      = "DIRECT"
	PlaceholderUnknownName = "NOM INCONNU"
	PlaceholderToConfirm   = "À CONFIRMER"
	PlaceholderPlan        = "FIBRE"
	PlaceholderKeyName     = "Client"
)

// absentValues are the spreadsheet renderings of a missing cell, compared lower-cased.
var absentValues = map[string]struct{}{
	"":     {},
	"nan":  {},
	"none": {},
	"null": {},
	"nat":  {},
}

// CleanValue trims v and returns placeholder when v is one of the absent
// spellings. A numeric value carrying a trailing ".0" left by spreadsheet
// float coercion loses that suffix.
func CleanValue(v, placeholder string) string {
	v = strings.TrimSpace(v)
	if _, absent := absentValues[strings.ToLower(v)]; absent {
		return placeholder
	}
	if head, ok := strings.CutSuffix(v, ".0"); ok && head != "" {
		if _, err := strconv.ParseFloat(head, 64); err == nil {
			return head
		}
	}
	return v
}

// FormatPhone keeps only the digits of v. A nine digit number gets the
// leading zero of the local dialing plan; anything else is returned as is.
func FormatPhone(v string) string {
	v = CleanValue(v, "")
	if v == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 9 {
		return "0" + digits
	}
	return digits
}

const keyNameLimit = 15

// ArtifactKey derives the file stem shared by every artifact of one
// assignment: the first 15 letters or digits of the client name, an
// underscore, then the team name.
func ArtifactKey(clientName, team string) string {
	var b strings.Builder
	n := 0
	for _, r := range clientName {
		if n == keyNameLimit {
			break
		}
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
			n++
		}
	}
	return b.String() + "_" + team
}

var teamSeparators = strings.NewReplacer("/", "-", `\`, "-")

// SafeTeamName replaces path separators in a team name with "-". Team names
// end up in artifact keys and dashboard file names.
func SafeTeamName(team string) string {
	return teamSeparators.Replace(team)
}
