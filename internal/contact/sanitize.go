package contact

import (
	"strings"
	"unicode/utf8"
)

// Sanitize returns a trimmed, length-capped copy of s with the email lower-cased.
// Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s Submission) Submission {
	return Submission{
		Name:    clean(s.Name, NameMaxLength),
		Email:   clean(strings.ToLower(strings.TrimSpace(s.Email)), EmailMaxLength),
		Subject: clean(s.Subject, SubjectMaxLength),
		Message: clean(s.Message, MessageMaxLength),
	}
}

func trimFields(s Submission) Submission {
	return Submission{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(s.Email),
		Subject: strings.TrimSpace(s.Subject),
		Message: strings.TrimSpace(s.Message),
	}
}

// clean trims, truncates to max runes, then trims again so a cut that lands
// on whitespace doesn't leave a trailing space behind.
func clean(v string, max int) string {
	return strings.TrimSpace(truncate(strings.TrimSpace(v), max))
}

func truncate(v string, max int) string {
	if utf8.RuneCountInString(v) <= max {
		return v
	}
	n := 0
	for i := range v {
		if n == max {
			return v[:i]
		}
		n++
	}
	return v
}
