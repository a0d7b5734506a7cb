package contact

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	got := Sanitize(Submission{
		Name:    "  Jo  ",
		Email:   "  Jo.Doe@Example.COM ",
		Subject: "\tHello there\n",
		Message: "  This is a message  ",
	})

	assert.Equal(t, Submission{
		Name:    "Jo",
		Email:   "jo.doe@example.com",
		Subject: "Hello there",
		Message: "This is a message",
	}, got)
}

func TestSanitize_Truncates(t *testing.T) {
	got := Sanitize(Submission{
		Name:    strings.Repeat("n", 150),
		Email:   strings.Repeat("E", 150) + "@example.com",
		Subject: strings.Repeat("s", 250),
		Message: strings.Repeat("m", 2500),
	})

	assert.Equal(t, NameMaxLength, utf8.RuneCountInString(got.Name))
	assert.Equal(t, EmailMaxLength, utf8.RuneCountInString(got.Email))
	assert.Equal(t, SubjectMaxLength, utf8.RuneCountInString(got.Subject))
	assert.Equal(t, MessageMaxLength, utf8.RuneCountInString(got.Message))
}

func TestSanitize_TruncatesOnRuneBoundary(t *testing.T) {
	got := Sanitize(Submission{Name: strings.Repeat("é", 120)})

	assert.True(t, utf8.ValidString(got.Name))
	assert.Equal(t, strings.Repeat("é", 100), got.Name)
}

func TestSanitize_EmailLowerCaseAndBounded(t *testing.T) {
	inputs := []string{
		"USER@EXAMPLE.COM",
		strings.Repeat("AbC", 60) + "@Example.Org",
		"   MiXeD@CaSe.Io   ",
		"",
	}

	for _, in := range inputs {
		got := Sanitize(Submission{Email: in}).Email
		assert.Equal(t, strings.ToLower(got), got)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), EmailMaxLength)
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []Submission{
		{},
		{Name: "  Jo  ", Email: " A@B.COM ", Subject: " Hello there ", Message: " This is a message "},
		// Cut lands right after a space: the second pass must not trim anything new.
		{Name: strings.Repeat("x", 99) + " tail", Message: strings.Repeat("ab ", 1000)},
		{Subject: strings.Repeat("ü ", 150), Email: strings.Repeat("Ä", 120)},
	}

	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once))
	}
}

func TestSanitize_DoesNotMutateInput(t *testing.T) {
	in := Submission{Name: "  Jo  ", Email: "A@B.COM"}
	_ = Sanitize(in)
	assert.Equal(t, "  Jo  ", in.Name)
	assert.Equal(t, "A@B.COM", in.Email)
}
