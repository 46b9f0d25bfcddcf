package patient

import (
	"regexp"

	"github.com/medapp/clinic/internal/platform/validation"
)

const (
	NameMaxLength = 25
	PhoneLength   = 10
)

var (
	namePattern  = regexp.MustCompile(`^[A-Za-z \-']+$`)
	digitPattern = regexp.MustCompile(`^[0-9]+$`)
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
)

// rules run in order; the first failing one is reported.
var rules = []validation.Rule[*Patient]{
	{Field: "name", Fails: func(p *Patient) bool { return validation.Blank(p.Name) },
		Message: "Patient name cannot be blank"},
	{Field: "name", Fails: func(p *Patient) bool { return validation.Longer(p.Name, NameMaxLength) },
		Message: "Patient name cannot exceed 25 characters"},
	{Field: "name", Fails: func(p *Patient) bool { return validation.Mismatch(namePattern, p.Name) },
		Message: "Patient name can only contain letters, spaces, hyphens, and apostrophes"},

	{Field: "phone", Fails: func(p *Patient) bool { return validation.Blank(p.Phone) },
		Message: "Patient phone cannot be blank"},
	{Field: "phone", Fails: func(p *Patient) bool { return validation.LengthNot(p.Phone, PhoneLength) },
		Message: "Patient phone must be exactly 10 digits"},
	{Field: "phone", Fails: func(p *Patient) bool { return validation.Mismatch(digitPattern, p.Phone) },
		Message: "Patient phone must be exactly 10 digits"},

	{Field: "email", Fails: func(p *Patient) bool { return validation.Blank(p.Email) },
		Message: "Patient email cannot be blank"},
	{Field: "email", Fails: func(p *Patient) bool { return validation.Mismatch(emailPattern, p.Email) },
		Message: "Patient email must be a valid email address"},
}

// Validate checks p against the patient field rules.
func Validate(p *Patient) error {
	return validation.First(p, rules)
}
