package appointment

import (
	"regexp"
	"time"

	"github.com/medapp/clinic/internal/platform/validation"
)

const (
	DoctorNameMaxLength  = 25
	DescriptionMaxLength = 40
)

var doctorPattern = regexp.MustCompile(`^[A-Za-z \-'.]+$`)

// rulesAt builds the ordered field rules, judging the date against now.
func rulesAt(now time.Time) []validation.Rule[*Appointment] {
	return []validation.Rule[*Appointment]{
		{Field: "patient_id", Fails: func(a *Appointment) bool { return validation.Blank(a.PatientID) },
			Message: "Patient ID cannot be blank"},

		{Field: "doctor_name", Fails: func(a *Appointment) bool { return validation.Blank(a.DoctorName) },
			Message: "Doctor name cannot be blank"},
		{Field: "doctor_name", Fails: func(a *Appointment) bool { return validation.Longer(a.DoctorName, DoctorNameMaxLength) },
			Message: "Doctor name cannot exceed 25 characters"},
		{Field: "doctor_name", Fails: func(a *Appointment) bool { return validation.Mismatch(doctorPattern, a.DoctorName) },
			Message: "Doctor name can only contain letters, spaces, hyphens, apostrophes, and periods"},

		{Field: "apt_date", Fails: func(a *Appointment) bool { return a.AptDate.IsZero() },
			Message: "Appointment date cannot be blank"},
		{Field: "apt_date", Fails: func(a *Appointment) bool { return validation.NotAfterDay(a.AptDate, now) },
			Message: "Appointment date must be in the future"},

		{Field: "description", Fails: func(a *Appointment) bool { return validation.Blank(a.Description) },
			Message: "Description cannot be blank"},
		{Field: "description", Fails: func(a *Appointment) bool { return validation.Longer(a.Description, DescriptionMaxLength) },
			Message: "Description cannot exceed 40 characters"},
	}
}

// Validate checks the field rules of a against the calendar day of now.
// Whether the referenced patient exists is checked separately by the service.
func Validate(a *Appointment, now time.Time) error {
	return validation.First(a, rulesAt(now))
}
