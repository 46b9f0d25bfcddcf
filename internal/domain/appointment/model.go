package appointment

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format used on the wire.
const DateLayout = "2006-01-02"

// Appointment maps to the appointments table. AptDate carries only a calendar
// day, held as midnight UTC.
type Appointment struct {
	ID            uuid.UUID `db:"id" gorm:"type:uuid;primaryKey" json:"-"`
	AppointmentID string    `db:"appointment_id" gorm:"column:appointment_id;type:varchar(20);uniqueIndex;not null" json:"appointment_id"`
	PatientID     string    `db:"patient_id" gorm:"column:patient_id;type:varchar(20);index;not null" json:"patient_id"`
	DoctorName    string    `db:"doctor_name" gorm:"column:doctor_name;type:varchar(25);not null" json:"doctor_name"`
	AptDate       time.Time `db:"apt_date" gorm:"column:apt_date;type:date;index;not null" json:"apt_date"`
	Description   string    `db:"description" gorm:"column:description;type:varchar(40);not null" json:"description"`
	CreatedAt     time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime:false" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at"`
}

func (Appointment) TableName() string { return "appointments" }

func (a *Appointment) clone() *Appointment {
	cp := *a
	return &cp
}

type appointmentJSON struct {
	AppointmentID string    `json:"appointment_id"`
	PatientID     string    `json:"patient_id"`
	DoctorName    string    `json:"doctor_name"`
	AptDate       string    `json:"apt_date"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (a Appointment) MarshalJSON() ([]byte, error) {
	out := appointmentJSON{
		AppointmentID: a.AppointmentID,
		PatientID:     a.PatientID,
		DoctorName:    a.DoctorName,
		Description:   a.Description,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if !a.AptDate.IsZero() {
		out.AptDate = a.AptDate.Format(DateLayout)
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts apt_date as YYYY-MM-DD. An absent or empty date leaves
// AptDate zero so the date rule can report it.
func (a *Appointment) UnmarshalJSON(data []byte) error {
	var in appointmentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	var date time.Time
	if in.AptDate != "" {
		d, err := ParseDate(in.AptDate)
		if err != nil {
			return err
		}
		date = d
	}
	*a = Appointment{
		AppointmentID: in.AppointmentID,
		PatientID:     in.PatientID,
		DoctorName:    in.DoctorName,
		AptDate:       date,
		Description:   in.Description,
		CreatedAt:     in.CreatedAt,
		UpdatedAt:     in.UpdatedAt,
	}
	return nil
}

// ParseDate reads a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("apt_date must be formatted as YYYY-MM-DD: %q", s)
	}
	return d, nil
}
