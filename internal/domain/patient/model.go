package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. ID is the storage surrogate key;
// PatientID is the business identifier ("PAT" + n) callers address it by.
type Patient struct {
	ID        uuid.UUID `db:"id" gorm:"type:uuid;primaryKey" json:"-"`
	PatientID string    `db:"patient_id" gorm:"column:patient_id;type:varchar(20);uniqueIndex;not null" json:"patient_id"`
	Name      string    `db:"name" gorm:"column:name;type:varchar(25);not null" json:"name"`
	Phone     string    `db:"phone" gorm:"column:phone;type:varchar(10);not null" json:"phone"`
	Email     string    `db:"email" gorm:"column:email;type:varchar(255);not null" json:"email"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at"`
}

func (Patient) TableName() string { return "patients" }

func (p *Patient) clone() *Patient {
	cp := *p
	return &cp
}
