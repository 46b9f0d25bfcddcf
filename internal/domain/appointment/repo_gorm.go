package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medapp/clinic/internal/platform/orm"
)

type repoGorm struct{ db *gorm.DB }

func NewRepoGorm(db *gorm.DB) Repository { return &repoGorm{db: db} }

func (r *repoGorm) conn(ctx context.Context) *gorm.DB {
	return orm.DB(ctx, r.db)
}

func byID(q *gorm.DB) *gorm.DB {
	return q.Order("LENGTH(appointment_id)").Order("appointment_id")
}

func (r *repoGorm) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return r.conn(ctx).Create(a).Error
}

func (r *repoGorm) GetByAppointmentID(ctx context.Context, appointmentID string) (*Appointment, error) {
	var a Appointment
	err := r.conn(ctx).Where("appointment_id = ?", appointmentID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.AptDate = a.AptDate.UTC()
	return &a, nil
}

func (r *repoGorm) Update(ctx context.Context, a *Appointment) error {
	res := r.conn(ctx).Model(&Appointment{}).
		Where("appointment_id = ?", a.AppointmentID).
		Updates(map[string]interface{}{
			"patient_id":  a.PatientID,
			"doctor_name": a.DoctorName,
			"apt_date":    a.AptDate,
			"description": a.Description,
			"updated_at":  a.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoGorm) Delete(ctx context.Context, appointmentID string) error {
	res := r.conn(ctx).Where("appointment_id = ?", appointmentID).Delete(&Appointment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoGorm) Exists(ctx context.Context, appointmentID string) (bool, error) {
	var n int64
	err := r.conn(ctx).Model(&Appointment{}).Where("appointment_id = ?", appointmentID).Count(&n).Error
	return n > 0, err
}

func (r *repoGorm) Count(ctx context.Context) (int, error) {
	var n int64
	err := r.conn(ctx).Model(&Appointment{}).Count(&n).Error
	return int(n), err
}

func (r *repoGorm) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	var total int64
	if err := r.conn(ctx).Model(&Appointment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q := byID(r.conn(ctx)).Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	items, err := r.find(q)
	return items, int(total), err
}

func (r *repoGorm) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	return r.find(byID(r.conn(ctx).Where("patient_id = ?", patientID)))
}

func (r *repoGorm) ListByDate(ctx context.Context, date time.Time) ([]*Appointment, error) {
	return r.find(byID(r.conn(ctx).Where("date(apt_date) = ?", date.Format(DateLayout))))
}

func (r *repoGorm) DeleteByPatient(ctx context.Context, patientID string) (int, error) {
	res := r.conn(ctx).Where("patient_id = ?", patientID).Delete(&Appointment{})
	return int(res.RowsAffected), res.Error
}

func (r *repoGorm) HighestID(ctx context.Context) (string, error) {
	var ids []string
	err := r.conn(ctx).Model(&Appointment{}).
		Order("LENGTH(appointment_id) DESC").Order("appointment_id DESC").
		Limit(1).Pluck("appointment_id", &ids).Error
	if err != nil || len(ids) == 0 {
		return "", err
	}
	return ids[0], nil
}

func (r *repoGorm) find(q *gorm.DB) ([]*Appointment, error) {
	items := []*Appointment{}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	for _, a := range items {
		a.AptDate = a.AptDate.UTC()
	}
	return items, nil
}
