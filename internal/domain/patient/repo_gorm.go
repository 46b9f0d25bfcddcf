package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medapp/clinic/internal/platform/orm"
)

type repoGorm struct{ db *gorm.DB }

func NewRepoGorm(db *gorm.DB) Repository { return &repoGorm{db: db} }

func (r *repoGorm) conn(ctx context.Context) *gorm.DB {
	return orm.DB(ctx, r.db)
}

func (r *repoGorm) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.conn(ctx).Create(p).Error
}

func (r *repoGorm) GetByPatientID(ctx context.Context, patientID string) (*Patient, error) {
	var p Patient
	err := r.conn(ctx).Where("patient_id = ?", patientID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoGorm) Update(ctx context.Context, p *Patient) error {
	res := r.conn(ctx).Model(&Patient{}).
		Where("patient_id = ?", p.PatientID).
		Updates(map[string]interface{}{
			"name":       p.Name,
			"phone":      p.Phone,
			"email":      p.Email,
			"updated_at": p.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoGorm) Delete(ctx context.Context, patientID string) error {
	res := r.conn(ctx).Where("patient_id = ?", patientID).Delete(&Patient{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoGorm) Exists(ctx context.Context, patientID string) (bool, error) {
	q := r.conn(ctx).Model(&Patient{}).Select("patient_id").Where("patient_id = ?", patientID)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "SHARE"})
	}
	var ids []string
	if err := q.Limit(1).Pluck("patient_id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func (r *repoGorm) Count(ctx context.Context) (int, error) {
	var n int64
	err := r.conn(ctx).Model(&Patient{}).Count(&n).Error
	return int(n), err
}

func (r *repoGorm) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int64
	if err := r.conn(ctx).Model(&Patient{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q := r.conn(ctx).Order("LENGTH(patient_id)").Order("patient_id").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	items := []*Patient{}
	if err := q.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, int(total), nil
}

func (r *repoGorm) HighestID(ctx context.Context) (string, error) {
	var ids []string
	err := r.conn(ctx).Model(&Patient{}).
		Order("LENGTH(patient_id) DESC").Order("patient_id DESC").
		Limit(1).Pluck("patient_id", &ids).Error
	if err != nil || len(ids) == 0 {
		return "", err
	}
	return ids[0], nil
}
