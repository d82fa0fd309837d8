package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrCandidateNotFound   = errors.New("candidate not found")
	ErrCandidateHasBallots = errors.New("candidate has ballots and cannot be deleted")
)

type Candidate struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string `gorm:"type:text;not null"`
	ImageURL    string `gorm:"not null"`
	Party       string `gorm:"size:32;not null;index"` // "PSD", "PNL", "POT", "AUR" or "Independent"
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type PartyCount struct {
	Party          string
	CandidateCount int64
}

type CandidateDAO struct {
	db *gorm.DB
}

func NewCandidateDAO(db *gorm.DB) *CandidateDAO {
	return &CandidateDAO{
		db: db,
	}
}

func (d *CandidateDAO) Insert(ctx context.Context, candidate Candidate) (Candidate, error) {
	result := d.db.WithContext(ctx).Create(&candidate)
	if result.Error != nil {
		return Candidate{}, result.Error
	}

	return candidate, nil
}

func (d *CandidateDAO) FindByID(ctx context.Context, id uint) (Candidate, error) {
	var candidate Candidate

	result := d.db.WithContext(ctx).First(&candidate, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Candidate{}, ErrCandidateNotFound
		}

		return Candidate{}, result.Error
	}

	return candidate, nil
}

func (d *CandidateDAO) FindAll(ctx context.Context) ([]Candidate, error) {
	var candidates []Candidate

	result := d.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&candidates)
	if result.Error != nil {
		return nil, result.Error
	}

	return candidates, nil
}

// Update writes every mutable column of candidate.
func (d *CandidateDAO) Update(ctx context.Context, candidate Candidate) (Candidate, error) {
	result := d.db.WithContext(ctx).
		Model(&Candidate{}).
		Where("id = ?", candidate.ID).
		Updates(map[string]any{
			"name":        candidate.Name,
			"description": candidate.Description,
			"image_url":   candidate.ImageURL,
			"party":       candidate.Party,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return Candidate{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Candidate{}, ErrCandidateNotFound
	}

	return d.FindByID(ctx, candidate.ID)
}

// Delete refuses to remove a candidate that ballots still reference; the
// ballots foreign key is declared ON DELETE RESTRICT.
func (d *CandidateDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Candidate{}, id)
	if result.Error != nil {
		if _, ok := isForeignKeyViolation(result.Error); ok {
			return ErrCandidateHasBallots
		}

		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCandidateNotFound
	}

	return nil
}

func (d *CandidateDAO) Count(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Candidate{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *CandidateDAO) CountByParty(ctx context.Context) ([]PartyCount, error) {
	var counts []PartyCount

	result := d.db.WithContext(ctx).
		Model(&Candidate{}).
		Select("party, COUNT(*) AS candidate_count").
		Group("party").
		Scan(&counts)
	if result.Error != nil {
		return nil, result.Error
	}

	return counts, nil
}
