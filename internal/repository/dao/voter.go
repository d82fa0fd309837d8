package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrVoterCNPExists = errors.New("voter with this CNP already exists")
	ErrVoterNotFound  = errors.New("voter not found")
)

type Voter struct {
	ID uint `gorm:"primaryKey"`

	CNP string `gorm:"size:13;not null;uniqueIndex:uni_voters_cnp"`

	CreatedAt time.Time `gorm:"not null"`
}

type VoterDAO struct {
	db *gorm.DB
}

func NewVoterDAO(db *gorm.DB) *VoterDAO {
	return &VoterDAO{
		db: db,
	}
}

func (d *VoterDAO) Insert(ctx context.Context, voter Voter) (Voter, error) {
	result := d.db.WithContext(ctx).Create(&voter)
	if result.Error != nil {
		if isUniqueViolation(result.Error, constraintVoterCNP) {
			return Voter{}, ErrVoterCNPExists
		}

		return Voter{}, result.Error
	}

	return voter, nil
}

func (d *VoterDAO) FindByID(ctx context.Context, id uint) (Voter, error) {
	var voter Voter

	result := d.db.WithContext(ctx).First(&voter, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Voter{}, ErrVoterNotFound
		}

		return Voter{}, result.Error
	}

	return voter, nil
}

func (d *VoterDAO) FindByCNP(ctx context.Context, cnp string) (Voter, error) {
	var voter Voter

	result := d.db.WithContext(ctx).First(&voter, "cnp = ?", cnp)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Voter{}, ErrVoterNotFound
		}

		return Voter{}, result.Error
	}

	return voter, nil
}
