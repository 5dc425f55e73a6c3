package repository

import (
	"gorm.io/gorm"

	"studyclass_backend/internal/model"
)

// TryRepository is append-only from the student's side: tries are never
// edited. Rows disappear only when their test or their user goes away.
type TryRepository struct {
	DB *gorm.DB
}

func NewTryRepository(db *gorm.DB) *TryRepository {
	return &TryRepository{DB: db}
}

func (r *TryRepository) Create(try *model.Try) error {
	return r.DB.Create(try).Error
}

func (r *TryRepository) FindByTest(testID uint) ([]model.Try, error) {
	var tries []model.Try
	err := r.DB.Preload("User").Where("test_id = ?", testID).Order("created_at DESC").Find(&tries).Error
	return tries, err
}

func (r *TryRepository) FindByUserAndTest(userID, testID uint) ([]model.Try, error) {
	var tries []model.Try
	err := r.DB.Where("user_id = ? AND test_id = ?", userID, testID).Order("created_at DESC").Find(&tries).Error
	return tries, err
}

// DeleteByUser drops every try recorded for the user. Part of the account
// delete cascade.
func (r *TryRepository) DeleteByUser(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.Try{}).Error
}

// BestScore returns the highest score recorded for a test, 0 when nobody
// has tried it yet.
func (r *TryRepository) BestScore(testID uint) (float64, error) {
	var best float64
	err := r.DB.Model(&model.Try{}).
		Where("test_id = ?", testID).
		Select("COALESCE(MAX(score), 0)").
		Scan(&best).Error
	return best, err
}
