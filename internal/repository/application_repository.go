package repository

import (
	"gorm.io/gorm"

	"studyclass_backend/internal/model"
)

type ApplicationRepository struct {
	DB *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{DB: db}
}

func (r *ApplicationRepository) Create(application *model.Application) error {
	return r.DB.Create(application).Error
}

func (r *ApplicationRepository) FindByID(id uint) (*model.Application, error) {
	var application model.Application
	err := r.DB.First(&application, id).Error
	return &application, err
}

func (r *ApplicationRepository) FindAll() ([]model.Application, error) {
	var applications []model.Application
	err := r.DB.Order("created_at DESC").Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepository) Delete(application *model.Application) error {
	return r.DB.Delete(application).Error
}
