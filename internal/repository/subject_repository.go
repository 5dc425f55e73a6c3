package repository

import (
	"gorm.io/gorm"

	"studyclass_backend/internal/model"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

func (r *SubjectRepository) Create(subject *model.Subject) error {
	return r.DB.Create(subject).Error
}

func (r *SubjectRepository) FindByID(id uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.Preload("Group").First(&subject, id).Error
	return &subject, err
}

func (r *SubjectRepository) FindAll() ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.Preload("Group").Order("name").Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) FindByGroup(groupID uint) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.Where("group_id = ?", groupID).Order("name").Find(&subjects).Error
	return subjects, err
}

// FindByGroupOwner lists subjects of the group a teacher owns.
func (r *SubjectRepository) FindByGroupOwner(ownerID uint) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.
		Joins("JOIN study_groups g ON g.id = subjects.group_id").
		Where("g.owner_id = ?", ownerID).
		Order("subjects.name").
		Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) Update(subject *model.Subject) error {
	return r.DB.Save(subject).Error
}

// Delete removes the subject and cascades to its lessons.
func (r *SubjectRepository) Delete(subject *model.Subject) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteLessonsOfSubjects(tx, []uint{subject.ID}); err != nil {
			return err
		}
		return tx.Delete(subject).Error
	})
}
