package repository

import (
	"errors"

	"gorm.io/gorm"

	"studyclass_backend/internal/model"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

func (r *GroupRepository) Create(group *model.Group) error {
	return r.DB.Create(group).Error
}

func (r *GroupRepository) FindByID(id uint) (*model.Group, error) {
	var group model.Group
	err := r.DB.Preload("Owner").Preload("Students").First(&group, id).Error
	return &group, err
}

func (r *GroupRepository) FindAll() ([]model.Group, error) {
	var groups []model.Group
	err := r.DB.Preload("Owner").Order("name").Find(&groups).Error
	return groups, err
}

// FindByOwner returns the group owned by the teacher, or nil if they own
// none. The one-group-per-teacher rule makes "first match" well defined.
func (r *GroupRepository) FindByOwner(ownerID uint) (*model.Group, error) {
	var group model.Group
	err := r.DB.Preload("Students").Where("owner_id = ?", ownerID).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByStudent returns the group the student is enrolled in, or nil.
func (r *GroupRepository) FindByStudent(studentID uint) (*model.Group, error) {
	var group model.Group
	err := r.DB.
		Joins("JOIN group_students gs ON gs.group_id = study_groups.id").
		Where("gs.user_id = ?", studentID).
		First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) Save(group *model.Group) error {
	return r.DB.Save(group).Error
}

// Delete removes the group and cascades to its subjects and their
// lessons; memberships are cleared, the students themselves stay.
func (r *GroupRepository) Delete(group *model.Group) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var subjectIDs []uint
		if err := tx.Model(&model.Subject{}).
			Where("group_id = ?", group.ID).
			Pluck("id", &subjectIDs).Error; err != nil {
			return err
		}
		if err := deleteLessonsOfSubjects(tx, subjectIDs); err != nil {
			return err
		}
		if len(subjectIDs) > 0 {
			if err := tx.Where("group_id = ?", group.ID).Delete(&model.Subject{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(group).Association("Students").Clear(); err != nil {
			return err
		}
		return tx.Delete(group).Error
	})
}

// MoveStudent removes the student from `from` and enrolls them in `to` in
// one transaction; either side may be nil. The student is never visible in
// two groups at once.
func (r *GroupRepository) MoveStudent(student *model.User, from, to *model.Group) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if from != nil {
			if err := tx.Model(from).Association("Students").Delete(student); err != nil {
				return err
			}
		}
		if to != nil {
			if err := tx.Model(to).Association("Students").Append(student); err != nil {
				return err
			}
		}
		return nil
	})
}
