package repository

import (
	"gorm.io/gorm"

	"studyclass_backend/internal/model"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.
		Preload("Subject").
		Preload("Subject.Group").
		Preload("Photos").
		Preload("Test").
		First(&lesson, id).Error
	return &lesson, err
}

func (r *LessonRepository) FindAll() ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Preload("Subject").Order("name").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) FindBySubject(subjectID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("subject_id = ?", subjectID).Order("name").Find(&lessons).Error
	return lessons, err
}

// FindByGroupOwner lists lessons of all subjects of the teacher's group.
func (r *LessonRepository) FindByGroupOwner(ownerID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.
		Preload("Subject").
		Joins("JOIN subjects s ON s.id = lessons.subject_id").
		Joins("JOIN study_groups g ON g.id = s.group_id").
		Where("g.owner_id = ?", ownerID).
		Order("lessons.name").
		Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) ReplacePhotos(lesson *model.Lesson, photos []model.LessonPhoto) error {
	return r.DB.Model(lesson).Association("Photos").Replace(photos)
}

func (r *LessonRepository) Delete(lesson *model.Lesson) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(lesson).Association("Photos").Clear(); err != nil {
			return err
		}
		return tx.Delete(lesson).Error
	})
}

// deleteLessonsOfSubjects removes every lesson of the given subjects
// together with its photo attachments. Shared by the subject and group
// delete cascades.
func deleteLessonsOfSubjects(tx *gorm.DB, subjectIDs []uint) error {
	if len(subjectIDs) == 0 {
		return nil
	}
	var lessonIDs []uint
	if err := tx.Model(&model.Lesson{}).
		Where("subject_id IN ?", subjectIDs).
		Pluck("id", &lessonIDs).Error; err != nil {
		return err
	}
	if len(lessonIDs) == 0 {
		return nil
	}
	if err := tx.Exec("DELETE FROM lesson_photos_ref WHERE lesson_id IN ?", lessonIDs).Error; err != nil {
		return err
	}
	return tx.Where("subject_id IN ?", subjectIDs).Delete(&model.Lesson{}).Error
}

type LessonPhotoRepository struct {
	DB *gorm.DB
}

func NewLessonPhotoRepository(db *gorm.DB) *LessonPhotoRepository {
	return &LessonPhotoRepository{DB: db}
}

func (r *LessonPhotoRepository) Create(photo *model.LessonPhoto) error {
	return r.DB.Create(photo).Error
}

func (r *LessonPhotoRepository) FindByID(id uint) (*model.LessonPhoto, error) {
	var photo model.LessonPhoto
	err := r.DB.First(&photo, id).Error
	return &photo, err
}

func (r *LessonPhotoRepository) FindByIDs(ids []uint) ([]model.LessonPhoto, error) {
	var photos []model.LessonPhoto
	err := r.DB.Where("id IN ?", ids).Find(&photos).Error
	return photos, err
}

func (r *LessonPhotoRepository) FindByOwner(ownerID uint) ([]model.LessonPhoto, error) {
	var photos []model.LessonPhoto
	err := r.DB.Where("owner_id = ?", ownerID).Order("name").Find(&photos).Error
	return photos, err
}

func (r *LessonPhotoRepository) Update(photo *model.LessonPhoto) error {
	return r.DB.Save(photo).Error
}

// Delete removes the photo and every lesson attachment referencing it.
func (r *LessonPhotoRepository) Delete(photo *model.LessonPhoto) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM lesson_photos_ref WHERE lesson_photo_id = ?", photo.ID).Error; err != nil {
			return err
		}
		return tx.Delete(photo).Error
	})
}

// DeleteByOwner wipes a user's photo library, attachments included.
func (r *LessonPhotoRepository) DeleteByOwner(ownerID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var photoIDs []uint
		if err := tx.Model(&model.LessonPhoto{}).
			Where("owner_id = ?", ownerID).
			Pluck("id", &photoIDs).Error; err != nil {
			return err
		}
		if len(photoIDs) == 0 {
			return nil
		}
		if err := tx.Exec("DELETE FROM lesson_photos_ref WHERE lesson_photo_id IN ?", photoIDs).Error; err != nil {
			return err
		}
		return tx.Where("owner_id = ?", ownerID).Delete(&model.LessonPhoto{}).Error
	})
}
