package repository

import (
	"gorm.io/gorm"

	"studyclass_backend/internal/model"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

func (r *TestRepository) Create(test *model.Test) error {
	return r.DB.Create(test).Error
}

func (r *TestRepository) FindByID(id uint) (*model.Test, error) {
	var test model.Test
	err := r.DB.Preload("Owner").First(&test, id).Error
	return &test, err
}

// FindByIDFull loads the whole question/answer graph, as needed by the
// scoring engine and the authoring views.
func (r *TestRepository) FindByIDFull(id uint) (*model.Test, error) {
	var test model.Test
	err := r.DB.
		Preload("Owner").
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("questions.id") }).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB { return db.Order("answers.id") }).
		First(&test, id).Error
	return &test, err
}

func (r *TestRepository) FindAll() ([]model.Test, error) {
	var tests []model.Test
	err := r.DB.Preload("Owner").Order("name").Find(&tests).Error
	return tests, err
}

func (r *TestRepository) FindByOwner(ownerID uint) ([]model.Test, error) {
	var tests []model.Test
	err := r.DB.Where("owner_id = ?", ownerID).Order("name").Find(&tests).Error
	return tests, err
}

func (r *TestRepository) Update(test *model.Test) error {
	return r.DB.Save(test).Error
}

// Delete removes the test together with its questions, their answers and
// every recorded try. Lessons pointing at the test lose the link but stay.
func (r *TestRepository) Delete(test *model.Test) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&model.Question{}).
			Where("test_id = ?", test.ID).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Answer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("test_id = ?", test.ID).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("test_id = ?", test.ID).Delete(&model.Try{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Lesson{}).
			Where("test_id = ?", test.ID).
			Update("test_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(test).Error
	})
}

func (r *TestRepository) CreateQuestion(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *TestRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("answers.id") }).
		First(&question, id).Error
	return &question, err
}

func (r *TestRepository) UpdateQuestion(question *model.Question) error {
	return r.DB.Omit("Answers").Save(question).Error
}

// DeleteQuestion removes the question and its answers.
func (r *TestRepository) DeleteQuestion(question *model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(question).Error
	})
}

func (r *TestRepository) CreateAnswer(answer *model.Answer) error {
	return r.DB.Create(answer).Error
}

func (r *TestRepository) FindAnswerByID(id uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.DB.First(&answer, id).Error
	return &answer, err
}

func (r *TestRepository) UpdateAnswer(answer *model.Answer) error {
	return r.DB.Save(answer).Error
}

func (r *TestRepository) DeleteAnswer(answer *model.Answer) error {
	return r.DB.Delete(answer).Error
}
