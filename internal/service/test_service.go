package service

import (
	"studyclass_backend/internal/model"
	"studyclass_backend/internal/util"
)

// TestStore is the slice of the test repository the authoring rules need.
// Narrow so the rules can be tested against an in-memory store.
type TestStore interface {
	Create(test *model.Test) error
	FindByID(id uint) (*model.Test, error)
	FindByIDFull(id uint) (*model.Test, error)
	FindAll() ([]model.Test, error)
	FindByOwner(ownerID uint) ([]model.Test, error)
	Update(test *model.Test) error
	Delete(test *model.Test) error
	CreateQuestion(question *model.Question) error
	FindQuestionByID(id uint) (*model.Question, error)
	UpdateQuestion(question *model.Question) error
	DeleteQuestion(question *model.Question) error
	CreateAnswer(answer *model.Answer) error
	FindAnswerByID(id uint) (*model.Answer, error)
	UpdateAnswer(answer *model.Answer) error
	DeleteAnswer(answer *model.Answer) error
}

// TestService is the authoring side: tests, their questions and answer
// variants. Questions and answers are owned by their test exclusively, so
// deletes cascade downward and every question/answer operation carries the
// test id it was addressed under: a question or answer reachable through a
// test the caller may edit but belonging to a different test reads as not
// found.
type TestService struct {
	Tests TestStore
	Users GroupUserStore
}

func NewTestService(tests TestStore, users GroupUserStore) *TestService {
	return &TestService{Tests: tests, Users: users}
}

func (s *TestService) List() ([]model.Test, error) {
	return s.Tests.FindAll()
}

func (s *TestService) ListForOwner(ownerID uint) ([]model.Test, error) {
	return s.Tests.FindByOwner(ownerID)
}

func (s *TestService) Get(id uint) (*model.Test, error) {
	test, err := s.Tests.FindByIDFull(id)
	if err != nil {
		return nil, util.ErrNotFound
	}
	return test, nil
}

func (s *TestService) Create(ownerID uint, name string) (*model.Test, error) {
	owner, err := s.Users.FindByID(ownerID)
	if err != nil {
		return nil, util.ErrNotFound
	}
	if owner.Role != model.Teacher {
		return nil, &util.ValidationError{Field: "owner", Reason: "user is not a teacher"}
	}

	test := &model.Test{OwnerID: ownerID, Name: name}
	if err := s.Tests.Create(test); err != nil {
		return nil, err
	}
	return test, nil
}

func (s *TestService) Update(id uint, name string, ownerID uint) (*model.Test, error) {
	test, err := s.Tests.FindByID(id)
	if err != nil {
		return nil, util.ErrNotFound
	}

	if ownerID != test.OwnerID {
		owner, err := s.Users.FindByID(ownerID)
		if err != nil {
			return nil, util.ErrNotFound
		}
		if owner.Role != model.Teacher {
			return nil, &util.ValidationError{Field: "owner", Reason: "user is not a teacher"}
		}
		test.OwnerID = ownerID
		test.Owner = nil
	}

	test.Name = name
	if err := s.Tests.Update(test); err != nil {
		return nil, err
	}
	return test, nil
}

func (s *TestService) Delete(id uint) error {
	test, err := s.Tests.FindByID(id)
	if err != nil {
		return util.ErrNotFound
	}
	return s.Tests.Delete(test)
}

// Owns gates the teacher-side authoring routes.
func (s *TestService) Owns(teacherID, testID uint) (bool, error) {
	test, err := s.Tests.FindByID(testID)
	if err != nil {
		return false, util.ErrNotFound
	}
	return test.OwnerID == teacherID, nil
}

func (s *TestService) AddQuestion(testID uint, qType model.QuestionType, text string) (*model.Question, error) {
	if _, err := s.Tests.FindByID(testID); err != nil {
		return nil, util.ErrNotFound
	}
	if qType != model.QuestionText && qType != model.QuestionChoice {
		return nil, &util.ValidationError{Field: "type", Reason: "must be text or choice"}
	}

	question := &model.Question{TestID: testID, Type: qType, Text: text}
	if err := s.Tests.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

// questionOf loads a question addressed through a test. A question that
// exists but belongs to another test is not found under this address.
func (s *TestService) questionOf(testID, questionID uint) (*model.Question, error) {
	question, err := s.Tests.FindQuestionByID(questionID)
	if err != nil {
		return nil, util.ErrNotFound
	}
	if question.TestID != testID {
		return nil, util.ErrNotFound
	}
	return question, nil
}

func (s *TestService) GetQuestion(testID, id uint) (*model.Question, error) {
	return s.questionOf(testID, id)
}

func (s *TestService) UpdateQuestion(testID, id uint, qType model.QuestionType, text string) (*model.Question, error) {
	question, err := s.questionOf(testID, id)
	if err != nil {
		return nil, err
	}
	if qType != model.QuestionText && qType != model.QuestionChoice {
		return nil, &util.ValidationError{Field: "type", Reason: "must be text or choice"}
	}

	question.Type = qType
	question.Text = text
	if err := s.Tests.UpdateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *TestService) DeleteQuestion(testID, id uint) error {
	question, err := s.questionOf(testID, id)
	if err != nil {
		return err
	}
	return s.Tests.DeleteQuestion(question)
}

// AddAnswerVariant adds one option to a choice question.
func (s *TestService) AddAnswerVariant(testID, questionID uint, text string, correct bool) (*model.Answer, error) {
	question, err := s.questionOf(testID, questionID)
	if err != nil {
		return nil, err
	}
	if question.Type != model.QuestionChoice {
		return nil, &util.ValidationError{Field: "question", Reason: "answer variants belong to choice questions"}
	}

	answer := &model.Answer{QuestionID: questionID, Text: text, Correct: correct}
	if err := s.Tests.CreateAnswer(answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// SetCorrectTextAnswer upserts the single canonical answer of a text
// question: the existing row is edited in place, otherwise one is created.
func (s *TestService) SetCorrectTextAnswer(testID, questionID uint, text string) (*model.Answer, error) {
	question, err := s.questionOf(testID, questionID)
	if err != nil {
		return nil, err
	}
	if question.Type != model.QuestionText {
		return nil, &util.ValidationError{Field: "question", Reason: "canonical answers belong to text questions"}
	}

	if len(question.Answers) > 0 {
		answer := question.Answers[0]
		answer.Text = text
		answer.Correct = true
		if err := s.Tests.UpdateAnswer(&answer); err != nil {
			return nil, err
		}
		return &answer, nil
	}

	answer := &model.Answer{QuestionID: questionID, Text: text, Correct: true}
	if err := s.Tests.CreateAnswer(answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// DeleteAnswer resolves the answer through its question before removing
// it, so an answer id from another teacher's test is not reachable here.
func (s *TestService) DeleteAnswer(testID, answerID uint) error {
	answer, err := s.Tests.FindAnswerByID(answerID)
	if err != nil {
		return util.ErrNotFound
	}
	if _, err := s.questionOf(testID, answer.QuestionID); err != nil {
		return err
	}
	return s.Tests.DeleteAnswer(answer)
}
