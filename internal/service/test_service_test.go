package service

import (
	"errors"
	"testing"

	"studyclass_backend/internal/model"
	"studyclass_backend/internal/util"
)

// memTestStore keeps the test/question/answer graph in maps so the
// authoring rules can be tested without a database.
type memTestStore struct {
	nextID    uint
	tests     map[uint]*model.Test
	questions map[uint]*model.Question
	answers   map[uint]*model.Answer
}

func newMemTestStore() *memTestStore {
	return &memTestStore{
		tests:     make(map[uint]*model.Test),
		questions: make(map[uint]*model.Question),
		answers:   make(map[uint]*model.Answer),
	}
}

func (m *memTestStore) Create(test *model.Test) error {
	m.nextID++
	test.ID = m.nextID
	m.tests[test.ID] = test
	return nil
}

func (m *memTestStore) FindByID(id uint) (*model.Test, error) {
	t, ok := m.tests[id]
	if !ok {
		return nil, errMissing
	}
	return t, nil
}

func (m *memTestStore) FindByIDFull(id uint) (*model.Test, error) {
	t, ok := m.tests[id]
	if !ok {
		return nil, errMissing
	}
	full := *t
	full.Questions = nil
	for _, q := range m.questions {
		if q.TestID == id {
			full.Questions = append(full.Questions, *m.questionWithAnswers(q))
		}
	}
	return &full, nil
}

func (m *memTestStore) FindAll() ([]model.Test, error) {
	var tests []model.Test
	for _, t := range m.tests {
		tests = append(tests, *t)
	}
	return tests, nil
}

func (m *memTestStore) FindByOwner(ownerID uint) ([]model.Test, error) {
	var tests []model.Test
	for _, t := range m.tests {
		if t.OwnerID == ownerID {
			tests = append(tests, *t)
		}
	}
	return tests, nil
}

func (m *memTestStore) Update(test *model.Test) error {
	m.tests[test.ID] = test
	return nil
}

func (m *memTestStore) Delete(test *model.Test) error {
	for id, q := range m.questions {
		if q.TestID == test.ID {
			for aid, a := range m.answers {
				if a.QuestionID == id {
					delete(m.answers, aid)
				}
			}
			delete(m.questions, id)
		}
	}
	delete(m.tests, test.ID)
	return nil
}

func (m *memTestStore) CreateQuestion(question *model.Question) error {
	m.nextID++
	question.ID = m.nextID
	m.questions[question.ID] = question
	return nil
}

func (m *memTestStore) questionWithAnswers(q *model.Question) *model.Question {
	full := *q
	full.Answers = nil
	for _, a := range m.answers {
		if a.QuestionID == q.ID {
			full.Answers = append(full.Answers, *a)
		}
	}
	return &full
}

func (m *memTestStore) FindQuestionByID(id uint) (*model.Question, error) {
	q, ok := m.questions[id]
	if !ok {
		return nil, errMissing
	}
	return m.questionWithAnswers(q), nil
}

func (m *memTestStore) UpdateQuestion(question *model.Question) error {
	stored, ok := m.questions[question.ID]
	if !ok {
		return errMissing
	}
	stored.Type = question.Type
	stored.Text = question.Text
	return nil
}

func (m *memTestStore) DeleteQuestion(question *model.Question) error {
	for id, a := range m.answers {
		if a.QuestionID == question.ID {
			delete(m.answers, id)
		}
	}
	delete(m.questions, question.ID)
	return nil
}

func (m *memTestStore) CreateAnswer(answer *model.Answer) error {
	m.nextID++
	answer.ID = m.nextID
	m.answers[answer.ID] = answer
	return nil
}

func (m *memTestStore) FindAnswerByID(id uint) (*model.Answer, error) {
	a, ok := m.answers[id]
	if !ok {
		return nil, errMissing
	}
	return a, nil
}

func (m *memTestStore) UpdateAnswer(answer *model.Answer) error {
	m.answers[answer.ID] = answer
	return nil
}

func (m *memTestStore) DeleteAnswer(answer *model.Answer) error {
	delete(m.answers, answer.ID)
	return nil
}

// testFixture wires a service over in-memory stores with two teachers,
// each owning one test with a choice question (two variants) and a text
// question (a canonical answer).
func testFixture(t *testing.T) (*TestService, map[string]uint) {
	t.Helper()

	users := &memUserStore{users: make(map[uint]*model.User)}
	addUser := func(id uint, role model.UserRole, last string) {
		u := &model.User{LastName: last, Role: role}
		u.ID = id
		users.users[id] = u
	}
	addUser(1, model.Teacher, "Ivanov")
	addUser(2, model.Teacher, "Petrov")
	addUser(3, model.Student, "Sidorov")

	s := NewTestService(newMemTestStore(), users)

	ids := make(map[string]uint)
	for teacher, prefix := range map[uint]string{1: "a", 2: "b"} {
		test, err := s.Create(teacher, "test "+prefix)
		if err != nil {
			t.Fatalf("create test: %v", err)
		}
		ids[prefix+"Test"] = test.ID

		choice, err := s.AddQuestion(test.ID, model.QuestionChoice, "pick one")
		if err != nil {
			t.Fatalf("add choice question: %v", err)
		}
		ids[prefix+"Choice"] = choice.ID
		variant, err := s.AddAnswerVariant(test.ID, choice.ID, "option", true)
		if err != nil {
			t.Fatalf("add variant: %v", err)
		}
		ids[prefix+"Variant"] = variant.ID

		text, err := s.AddQuestion(test.ID, model.QuestionText, "spell it")
		if err != nil {
			t.Fatalf("add text question: %v", err)
		}
		ids[prefix+"Text"] = text.ID
		if _, err := s.SetCorrectTextAnswer(test.ID, text.ID, "answer"); err != nil {
			t.Fatalf("set canonical answer: %v", err)
		}
	}
	return s, ids
}

func TestCreateRejectsNonTeacher(t *testing.T) {
	s, _ := testFixture(t)

	if _, err := s.Create(3, "student test"); !util.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestQuestionUnreachableThroughForeignTest(t *testing.T) {
	s, ids := testFixture(t)

	// Address teacher B's question through teacher A's test id, the way a
	// teacher who may edit only their own test would have to.
	if _, err := s.GetQuestion(ids["aTest"], ids["bChoice"]); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("get: expected not found, got %v", err)
	}
	if _, err := s.UpdateQuestion(ids["aTest"], ids["bChoice"], model.QuestionChoice, "defaced"); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("update: expected not found, got %v", err)
	}
	if err := s.DeleteQuestion(ids["aTest"], ids["bChoice"]); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("delete: expected not found, got %v", err)
	}

	question, err := s.GetQuestion(ids["bTest"], ids["bChoice"])
	if err != nil {
		t.Fatalf("question should survive under its own test: %v", err)
	}
	if question.Text != "pick one" {
		t.Fatalf("question text changed to %q", question.Text)
	}
}

func TestAnswersUnreachableThroughForeignTest(t *testing.T) {
	s, ids := testFixture(t)

	if _, err := s.AddAnswerVariant(ids["aTest"], ids["bChoice"], "planted", true); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("add variant: expected not found, got %v", err)
	}
	if _, err := s.SetCorrectTextAnswer(ids["aTest"], ids["bText"], "forged"); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("set canonical: expected not found, got %v", err)
	}
	if err := s.DeleteAnswer(ids["aTest"], ids["bVariant"]); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("delete answer: expected not found, got %v", err)
	}

	question, err := s.GetQuestion(ids["bTest"], ids["bChoice"])
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if len(question.Answers) != 1 || question.Answers[0].Text != "option" {
		t.Fatalf("variants changed: %+v", question.Answers)
	}
}

func TestQuestionOpsUnderOwnTest(t *testing.T) {
	s, ids := testFixture(t)

	updated, err := s.UpdateQuestion(ids["aTest"], ids["aChoice"], model.QuestionChoice, "pick two")
	if err != nil {
		t.Fatalf("update question: %v", err)
	}
	if updated.Text != "pick two" {
		t.Fatalf("text = %q", updated.Text)
	}

	// The canonical answer upsert edits the existing row in place.
	answer, err := s.SetCorrectTextAnswer(ids["aTest"], ids["aText"], "rewritten")
	if err != nil {
		t.Fatalf("set canonical answer: %v", err)
	}
	if !answer.Correct || answer.Text != "rewritten" {
		t.Fatalf("canonical answer = %+v", answer)
	}
	question, err := s.GetQuestion(ids["aTest"], ids["aText"])
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if len(question.Answers) != 1 {
		t.Fatalf("upsert duplicated the canonical answer: %d rows", len(question.Answers))
	}

	if err := s.DeleteAnswer(ids["aTest"], ids["aVariant"]); err != nil {
		t.Fatalf("delete own variant: %v", err)
	}
	if err := s.DeleteQuestion(ids["aTest"], ids["aChoice"]); err != nil {
		t.Fatalf("delete own question: %v", err)
	}
}

func TestAddAnswerVariantRejectsTextQuestion(t *testing.T) {
	s, ids := testFixture(t)

	if _, err := s.AddAnswerVariant(ids["aTest"], ids["aText"], "option", false); !util.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := s.SetCorrectTextAnswer(ids["aTest"], ids["aChoice"], "answer"); !util.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
