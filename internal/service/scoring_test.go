package service

import (
	"math"
	"testing"

	"studyclass_backend/internal/model"
)

func choiceQuestion(id uint, answers ...model.Answer) model.Question {
	q := model.Question{Type: model.QuestionChoice, Answers: answers}
	q.ID = id
	return q
}

func textQuestion(id, answerID uint, canonical string) model.Question {
	a := model.Answer{Text: canonical}
	a.ID = answerID
	q := model.Question{Type: model.QuestionText, Answers: []model.Answer{a}}
	q.ID = id
	return q
}

func answer(id uint, text string, correct bool) model.Answer {
	a := model.Answer{Text: text, Correct: correct}
	a.ID = id
	return a
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateScore(t *testing.T) {
	tests := []struct {
		name      string
		questions []model.Question
		sheet     AnswerSheet
		want      float64
	}{
		{
			name:      "no questions",
			questions: nil,
			sheet:     AnswerSheet{},
			want:      0,
		},
		{
			name: "empty sheet on all-incorrect options is full credit",
			questions: []model.Question{
				choiceQuestion(1,
					answer(10, "red", false),
					answer(11, "green", false),
				),
			},
			sheet: AnswerSheet{},
			want:  100,
		},
		{
			name: "perfect choice and text",
			questions: []model.Question{
				choiceQuestion(1,
					answer(10, "2", false),
					answer(11, "4", true),
					answer(12, "5", false),
				),
				textQuestion(2, 20, "Paris"),
			},
			sheet: AnswerSheet{
				"11": "on",
				"20": "Paris",
			},
			want: 100,
		},
		{
			name: "perfect choice but blank text scores half",
			questions: []model.Question{
				choiceQuestion(1,
					answer(10, "2", false),
					answer(11, "4", true),
					answer(12, "5", false),
				),
				textQuestion(2, 20, "Paris"),
			},
			sheet: AnswerSheet{"11": "on"},
			want:  50,
		},
		{
			name: "one of two questions right",
			questions: []model.Question{
				textQuestion(1, 10, "Paris"),
				textQuestion(2, 20, "Berlin"),
			},
			sheet: AnswerSheet{
				"10": "Paris",
				"20": "Madrid",
			},
			want: 50,
		},
		{
			name: "text match ignores case and surrounding whitespace",
			questions: []model.Question{
				textQuestion(1, 10, "Paris"),
			},
			sheet: AnswerSheet{"10": "  pARIs "},
			want:  100,
		},
		{
			name: "text canonical itself padded",
			questions: []model.Question{
				textQuestion(1, 10, " Paris "),
			},
			sheet: AnswerSheet{"10": "paris"},
			want:  100,
		},
		{
			name: "partial credit per option",
			questions: []model.Question{
				// correct pattern is {10}, submitted {10, 11}:
				// 10 matches, 11 does not, 12 matches.
				choiceQuestion(1,
					answer(10, "a", true),
					answer(11, "b", false),
					answer(12, "c", false),
				),
			},
			sheet: AnswerSheet{
				"10": "on",
				"11": "on",
			},
			want: 100.0 * 2 / 3,
		},
		{
			name: "empty value counts as unchecked",
			questions: []model.Question{
				choiceQuestion(1,
					answer(10, "a", true),
					answer(11, "b", false),
				),
			},
			sheet: AnswerSheet{
				"10": "",
				"11": "",
			},
			want: 50,
		},
		{
			name: "unknown keys are ignored",
			questions: []model.Question{
				textQuestion(1, 10, "Paris"),
			},
			sheet: AnswerSheet{
				"10":  "Paris",
				"999": "on",
			},
			want: 100,
		},
		{
			name: "question without answers contributes nothing",
			questions: []model.Question{
				textQuestion(1, 10, "Paris"),
				{Type: model.QuestionChoice},
			},
			sheet: AnswerSheet{"10": "Paris"},
			want:  50,
		},
		{
			name: "uneven weights sum cleanly",
			questions: []model.Question{
				textQuestion(1, 10, "a"),
				textQuestion(2, 20, "b"),
				textQuestion(3, 30, "c"),
			},
			sheet: AnswerSheet{
				"10": "a",
				"20": "b",
				"30": "c",
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateScore(tt.questions, tt.sheet)
			if !almostEqual(got, tt.want) {
				t.Errorf("CalculateScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculateScoreNeverExceedsBounds(t *testing.T) {
	questions := []model.Question{
		choiceQuestion(1,
			answer(10, "a", true),
			answer(11, "b", true),
		),
		textQuestion(2, 20, "x"),
	}
	// Everything checked and the text answer right.
	sheet := AnswerSheet{"10": "on", "11": "on", "20": "x", "999": "on"}

	got := CalculateScore(questions, sheet)
	if got < 0 || got > 100 {
		t.Fatalf("score %v out of [0, 100]", got)
	}
	if !almostEqual(got, 100) {
		t.Errorf("CalculateScore() = %v, want 100", got)
	}
}
