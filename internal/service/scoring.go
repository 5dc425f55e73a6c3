package service

import (
	"strconv"
	"strings"

	"studyclass_backend/internal/model"
)

// AnswerSheet is a submitted test, keyed by the string form of answer ids
// exactly as posted by the form. For a choice option the value is a
// presence flag ("on" or any non-empty string); for a text question it is
// the typed answer, keyed by the id of the question's single canonical
// answer. Absent keys mean "not submitted".
type AnswerSheet map[string]string

func (s AnswerSheet) selected(answerID uint) bool {
	v, ok := s[strconv.FormatUint(uint64(answerID), 10)]
	return ok && v != ""
}

func (s AnswerSheet) text(answerID uint) string {
	return s[strconv.FormatUint(uint64(answerID), 10)]
}

// CalculateScore grades a submission against a test's question graph and
// returns a score in [0, 100]. Every question carries the same weight,
// 100 / question count; a test without questions scores 0.
//
// Choice questions award partial credit per option: an option counts as a
// match when its submitted flag equals its stored correctness flag, so an
// option that is correctly left unchecked still counts. The award is
// weight * matches / options. This is per-option averaging, not
// set-equality, and is intentional.
//
// Text questions compare the submitted string with the canonical answer
// after trimming surrounding whitespace and folding case; full weight on
// match, nothing otherwise.
//
// Malformed or missing keys are treated as absent submissions, never as
// errors.
func CalculateScore(questions []model.Question, sheet AnswerSheet) float64 {
	if len(questions) == 0 {
		return 0
	}

	questionWeight := 100 / float64(len(questions))
	var score float64

	for _, q := range questions {
		// A question without stored answers cannot be graded and
		// contributes nothing.
		if len(q.Answers) == 0 {
			continue
		}

		switch q.Type {
		case model.QuestionChoice:
			matches := 0
			for _, a := range q.Answers {
				if a.Correct == sheet.selected(a.ID) {
					matches++
				}
			}
			score += questionWeight * float64(matches) / float64(len(q.Answers))

		case model.QuestionText:
			canonical := q.Answers[0]
			if textMatches(sheet.text(canonical.ID), canonical.Text) {
				score += questionWeight
			}
		}
	}

	return score
}

func textMatches(submitted, canonical string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(canonical))
}
