package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"studyclass_backend/internal/model"
	"studyclass_backend/internal/service"
	"studyclass_backend/internal/util"
)

// StudyController is the student surface. Every handler gates on the
// caller's group membership before returning anything.
type StudyController struct {
	Groups   *service.GroupService
	Subjects *service.SubjectService
	Lessons  *service.LessonService
	Tests    *service.TestService
	Tries    *service.TryService
}

func NewStudyController(groups *service.GroupService, subjects *service.SubjectService, lessons *service.LessonService, tests *service.TestService, tries *service.TryService) *StudyController {
	return &StudyController{Groups: groups, Subjects: subjects, Lessons: lessons, Tests: tests, Tries: tries}
}

// @Summary Subjects of the caller's group
// @Router /api/study/subjects [get]
func (c *StudyController) ListSubjects(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	group, err := c.Groups.MemberOf(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if group == nil {
		util.Success(ctx, []model.Subject{})
		return
	}

	subjects, err := c.Subjects.ListForGroup(group.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// @Summary Lessons of one of the caller's subjects
// @Router /api/study/subjects/{id}/lessons [get]
func (c *StudyController) ListLessons(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	subjectID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	subject, err := c.Subjects.Get(subjectID)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	if err := c.Groups.CanSeeSubject(claims.UserID, subject); err != nil {
		util.Forbidden(ctx)
		return
	}

	lessons, err := c.Lessons.ListForSubject(subjectID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// @Summary Lesson detail with the caller's tries and best score
// @Router /api/study/lessons/{id} [get]
func (c *StudyController) GetLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	lesson, err := c.Lessons.Get(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	subject, err := c.Subjects.Get(lesson.SubjectID)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	if err := c.Groups.CanSeeSubject(claims.UserID, subject); err != nil {
		util.Forbidden(ctx)
		return
	}

	var (
		tries   []model.Try
		bestTry float64
	)
	if lesson.TestID != nil {
		if tries, err = c.Tries.ListForStudent(claims.UserID, *lesson.TestID); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		for _, try := range tries {
			if try.Score > bestTry {
				bestTry = try.Score
			}
		}
	}

	util.Success(ctx, gin.H{"lesson": lesson, "tries": tries, "bestTry": bestTry})
}

// studyQuestion is a question as students see it: choice options keep
// their ids and text, correctness never leaves the server, and text
// questions expose only the answer slot id to fill in.
type studyQuestion struct {
	ID      uint               `json:"id"`
	Type    model.QuestionType `json:"type"`
	Text    string             `json:"text"`
	Answers []studyAnswer      `json:"answers"`
}

type studyAnswer struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

func studyView(test *model.Test) gin.H {
	questions := make([]studyQuestion, 0, len(test.Questions))
	for _, q := range test.Questions {
		sq := studyQuestion{ID: q.ID, Type: q.Type, Text: q.Text, Answers: []studyAnswer{}}
		for _, a := range q.Answers {
			answer := studyAnswer{ID: a.ID}
			if q.Type == model.QuestionChoice {
				answer.Text = a.Text
			}
			sq.Answers = append(sq.Answers, answer)
		}
		questions = append(questions, sq)
	}
	return gin.H{"id": test.ID, "name": test.Name, "questions": questions}
}

// @Summary View a test the caller is eligible to take
// @Router /api/study/tests/{id} [get]
func (c *StudyController) GetTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	test, err := c.Tests.Get(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	if err := c.Groups.CanTakeTest(claims.UserID, test); err != nil {
		util.Forbidden(ctx)
		return
	}

	util.Success(ctx, studyView(test))
}

// @Summary Submit answers to a test and get the score
// @Router /api/study/tests/{id}/submit [post]
func (c *StudyController) SubmitTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var sheet service.AnswerSheet
	if err := ctx.ShouldBindJSON(&sheet); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	try, err := c.Tries.Submit(ctx.Request.Context(), claims.UserID, id, sheet)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"score": try.Score, "try": try})
}
