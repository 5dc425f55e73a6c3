package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"studyclass_backend/internal/model"
	"studyclass_backend/internal/service"
	"studyclass_backend/internal/util"
)

// TestController is the authoring surface, open to teachers (own tests
// only) and admins (any test).
type TestController struct {
	Tests *service.TestService
	Tries *service.TryService
}

func NewTestController(tests *service.TestService, tries *service.TryService) *TestController {
	return &TestController{Tests: tests, Tries: tries}
}

// mayEdit gates teachers to their own tests; admins pass.
func (c *TestController) mayEdit(ctx *gin.Context, testID uint) bool {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return false
	}
	if claims.Role == model.Admin {
		return true
	}

	owns, err := c.Tests.Owns(claims.UserID, testID)
	if err != nil {
		util.NotFound(ctx)
		return false
	}
	if !owns {
		util.Forbidden(ctx)
		return false
	}
	return true
}

// @Summary List tests: all for admins, own for teachers
// @Router /api/tests [get]
func (c *TestController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var (
		tests []model.Test
		err   error
	)
	if claims.Role == model.Admin {
		tests, err = c.Tests.List()
	} else {
		tests, err = c.Tests.ListForOwner(claims.UserID)
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tests)
}

// @Summary Test detail with full question graph
// @Router /api/tests/{id} [get]
func (c *TestController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if !c.mayEdit(ctx, id) {
		return
	}

	test, err := c.Tests.Get(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	tries, err := c.Tries.ListForTest(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"test": test, "tries": tries})
}

type testRequest struct {
	Name    string `json:"name" binding:"required"`
	OwnerID *uint  `json:"ownerId"`
}

// @Summary Create a test; teachers own what they create
// @Router /api/tests [post]
func (c *TestController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req testRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ownerID := claims.UserID
	if claims.Role == model.Admin {
		if req.OwnerID == nil {
			util.BadRequest(ctx, "ownerId is required")
			return
		}
		ownerID = *req.OwnerID
	}

	test, err := c.Tests.Create(ownerID, req.Name)
	if err != nil {
		writeTestError(ctx, err)
		return
	}
	util.Created(ctx, test)
}

// @Summary Rename a test, admins can also reassign the owner
// @Router /api/tests/{id} [put]
func (c *TestController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if !c.mayEdit(ctx, id) {
		return
	}

	var req testRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	ownerID := claims.UserID
	if claims.Role == model.Admin && req.OwnerID != nil {
		ownerID = *req.OwnerID
	} else if claims.Role == model.Admin {
		test, err := c.Tests.Get(id)
		if err != nil {
			util.NotFound(ctx)
			return
		}
		ownerID = test.OwnerID
	}

	test, err := c.Tests.Update(id, req.Name, ownerID)
	if err != nil {
		writeTestError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// @Summary Delete a test with its questions and answers
// @Router /api/tests/{id} [delete]
func (c *TestController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if !c.mayEdit(ctx, id) {
		return
	}

	if err := c.Tests.Delete(id); err != nil {
		writeTestError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type questionRequest struct {
	Type model.QuestionType `json:"type" binding:"required"`
	Text string             `json:"text" binding:"required"`
}

// @Summary Add a question to a test
// @Router /api/tests/{id}/questions [post]
func (c *TestController) AddQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if !c.mayEdit(ctx, id) {
		return
	}

	var req questionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.Tests.AddQuestion(id, req.Type, req.Text)
	if err != nil {
		writeTestError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// @Summary Question detail with answers
// @Router /api/tests/{id}/questions/{questionId} [get]
func (c *TestController) GetQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if !c.mayEdit(ctx, id) {
		return
	}
	questionID, ok := pathID(ctx, "questionId")
	if !ok {
		return
	}

	question, err := c.Tests.GetQuestion(id, questionID)
	if err != nil {
		writeTestError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary Edit a question
// @Router /api/tests/{id}/questions/{questionId} [put]
func (c *TestController) UpdateQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if !c.mayEdit(ctx, id) {
		return
	}
	questionID, ok := pathID(ctx, "questionId")
	if !ok {
		return
	}

	var req questionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.Tests.UpdateQuestion(id, questionID, req.Type, req.Text)
	if err != nil {
		writeTestError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary Delete a question and its answers
// @Router /api/tests/{id}/questions/{questionId} [delete]
func (c *TestController) DeleteQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if !c.mayEdit(ctx, id) {
		return
	}
	questionID, ok := pathID(ctx, "questionId")
	if !ok {
		return
	}

	if err := c.Tests.DeleteQuestion(id, questionID); err != nil {
		writeTestError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type answerRequest struct {
	Text    string `json:"text" binding:"required"`
	Correct bool   `json:"correct"`
}

// @Summary Add an answer variant to a choice question
// @Router /api/tests/{id}/questions/{questionId}/answers [post]
func (c *TestController) AddAnswer(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if !c.mayEdit(ctx, id) {
		return
	}
	questionID, ok := pathID(ctx, "questionId")
	if !ok {
		return
	}

	var req answerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.Tests.AddAnswerVariant(id, questionID, req.Text, req.Correct)
	if err != nil {
		writeTestError(ctx, err)
		return
	}
	util.Created(ctx, answer)
}

// @Summary Set the canonical answer of a text question
// @Router /api/tests/{id}/questions/{questionId}/answer [put]
func (c *TestController) SetTextAnswer(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if !c.mayEdit(ctx, id) {
		return
	}
	questionID, ok := pathID(ctx, "questionId")
	if !ok {
		return
	}

	var req answerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.Tests.SetCorrectTextAnswer(id, questionID, req.Text)
	if err != nil {
		writeTestError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

// @Summary Delete an answer
// @Router /api/tests/{id}/answers/{answerId} [delete]
func (c *TestController) DeleteAnswer(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if !c.mayEdit(ctx, id) {
		return
	}
	answerID, ok := pathID(ctx, "answerId")
	if !ok {
		return
	}

	if err := c.Tests.DeleteAnswer(id, answerID); err != nil {
		writeTestError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func writeTestError(ctx *gin.Context, err error) {
	var validation *util.ValidationError
	switch {
	case errors.As(err, &validation):
		util.BadRequest(ctx, validation.Error())
	case errors.Is(err, util.ErrNotFound):
		util.NotFound(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
