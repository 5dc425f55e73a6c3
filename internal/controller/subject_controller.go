package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"studyclass_backend/internal/service"
	"studyclass_backend/internal/util"
)

type SubjectController struct {
	Subjects *service.SubjectService
}

func NewSubjectController(subjects *service.SubjectService) *SubjectController {
	return &SubjectController{Subjects: subjects}
}

type subjectRequest struct {
	Name    string `json:"name" binding:"required"`
	GroupID uint   `json:"groupId" binding:"required"`
}

// @Summary List all subjects
// @Router /api/admin/subjects [get]
func (c *SubjectController) List(ctx *gin.Context) {
	subjects, err := c.Subjects.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// @Summary Subject detail
// @Router /api/admin/subjects/{id} [get]
func (c *SubjectController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	subject, err := c.Subjects.Get(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, subject)
}

// @Summary Create a subject in a group
// @Router /api/admin/subjects [post]
func (c *SubjectController) Create(ctx *gin.Context) {
	var req subjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.Subjects.Create(req.Name, req.GroupID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, subject)
}

// @Summary Edit a subject
// @Router /api/admin/subjects/{id} [put]
func (c *SubjectController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req subjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.Subjects.Update(id, req.Name, req.GroupID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, subject)
}

// @Summary Delete a subject
// @Router /api/admin/subjects/{id} [delete]
func (c *SubjectController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.Subjects.Delete(id); err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
