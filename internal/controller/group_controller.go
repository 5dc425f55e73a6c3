package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"studyclass_backend/internal/repository"
	"studyclass_backend/internal/service"
	"studyclass_backend/internal/util"
)

type GroupController struct {
	Groups     *service.GroupService
	GroupsRepo *repository.GroupRepository
}

func NewGroupController(groups *service.GroupService, groupsRepo *repository.GroupRepository) *GroupController {
	return &GroupController{Groups: groups, GroupsRepo: groupsRepo}
}

type groupRequest struct {
	Name    string `json:"name" binding:"required"`
	OwnerID *uint  `json:"ownerId"`
}

// @Summary List groups
// @Router /api/admin/groups [get]
func (c *GroupController) List(ctx *gin.Context) {
	groups, err := c.GroupsRepo.FindAll()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, groups)
}

// @Summary Group detail with owner and students
// @Router /api/admin/groups/{id} [get]
func (c *GroupController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	group, err := c.Groups.Get(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, group)
}

// @Summary Create a group; owner conflicts reject the whole creation
// @Router /api/admin/groups [post]
func (c *GroupController) Create(ctx *gin.Context) {
	var req groupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	group, err := c.Groups.Create(req.Name, req.OwnerID)
	if err != nil {
		writeGroupError(ctx, err)
		return
	}
	util.Created(ctx, group)
}

// @Summary Edit a group; owner conflicts skip the owner change and warn
// @Router /api/admin/groups/{id} [put]
func (c *GroupController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req groupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	group, warning, err := c.Groups.Update(id, req.Name, req.OwnerID)
	if err != nil {
		writeGroupError(ctx, err)
		return
	}

	if warning != "" {
		util.SuccessWithWarning(ctx, group, warning)
		return
	}
	util.Success(ctx, group)
}

// @Summary Delete a group
// @Router /api/admin/groups/{id} [delete]
func (c *GroupController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.Groups.Delete(id); err != nil {
		writeGroupError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type assignStudentRequest struct {
	GroupID *uint `json:"groupId"`
}

// @Summary Move a student between groups (or out of any)
// @Router /api/admin/students/{id}/group [put]
func (c *GroupController) AssignStudent(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req assignStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Groups.AssignStudent(id, req.GroupID); err != nil {
		writeGroupError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func writeGroupError(ctx *gin.Context, err error) {
	var validation *util.ValidationError
	switch {
	case util.IsOwnershipConflict(err):
		util.Conflict(ctx, err.Error())
	case errors.As(err, &validation):
		util.BadRequest(ctx, validation.Error())
	case errors.Is(err, util.ErrNotFound):
		util.NotFound(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
