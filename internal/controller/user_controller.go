package controller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"studyclass_backend/internal/model"
	"studyclass_backend/internal/service"
	"studyclass_backend/internal/util"
)

// UserController is the admin's teacher/student management surface.
type UserController struct {
	Users *service.UserService
}

func NewUserController(users *service.UserService) *UserController {
	return &UserController{Users: users}
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func roleFromPath(ctx *gin.Context) (model.UserRole, bool) {
	switch ctx.Param("role") {
	case "teachers":
		return model.Teacher, true
	case "students":
		return model.Student, true
	default:
		util.NotFound(ctx)
		return "", false
	}
}

// @Summary List teachers or students
// @Router /api/admin/users/{role} [get]
func (c *UserController) List(ctx *gin.Context) {
	role, ok := roleFromPath(ctx)
	if !ok {
		return
	}

	users, err := c.Users.List(role)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// @Summary User detail
// @Router /api/admin/users/{role}/{id} [get]
func (c *UserController) Get(ctx *gin.Context) {
	if _, ok := roleFromPath(ctx); !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := c.Users.Get(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, user)
}

// @Summary Create a teacher or student account and email credentials
// @Router /api/admin/users/{role} [post]
func (c *UserController) Create(ctx *gin.Context) {
	role, ok := roleFromPath(ctx)
	if !ok {
		return
	}

	var req service.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, warnings, err := c.Users.Create(role, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if len(warnings) > 0 {
		util.CreatedWithWarning(ctx, user, strings.Join(warnings, "; "))
		return
	}
	util.Created(ctx, user)
}

// @Summary Edit an account, reassigning its group with lenient conflicts
// @Router /api/admin/users/{role}/{id} [put]
func (c *UserController) Update(ctx *gin.Context) {
	if _, ok := roleFromPath(ctx); !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req service.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, warnings, err := c.Users.Update(id, req)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	if len(warnings) > 0 {
		util.SuccessWithWarning(ctx, user, strings.Join(warnings, "; "))
		return
	}
	util.Success(ctx, user)
}

// @Summary Delete an account
// @Router /api/admin/users/{role}/{id} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	if _, ok := roleFromPath(ctx); !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.Users.Delete(id); err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
