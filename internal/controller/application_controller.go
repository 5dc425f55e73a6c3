package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"studyclass_backend/internal/service"
	"studyclass_backend/internal/util"
)

type ApplicationController struct {
	Applications *service.ApplicationService
}

func NewApplicationController(applications *service.ApplicationService) *ApplicationController {
	return &ApplicationController{Applications: applications}
}

// @Summary Submit a signup application
// @Router /api/apply [post]
func (c *ApplicationController) Submit(ctx *gin.Context) {
	var req service.ApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	application, err := c.Applications.Submit(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, application)
}

// @Summary List signup applications
// @Router /api/admin/applications [get]
func (c *ApplicationController) List(ctx *gin.Context) {
	applications, err := c.Applications.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, applications)
}

// @Summary Application detail; warns when the named group does not exist
// @Router /api/admin/applications/{id} [get]
func (c *ApplicationController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	application, warning, err := c.Applications.Get(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	if warning != "" {
		util.SuccessWithWarning(ctx, application, warning)
		return
	}
	util.Success(ctx, application)
}

// @Summary Delete a reviewed application
// @Router /api/admin/applications/{id} [delete]
func (c *ApplicationController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.Applications.Delete(id); err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
