package controller

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"studyclass_backend/internal/service"
	"studyclass_backend/internal/util"
)

type LessonController struct {
	Lessons *service.LessonService
	Tries   *service.TryService
}

func NewLessonController(lessons *service.LessonService, tries *service.TryService) *LessonController {
	return &LessonController{Lessons: lessons, Tries: tries}
}

// @Summary List all lessons
// @Router /api/admin/lessons [get]
func (c *LessonController) List(ctx *gin.Context) {
	lessons, err := c.Lessons.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// @Summary Lesson detail with subject, photos, test and best try
// @Router /api/admin/lessons/{id} [get]
func (c *LessonController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	lesson, err := c.Lessons.Get(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	bestTry := 0.0
	if lesson.TestID != nil {
		if best, err := c.Tries.BestScore(ctx.Request.Context(), *lesson.TestID); err == nil {
			bestTry = best
		}
	}

	util.Success(ctx, gin.H{"lesson": lesson, "bestTry": bestTry})
}

// @Summary Create a lesson
// @Router /api/admin/lessons [post]
func (c *LessonController) Create(ctx *gin.Context) {
	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.Lessons.Create(req)
	if err != nil {
		writeLessonError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// @Summary Edit a lesson
// @Router /api/admin/lessons/{id} [put]
func (c *LessonController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.Lessons.Update(id, req)
	if err != nil {
		writeLessonError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary Photo library available to a lesson: the group owner's photos
// @Router /api/admin/lessons/{id}/photos [get]
func (c *LessonController) ListPhotos(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	photos, err := c.Lessons.PhotosForLesson(id)
	if err != nil {
		writeLessonError(ctx, err)
		return
	}
	util.Success(ctx, photos)
}

func writeLessonError(ctx *gin.Context, err error) {
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

// @Summary Delete a lesson
// @Router /api/admin/lessons/{id} [delete]
func (c *LessonController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.Lessons.Delete(id); err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// @Summary Upload a lesson video
// @Router /api/admin/lessons/{id}/video [post]
func (c *LessonController) UploadVideo(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("video")
	if err != nil {
		util.BadRequest(ctx, "video file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	mimeType, err := util.ValidateMimeType(file, []string{"video/", "application/x-mpegURL"})
	file.Close()
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	filename := util.UniqueFilename(fileHeader.Filename)
	tmpPath := filepath.Join(os.TempDir(), filename)
	if err := ctx.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpPath)

	lesson, err := c.Lessons.AttachVideo(ctx.Request.Context(), id, "lessons/videos/"+filename, tmpPath, fileHeader.Size, mimeType)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, lesson)
}
