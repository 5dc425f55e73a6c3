package controller

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"studyclass_backend/internal/service"
	"studyclass_backend/internal/util"
)

// TeacherController is the teacher self-service surface: everything is
// scoped to the caller's own group.
type TeacherController struct {
	Groups   *service.GroupService
	Subjects *service.SubjectService
	Lessons  *service.LessonService
}

func NewTeacherController(groups *service.GroupService, subjects *service.SubjectService, lessons *service.LessonService) *TeacherController {
	return &TeacherController{Groups: groups, Subjects: subjects, Lessons: lessons}
}

// @Summary The caller's own group with its students
// @Router /api/my/group [get]
func (c *TeacherController) GetGroup(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	group, err := c.Groups.OwnedBy(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if group == nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, group)
}

// @Summary Create the caller's own group
// @Router /api/my/group [post]
func (c *TeacherController) CreateGroup(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	group, err := c.Groups.Create(req.Name, &claims.UserID)
	if err != nil {
		writeGroupError(ctx, err)
		return
	}
	util.Created(ctx, group)
}

// @Summary Remove a student from the caller's own group
// @Router /api/my/group/students/{id} [delete]
func (c *TeacherController) ExcludeStudent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	studentID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.Groups.ExcludeStudent(claims.UserID, studentID); err != nil {
		switch {
		case errors.Is(err, util.ErrNoOwnGroup):
			util.BadRequest(ctx, "you do not own a group")
		case errors.Is(err, util.ErrNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// @Summary Subjects of the caller's own group
// @Router /api/my/subjects [get]
func (c *TeacherController) ListSubjects(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	subjects, err := c.Subjects.ListForTeacher(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// @Summary Create a subject in the caller's own group
// @Router /api/my/subjects [post]
func (c *TeacherController) CreateSubject(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.Subjects.CreateForTeacher(claims.UserID, req.Name)
	if err != nil {
		if errors.Is(err, util.ErrNoOwnGroup) {
			util.BadRequest(ctx, "you do not own a group")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, subject)
}

// mySubject loads a subject and checks it belongs to the caller's group.
func (c *TeacherController) mySubject(ctx *gin.Context, id uint) (*service.SubjectService, uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return nil, 0, false
	}

	subject, err := c.Subjects.Get(id)
	if err != nil {
		util.NotFound(ctx)
		return nil, 0, false
	}
	owned, err := c.Subjects.OwnedByTeacher(claims.UserID, subject)
	if err != nil {
		util.LogInternalError(ctx, err)
		return nil, 0, false
	}
	if !owned {
		util.Forbidden(ctx)
		return nil, 0, false
	}
	return c.Subjects, subject.GroupID, true
}

// @Summary Rename a subject in the caller's own group
// @Router /api/my/subjects/{id} [put]
func (c *TeacherController) UpdateSubject(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	subjects, groupID, ok := c.mySubject(ctx, id)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := subjects.Update(id, req.Name, groupID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subject)
}

// @Summary Delete a subject in the caller's own group
// @Router /api/my/subjects/{id} [delete]
func (c *TeacherController) DeleteSubject(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	subjects, _, ok := c.mySubject(ctx, id)
	if !ok {
		return
	}

	if err := subjects.Delete(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary The caller's lessons grouped by subject
// @Router /api/my/lessons [get]
func (c *TeacherController) ListLessons(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	lessons, err := c.Lessons.ListForTeacher(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// myLesson checks the lesson's subject belongs to the caller's group.
func (c *TeacherController) myLesson(ctx *gin.Context, id uint) bool {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return false
	}

	lesson, err := c.Lessons.Get(id)
	if err != nil {
		util.NotFound(ctx)
		return false
	}
	owned, err := c.Lessons.OwnedByTeacher(claims.UserID, lesson)
	if err != nil {
		util.LogInternalError(ctx, err)
		return false
	}
	if !owned {
		util.Forbidden(ctx)
		return false
	}
	return true
}

// @Summary Create a lesson in one of the caller's subjects
// @Router /api/my/lessons [post]
func (c *TeacherController) CreateLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.Subjects.Get(req.SubjectID)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	owned, err := c.Subjects.OwnedByTeacher(claims.UserID, subject)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !owned {
		util.Forbidden(ctx)
		return
	}

	lesson, err := c.Lessons.Create(req)
	if err != nil {
		writeLessonError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// @Summary Edit one of the caller's lessons
// @Router /api/my/lessons/{id} [put]
func (c *TeacherController) UpdateLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if !c.myLesson(ctx, id) {
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

// @Summary Delete one of the caller's lessons
// @Router /api/my/lessons/{id} [delete]
func (c *TeacherController) DeleteLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if !c.myLesson(ctx, id) {
		return
	}

	if err := c.Lessons.Delete(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary The caller's photo library
// @Router /api/my/photos [get]
func (c *TeacherController) ListPhotos(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	photos, err := c.Lessons.ListPhotos(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, photos)
}

// @Summary Upload a photo to the caller's library
// @Router /api/my/photos [post]
func (c *TeacherController) UploadPhoto(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("photo")
	if err != nil {
		util.BadRequest(ctx, "photo file is required")
		return
	}
	name := ctx.PostForm("name")
	if name == "" {
		name = fileHeader.Filename
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{"image/"})
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	filename := "lessons/photos/" + util.UniqueFilename(fileHeader.Filename)
	photo, err := c.Lessons.CreatePhoto(ctx.Request.Context(), claims.UserID, name, filename, file, fileHeader.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, photo)
}

// myPhoto checks the photo belongs to the caller's library.
func (c *TeacherController) myPhoto(ctx *gin.Context, id uint) bool {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return false
	}

	photo, err := c.Lessons.GetPhoto(id)
	if err != nil {
		util.NotFound(ctx)
		return false
	}
	if photo.OwnerID != claims.UserID {
		util.Forbidden(ctx)
		return false
	}
	return true
}

// @Summary Rename one of the caller's photos
// @Router /api/my/photos/{id} [put]
func (c *TeacherController) RenamePhoto(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if !c.myPhoto(ctx, id) {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	photo, err := c.Lessons.RenamePhoto(id, req.Name)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, photo)
}

// @Summary Delete one of the caller's photos
// @Router /api/my/photos/{id} [delete]
func (c *TeacherController) DeletePhoto(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if !c.myPhoto(ctx, id) {
		return
	}

	if err := c.Lessons.DeletePhoto(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
