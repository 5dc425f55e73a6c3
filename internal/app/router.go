package app

import (
	"github.com/gin-gonic/gin"

	"studyclass_backend/internal/config"
	"studyclass_backend/internal/middleware"
	"studyclass_backend/internal/model"
	"studyclass_backend/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/health", c.health.HealthCheck)
	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public: login and the signup application form.
	router.POST("/api/auth/login", c.auth.Login)
	router.POST("/api/apply", c.application.Submit)

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg))

	api.GET("/profile", c.auth.GetProfile)
	api.PUT("/profile", c.auth.UpdateProfile)

	a.registerAdminRoutes(api, c)
	a.registerTestRoutes(api, c)
	a.registerTeacherRoutes(api, c)
	a.registerStudyRoutes(api, c)
}

func (a *App) registerAdminRoutes(api *gin.RouterGroup, c *controllers) {
	admin := api.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		// role is "teachers" or "students"
		admin.GET("/users/:role", c.user.List)
		admin.POST("/users/:role", c.user.Create)
		admin.GET("/users/:role/:id", c.user.Get)
		admin.PUT("/users/:role/:id", c.user.Update)
		admin.DELETE("/users/:role/:id", c.user.Delete)

		admin.PUT("/students/:id/group", c.group.AssignStudent)

		admin.GET("/groups", c.group.List)
		admin.POST("/groups", c.group.Create)
		admin.GET("/groups/:id", c.group.Get)
		admin.PUT("/groups/:id", c.group.Update)
		admin.DELETE("/groups/:id", c.group.Delete)

		admin.GET("/subjects", c.subject.List)
		admin.POST("/subjects", c.subject.Create)
		admin.GET("/subjects/:id", c.subject.Get)
		admin.PUT("/subjects/:id", c.subject.Update)
		admin.DELETE("/subjects/:id", c.subject.Delete)

		admin.GET("/lessons", c.lesson.List)
		admin.POST("/lessons", c.lesson.Create)
		admin.GET("/lessons/:id", c.lesson.Get)
		admin.PUT("/lessons/:id", c.lesson.Update)
		admin.DELETE("/lessons/:id", c.lesson.Delete)
		admin.POST("/lessons/:id/video", c.lesson.UploadVideo)
		admin.GET("/lessons/:id/photos", c.lesson.ListPhotos)

		admin.GET("/applications", c.application.List)
		admin.GET("/applications/:id", c.application.Get)
		admin.DELETE("/applications/:id", c.application.Delete)
	}
}

// registerTestRoutes is the authoring surface: teachers and admins,
// never students.
func (a *App) registerTestRoutes(api *gin.RouterGroup, c *controllers) {
	tests := api.Group("/tests")
	tests.Use(middleware.RoleMiddleware(model.Teacher))
	{
		tests.GET("", c.test.List)
		tests.POST("", c.test.Create)
		tests.GET("/:id", c.test.Get)
		tests.PUT("/:id", c.test.Update)
		tests.DELETE("/:id", c.test.Delete)

		tests.POST("/:id/questions", c.test.AddQuestion)
		tests.GET("/:id/questions/:questionId", c.test.GetQuestion)
		tests.PUT("/:id/questions/:questionId", c.test.UpdateQuestion)
		tests.DELETE("/:id/questions/:questionId", c.test.DeleteQuestion)

		tests.POST("/:id/questions/:questionId/answers", c.test.AddAnswer)
		tests.PUT("/:id/questions/:questionId/answer", c.test.SetTextAnswer)
		tests.DELETE("/:id/answers/:answerId", c.test.DeleteAnswer)
	}
}

func (a *App) registerTeacherRoutes(api *gin.RouterGroup, c *controllers) {
	my := api.Group("/my")
	my.Use(middleware.RoleMiddleware(model.Teacher))
	{
		my.GET("/group", c.teacher.GetGroup)
		my.POST("/group", c.teacher.CreateGroup)
		my.DELETE("/group/students/:id", c.teacher.ExcludeStudent)

		my.GET("/subjects", c.teacher.ListSubjects)
		my.POST("/subjects", c.teacher.CreateSubject)
		my.PUT("/subjects/:id", c.teacher.UpdateSubject)
		my.DELETE("/subjects/:id", c.teacher.DeleteSubject)

		my.GET("/lessons", c.teacher.ListLessons)
		my.POST("/lessons", c.teacher.CreateLesson)
		my.PUT("/lessons/:id", c.teacher.UpdateLesson)
		my.DELETE("/lessons/:id", c.teacher.DeleteLesson)

		my.GET("/photos", c.teacher.ListPhotos)
		my.POST("/photos", c.teacher.UploadPhoto)
		my.PUT("/photos/:id", c.teacher.RenamePhoto)
		my.DELETE("/photos/:id", c.teacher.DeletePhoto)
	}
}

func (a *App) registerStudyRoutes(api *gin.RouterGroup, c *controllers) {
	study := api.Group("/study")
	study.Use(middleware.RoleMiddleware(model.Student))
	{
		study.GET("/subjects", c.study.ListSubjects)
		study.GET("/subjects/:id/lessons", c.study.ListLessons)
		study.GET("/lessons/:id", c.study.GetLesson)
		study.GET("/tests/:id", c.study.GetTest)
		study.POST("/tests/:id/submit", c.study.SubmitTest)
	}
}
