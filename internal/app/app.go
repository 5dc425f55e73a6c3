package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"studyclass_backend/internal/config"
	"studyclass_backend/internal/controller"
	"studyclass_backend/internal/repository"
	"studyclass_backend/internal/service"
	"studyclass_backend/pkg/database"
	"studyclass_backend/pkg/logger"
	"studyclass_backend/pkg/monitoring"
	"studyclass_backend/pkg/security"
	"studyclass_backend/pkg/tracing"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user        *repository.UserRepository
	group       *repository.GroupRepository
	subject     *repository.SubjectRepository
	lesson      *repository.LessonRepository
	lessonPhoto *repository.LessonPhotoRepository
	test        *repository.TestRepository
	try         *repository.TryRepository
	application *repository.ApplicationRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	group       *service.GroupService
	subject     *service.SubjectService
	lesson      *service.LessonService
	test        *service.TestService
	try         *service.TryService
	application *service.ApplicationService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	group       *controller.GroupController
	subject     *controller.SubjectController
	lesson      *controller.LessonController
	test        *controller.TestController
	teacher     *controller.TeacherController
	study       *controller.StudyController
	application *controller.ApplicationController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		group:       repository.NewGroupRepository(db),
		subject:     repository.NewSubjectRepository(db),
		lesson:      repository.NewLessonRepository(db),
		lessonPhoto: repository.NewLessonPhotoRepository(db),
		test:        repository.NewTestRepository(db),
		try:         repository.NewTryRepository(db),
		application: repository.NewApplicationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	storage, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		logger.Log.Fatal("failed to initialize storage", zap.Error(err))
	}
	mailer := service.NewMailer(&cfg.Mail)

	group := service.NewGroupService(repos.group, repos.user)
	subject := service.NewSubjectService(repos.subject, group)
	try := service.NewTryService(repos.try, repos.test, group, rdb)

	return &services{
		auth:        service.NewAuthService(repos.user, cfg),
		user:        service.NewUserService(repos.user, group, repos.test, repos.lessonPhoto, repos.try, mailer),
		group:       group,
		subject:     subject,
		lesson:      service.NewLessonService(repos.lesson, repos.lessonPhoto, subject, storage),
		test:        service.NewTestService(repos.test, repos.user),
		try:         try,
		application: service.NewApplicationService(repos.application, group),
	}
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth, s.user),
		user:        controller.NewUserController(s.user),
		group:       controller.NewGroupController(s.group, repos.group),
		subject:     controller.NewSubjectController(s.subject),
		lesson:      controller.NewLessonController(s.lesson, s.try),
		test:        controller.NewTestController(s.test, s.try),
		teacher:     controller.NewTeacherController(s.group, s.subject, s.lesson),
		study:       controller.NewStudyController(s.group, s.subject, s.lesson, s.test, s.try),
		application: controller.NewApplicationController(s.application),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.Init(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// The cache is an optimization, not a dependency.
		logger.Log.Warn("redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, repos, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("studyclass-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown:", err)
	}

	logger.Log.Info("server exiting")
}
