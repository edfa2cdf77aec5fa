package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campuskit/timetable-api/api/swagger"
	"github.com/campuskit/timetable-api/internal/handler"
	"github.com/campuskit/timetable-api/internal/middleware"
	"github.com/campuskit/timetable-api/internal/repository"
	"github.com/campuskit/timetable-api/internal/service"
	"github.com/campuskit/timetable-api/pkg/cache"
	"github.com/campuskit/timetable-api/pkg/config"
	"github.com/campuskit/timetable-api/pkg/database"
	"github.com/campuskit/timetable-api/pkg/logger"
	corsmiddleware "github.com/campuskit/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campuskit/timetable-api/pkg/middleware/requestid"
)

// @title Timetable API
// @version 1.0.0
// @description Academic catalog and timetable scheduling service with store-enforced conflict detection
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	orgRepo := repository.NewOrganisationRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	subjectTeacherRepo := repository.NewSubjectTeacherRepository(db)
	slotRepo := repository.NewTimeSlotRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	orgSvc := service.NewOrganisationService(orgRepo, validate, logr)
	deptSvc := service.NewDepartmentService(deptRepo, orgRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, deptRepo, validate, logr)
	sectionSvc := service.NewSectionService(sectionRepo, courseRepo, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, courseRepo, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, deptRepo, validate, logr)
	subjectTeacherSvc := service.NewSubjectTeacherService(subjectTeacherRepo, subjectRepo, teacherRepo, validate, logr)
	slotSvc := service.NewTimeSlotService(slotRepo, validate, logr)
	timetableSvc := service.NewTimetableService(
		timetableRepo,
		sectionRepo,
		subjectTeacherRepo,
		slotRepo,
		cacheRepo,
		cfg.Cache.TimetableTTL,
		metrics,
		validate,
		logr,
	)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	handler.Register(r, handler.Handlers{
		Organisation:   handler.NewOrganisationHandler(orgSvc),
		Department:     handler.NewDepartmentHandler(deptSvc),
		Course:         handler.NewCourseHandler(courseSvc),
		Section:        handler.NewSectionHandler(sectionSvc),
		Subject:        handler.NewSubjectHandler(subjectSvc),
		Teacher:        handler.NewTeacherHandler(teacherSvc),
		SubjectTeacher: handler.NewSubjectTeacherHandler(subjectTeacherSvc),
		TimeSlot:       handler.NewTimeSlotHandler(slotSvc),
		Timetable:      handler.NewTimetableHandler(timetableSvc),
		Metrics:        handler.NewMetricsHandler(metrics),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
