package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/studsovet/selection_api/internal/service"
	"go.uber.org/zap"
)

type apiValidator struct {
	validate *validator.Validate
}

func (v *apiValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Server — HTTP API поверх сервисного слоя
type Server struct {
	echo   *echo.Echo
	addr   string
	logger *zap.Logger

	admins        *service.AdminService
	schedule      *service.ScheduleService
	availability  *service.AvailabilityService
	booking       *service.BookingService
	questionnaire *service.QuestionnaireService
	stage         *service.StageService
	video         *service.VideoService
	stats         *service.StatsService
	directory     *service.DirectoryService
}

type Deps struct {
	Admins        *service.AdminService
	Schedule      *service.ScheduleService
	Availability  *service.AvailabilityService
	Booking       *service.BookingService
	Questionnaire *service.QuestionnaireService
	Stage         *service.StageService
	Video         *service.VideoService
	Stats         *service.StatsService
	Directory     *service.DirectoryService
	Limiter       *RedisLimiter
	Logger        *zap.Logger
}

func NewServer(addr string, deps Deps) *Server {
	s := &Server{
		echo:          echo.New(),
		addr:          addr,
		logger:        deps.Logger,
		admins:        deps.Admins,
		schedule:      deps.Schedule,
		availability:  deps.Availability,
		booking:       deps.Booking,
		questionnaire: deps.Questionnaire,
		stage:         deps.Stage,
		video:         deps.Video,
		stats:         deps.Stats,
		directory:     deps.Directory,
	}

	e := s.echo
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(requestIDMiddleware())
	if deps.Limiter != nil {
		e.Use(rateLimitMiddleware(deps.Limiter, 30, time.Minute))
	}

	e.Validator = &apiValidator{validate: validator.New()}
	e.HTTPErrorHandler = newErrorHandler(deps.Logger)

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	e := s.echo

	e.GET("/health", s.health)

	days := e.Group("/interview-days")
	days.GET("/:faculty_id", s.listInterviewDays)
	days.POST("/:faculty_id", s.createInterviewDay)
	days.DELETE("/:day_id", s.deleteInterviewDay)
	days.PATCH("/:day_id/active", s.setDayActive)
	days.GET("/bookings/my", s.getMyBooking)

	slots := days.Group("/time-slots")
	slots.PUT("/:id", s.setSlotCapacity)
	slots.PATCH("/:id/active", s.setSlotActive)
	slots.POST("/:id/availability", s.setAvailability)
	slots.GET("/:id/availability", s.listSlotInterviewers)
	slots.POST("/:id/bookings", s.bookSlot)
	slots.DELETE("/:id/bookings", s.cancelBooking)

	q := e.Group("/questionnaire")
	q.GET("/:faculty_id", s.getQuestionnaireForm)
	q.POST("/:faculty_id/draft", s.saveDraft)
	q.DELETE("/:faculty_id/draft", s.deleteDraft)
	q.POST("/:faculty_id/submit", s.submitQuestionnaire)
	q.GET("/:faculty_id/status", s.questionnaireStatus)

	e.POST("/users", s.registerUser)

	admin := e.Group("/admin")
	admin.GET("/stats/:faculty_id", s.facultyStats)
	admin.GET("/responses/:faculty_id", s.listResponses)
	admin.GET("/approvals/:faculty_id", s.listPendingApprovals)
	admin.POST("/approvals/:faculty_id/:id/review", s.reviewSubmission)
	admin.GET("/admins/:faculty_id", s.listAdmins)
	admin.POST("/admins/:faculty_id", s.addAdmin)
	admin.DELETE("/admins/:faculty_id/:id", s.deactivateAdmin)
	admin.POST("/templates/:faculty_id", s.createTemplate)
	admin.POST("/interviews/:faculty_id/:user_id/assign", s.assignInterviewer)

	video := e.Group("/video")
	video.POST("/:faculty_id/submissions", s.submitVideo)
	video.GET("/:faculty_id/submissions/my", s.getMyVideo)
	video.POST("/:faculty_id/submissions/:user_id/review", s.reviewVideo)
	video.PATCH("/:faculty_id/open", s.setVideoSubmissionOpen)
	video.PATCH("/:faculty_id/chat", s.setVideoChat)

	faculties := e.Group("/faculties")
	faculties.GET("", s.listFaculties)
	faculties.POST("", s.createFaculty)
	faculties.GET("/:faculty_id", s.getFaculty)
	faculties.POST("/:faculty_id/advance-stage", s.advanceStage)
	faculties.POST("/:faculty_id/stage/open", s.openStage)
	faculties.POST("/:faculty_id/stage/close", s.closeStage)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// Start запускает HTTP-сервер и блокирует до остановки
func (s *Server) Start() error {
	err := s.echo.Start(s.addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown останавливает сервер, дожидаясь активных запросов
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
