package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "fitness-tracker/docs" // регистрация OpenAPI-описания
	"fitness-tracker/internal/config"
	"fitness-tracker/internal/database"
	domain "fitness-tracker/internal/domain/user"
	assignmenthandler "fitness-tracker/internal/handler/assignment"
	authhandler "fitness-tracker/internal/handler/auth"
	exercisehandler "fitness-tracker/internal/handler/exercise"
	"fitness-tracker/internal/handler/health"
	"fitness-tracker/internal/handler/middleware"
	userhandler "fitness-tracker/internal/handler/user"
	repo "fitness-tracker/internal/repository/interfaces"
	pgrepo "fitness-tracker/internal/repository/postgres"
	assignmentuc "fitness-tracker/internal/usecase/assignment"
	authuc "fitness-tracker/internal/usecase/auth"
	exerciseuc "fitness-tracker/internal/usecase/exercise"
	useruc "fitness-tracker/internal/usecase/user"
	jwtsvc "fitness-tracker/pkg/jwt"
)

var (
	roleAdmin   = string(domain.RoleAdmin)
	roleTrainer = string(domain.RoleTrainer)
)

// Repositories - набор хранилищ, на которых строится сервер.
type Repositories struct {
	Users       repo.UserRepository
	Exercises   repo.ExerciseRepository
	Assignments repo.AssignmentRepository
}

// PostgresRepositories создаёт GORM-репозитории поверх подключения.
func PostgresRepositories(db *database.DB) Repositories {
	return Repositories{
		Users:       pgrepo.NewUserRepository(db.DB),
		Exercises:   pgrepo.NewExerciseRepository(db.DB),
		Assignments: pgrepo.NewAssignmentRepository(db.DB),
	}
}

// Server представляет HTTP сервер приложения
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger
	db         health.Pinger

	jwtService  jwtsvc.Service
	authService authuc.Service

	authHandler       *authhandler.Handler
	userHandler       *userhandler.Handler
	exerciseHandler   *exercisehandler.Handler
	assignmentHandler *assignmenthandler.Handler
}

// NewServer создает сервер поверх Postgres.
func NewServer(cfg *config.Config, db *database.DB, log *zap.Logger) *Server {
	return NewServerWithRepositories(cfg, PostgresRepositories(db), db, log)
}

// NewServerWithRepositories создает сервер поверх произвольных репозиториев.
// db может быть nil (in-memory хранилище): тогда /health/db всегда отвечает ok.
func NewServerWithRepositories(cfg *config.Config, repos Repositories, db health.Pinger, log *zap.Logger) *Server {
	// Устанавливаем режим Gin в зависимости от окружения
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.AppEnv == "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	s := &Server{
		router: gin.New(),
		cfg:    cfg,
		log:    log,
		db:     db,
	}

	// Инициализируем зависимости один раз
	s.jwtService = jwtsvc.NewService(&cfg.JWT)
	s.authService = authuc.NewService(repos.Users, s.jwtService, cfg.Auth.AllowTrainerSignup)
	userService := useruc.NewService(repos.Users)
	exerciseService := exerciseuc.NewService(repos.Exercises)
	assignmentService := assignmentuc.NewService(repos.Assignments)

	s.authHandler = authhandler.NewHandler(s.authService, log)
	s.userHandler = userhandler.NewHandler(userService, s.authService, log)
	s.exerciseHandler = exercisehandler.NewHandler(exerciseService, log)
	s.assignmentHandler = assignmenthandler.NewHandler(assignmentService, log)

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware настраивает middleware для роутера
func (s *Server) setupMiddleware() {
	// Recovery middleware - должен быть первым для перехвата паник
	s.router.Use(middleware.Recovery(s.log))
	s.router.Use(middleware.LoggerStructured(s.log))
	s.router.Use(middleware.CORS(&s.cfg.CORS, s.cfg.IsProduction()))
	// Аутентификация глобальная, но не обязательная: политику задают группы ниже
	s.router.Use(middleware.Authenticate(s.jwtService, s.log))
}

// setupRoutes настраивает маршруты приложения
func (s *Server) setupRoutes() {
	s.setupHealthRoutes()
	s.setupAuthRoutes()
	s.setupUserRoutes()
	s.setupExerciseRoutes()
	s.setupAssignmentRoutes()

	if !s.cfg.IsProduction() {
		// GET /swagger/index.html - Swagger UI, только вне production.
		s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// setupHealthRoutes настраивает health-check эндпоинты.
func (s *Server) setupHealthRoutes() {
	healthHandler := health.NewHandler(s.db, s.cfg.IsProduction(), s.log)
	// GET /health - базовый health-check сервера (жив ли процесс).
	s.router.GET("/health", healthHandler.Health)
	// GET /health/db - проверка доступности базы данных.
	s.router.GET("/health/db", healthHandler.HealthDB)
}

// setupAuthRoutes настраивает эндпоинт логина.
func (s *Server) setupAuthRoutes() {
	// POST /login - выдача токена по username/email и паролю.
	s.router.POST("/login", s.authHandler.Login)
}

// setupUserRoutes настраивает эндпоинты пользователей.
func (s *Server) setupUserRoutes() {
	users := s.router.Group("/users")

	// POST /users - регистрация, доступна анонимно.
	users.POST("", s.userHandler.Signup)

	authed := users.Group("", middleware.RequireAuth())
	{
		authed.GET("", s.userHandler.List)
		authed.GET("/:id", s.userHandler.Get)
		// PUT /users/:id - сам пользователь или Admin.
		authed.PUT("/:id", middleware.RequireSelfOrRole("id", roleAdmin), s.userHandler.Update)
		authed.DELETE("/:id", middleware.RequireRole(roleAdmin), s.userHandler.Delete)
	}
}

// setupExerciseRoutes настраивает каталог упражнений.
func (s *Server) setupExerciseRoutes() {
	exercises := s.router.Group("/exercises")

	// Чтение каталога открыто всем.
	exercises.GET("", s.exerciseHandler.List)
	exercises.GET("/:id", s.exerciseHandler.Get)

	exercises.POST("", middleware.RequireAuth(), s.exerciseHandler.Create)
	exercises.PUT("/:id", middleware.RequireRole(roleTrainer, roleAdmin), s.exerciseHandler.Update)
	exercises.DELETE("/:id", middleware.RequireRole(roleTrainer, roleAdmin), s.exerciseHandler.Delete)
}

// setupAssignmentRoutes настраивает назначение упражнений пользователям.
// Параметры :id совпадают по позиции с /users/:id и /exercises/:id - gin этого требует.
func (s *Server) setupAssignmentRoutes() {
	userExercises := s.router.Group("/users/:id/exercises", middleware.RequireAuth())
	{
		userExercises.GET("", withParam("userId", "id"), s.assignmentHandler.ListForUser)
		userExercises.GET("/:exerciseId", withParam("userId", "id"), s.assignmentHandler.Get)
		userExercises.POST("/:exerciseId", withParam("userId", "id"), s.assignmentHandler.Assign)
		userExercises.DELETE("/:exerciseId", withParam("userId", "id"), s.assignmentHandler.Remove)
	}

	// GET /exercises/:id/users - пользователи, которым назначено упражнение.
	s.router.GET("/exercises/:id/users", middleware.RequireAuth(),
		withParam("exerciseId", "id"), s.assignmentHandler.ListForExercise)
}

// withParam публикует параметр пути под вторым именем, чтобы обработчики
// не зависели от того, как назван сегмент в общем префиксе маршрутов.
func withParam(alias, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Params = append(c.Params, gin.Param{Key: alias, Value: c.Param(name)})
		c.Next()
	}
}

// SeedAdmin создаёт администратора, если заданы ADMIN_EMAIL и ADMIN_PASSWORD.
func (s *Server) SeedAdmin(ctx context.Context) error {
	if !s.cfg.Admin.Enabled() {
		return nil
	}
	admin, err := s.authService.EnsureAdmin(ctx, s.cfg.Admin.Email, s.cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	s.log.Info("Администратор готов", zap.String("user_id", admin.ID.String()))
	return nil
}

// Start запускает HTTP сервер с graceful shutdown
func (s *Server) Start() error {
	address := s.cfg.Server.Address()

	s.httpServer = &http.Server{
		Addr:           address,
		Handler:        s.router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Канал для получения сигналов ОС
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Канал для ошибок запуска сервера
	serverErr := make(chan error, 1)

	go func() {
		s.log.Info("HTTP сервер запущен", zap.String("address", address))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("ошибка запуска HTTP сервера: %w", err)
		}
	}()

	// Ожидаем либо сигнал для graceful shutdown, либо ошибку запуска
	select {
	case err := <-serverErr:
		s.log.Error("Ошибка запуска сервера", zap.Error(err))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(ctx)
		return err
	case sig := <-quit:
		s.log.Info("Получен сигнал остановки", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при остановке сервера: %w", err)
	}

	s.log.Info("HTTP сервер успешно остановлен")
	return nil
}

// GetRouter возвращает роутер (для тестирования)
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
