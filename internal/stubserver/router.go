package stubserver

import (
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/seatdesk/internal/config"
	"github.com/stemsi/seatdesk/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *AuthHandler
	Exam    *ExamHandler
	Student *StudentHandler
	Sheet   *SheetHandler
}

// NewHandlers builds every handler over one store.
func NewHandlers(cfg *config.Config, store *Store, auth *Auth, log zerolog.Logger) *Handlers {
	return &Handlers{
		Auth:    NewAuthHandler(auth, log),
		Exam:    NewExamHandler(store, log),
		Student: NewStudentHandler(store, cfg.MaxUploadBytes, log),
		Sheet:   NewSheetHandler(store, log),
	}
}

// SetupRouter configures the stub routes. Every route except login and the
// health check needs an admin session; every unsafe method needs the CSRF
// header.
func SetupRouter(auth *Auth, handlers *Handlers, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Requested-With", cfg.CSRFHeaderName, response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(RequestLogger(log))
	router.Use(Brotli(brotli.DefaultCompression))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"message": "ok"})
	})

	api := router.Group("/")
	api.Use(NoStore(), CSRF(cfg.CSRFCookieName, cfg.CSRFHeaderName))

	// ─── 1. Login (Rate Limited) ───────────────────────────────────────
	loginLimiter := NewRateLimiter(10, time.Minute)
	api.GET("/admin-login/", handlers.Auth.LoginPage)
	api.POST("/admin-login/", loginLimiter.Middleware(), handlers.Auth.Login)

	// ─── 2. Admin (Session) ────────────────────────────────────────────
	admin := api.Group("/")
	admin.Use(RequireSession(auth))
	{
		admin.POST("/admin-logout/", handlers.Auth.Logout)

		// Draft lifecycle
		admin.GET("/init-temp-exam/", handlers.Exam.InitDraft)
		admin.POST("/update-temp-exam/", handlers.Exam.UpdateDraft)
		admin.POST("/delete-temp-exam/", handlers.Exam.DeleteDraft)
		admin.POST("/complete-exam-setup/", handlers.Exam.CompleteDraft)

		// Exam setup
		admin.POST("/create_exam/", handlers.Exam.CreateExam)
		admin.POST("/add_departments/", handlers.Exam.AddDepartments)
		admin.POST("/add_rooms/", handlers.Exam.AddRooms)
		admin.POST("/save_selected_files/", handlers.Exam.SaveSelectedFiles)
		admin.POST("/generate_seating/", handlers.Exam.GenerateSeating)
		admin.POST("/lock_seating/", handlers.Exam.LockSeating)

		// Student data
		admin.GET("/get_uploaded_files/", handlers.Student.UploadedFiles)
		admin.POST("/upload_student_data/", handlers.Student.Upload)

		// Exam views
		admin.GET("/get_exam_summary/", handlers.Exam.ExamSummary)
		admin.GET("/get_room_details/", handlers.Exam.RoomDetails)
		admin.POST("/add_student_to_seat/", handlers.Exam.MutateSeat)
		admin.POST("/delete_room/", handlers.Exam.DeleteRoom)
		admin.GET("/get_all_exams/", handlers.Exam.ListExams)
		admin.POST("/delete_exam/", handlers.Exam.DeleteExam)

		// Attendance sheets
		admin.POST("/generate-sheets/", handlers.Sheet.Generate)
		admin.POST("/save-generated-sheets/", handlers.Sheet.Save)
		admin.GET("/get-generated-sheets/", handlers.Sheet.List)
	}

	return router
}
