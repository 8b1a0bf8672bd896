package main

import (
	"fmt"
	golog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chalkcast/assemble"
	"chalkcast/config"
	"chalkcast/database"
	"chalkcast/ffmpeg"
	"chalkcast/handlers"
	"chalkcast/jobs"
	"chalkcast/mascot"
	"chalkcast/narration"
	"chalkcast/uploads"
	"chalkcast/users"
	"chalkcast/videos"
)

var db *gorm.DB

func main() {

	godotenv.Load()

	initLogger()

	log.Infof("GitSHA: %s", config.GetGitSHA())
	log.Infof("BuildDate: %s", config.GetBuildDate())

	ffmpeg.Init(log)
	jobs.Init(log)
	narration.Init(log)
	mascot.Init(log)

	gormLogger := logger.New(
		golog.New(os.Stdout, "\r\n", golog.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logger.Warn, // Log level
			IgnoreRecordNotFoundError: true,        // Ignore ErrRecordNotFound error for logger
			ParameterizedQueries:      true,        // Don't include params in the SQL log
			Colorful:                  false,       // Disable color
		},
	)

	// Create config database
	err := os.MkdirAll(config.GetConfigDir(), 0700)
	if err != nil {
		log.Panicf("failed to create config dir %s", config.GetConfigDir())
	}

	// Initialize database
	dbPath := filepath.Join(config.GetConfigDir(), "chalkcast.db")
	db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Panicf("failed to connect to database %s", dbPath)
	}

	// set only a single connection so we don't actually have concurrent writes
	sqlDB, err := db.DB()
	if err != nil {
		log.Panicln("failed to retrieve database")
	}
	sqlDB.SetMaxOpenConns(1)

	// Migrate the schema
	db.AutoMigrate(&users.User{}, &TempURL{}, &uploads.UploadedFile{}, &uploads.Summary{},
		&jobs.Job{}, &videos.Video{}, &videos.Slide{})

	database.Init(db, log)
	defer database.Fini()

	go PeriodicCleanup()

	// create a user
	err = ensureAdminAccount()
	if err != nil {
		panic(fmt.Sprintf("failed to create admin user: %v", err))
	}

	runner := ffmpeg.NewCLI()
	asm := assemble.New(runner, config.GetDataDir(), log)

	if err := handlers.Init(log, asm, runner); err != nil {
		panic(fmt.Sprintf("%v", err))
	}

	// Initialize Echo
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Routes
	e.POST("/login", handlers.LoginPost)
	e.GET("/logout", handlers.Logout)
	e.POST("/upload", handlers.UploadPost, handlers.AuthMiddleware)
	e.POST("/api/summarize", handlers.SummarizePost, handlers.AuthMiddleware)
	e.POST("/api/tts", handlers.TTSPost, handlers.AuthMiddleware)
	e.GET("/api/tts/voices", handlers.VoicesGet, handlers.AuthMiddleware)
	e.POST("/api/mascot", handlers.MascotPost, handlers.AuthMiddleware)
	e.POST("/api/video-generation", handlers.VideoGenerationPost, handlers.AuthMiddleware)
	e.GET("/videos", handlers.VideosGet, handlers.AuthMiddleware)
	e.GET("/video/:id", handlers.VideoGet, handlers.AuthMiddleware)
	e.POST("/video/:id/delete", handlers.VideoDelete, handlers.AuthMiddleware)
	e.POST("/video/:id/share", shareVideoHandler, handlers.AuthMiddleware)
	e.GET("/temp/:token", tempHandler)
	e.GET("/jobs", handlers.JobsGet, handlers.AuthMiddleware)
	e.GET("/job/:id", handlers.JobGet, handlers.AuthMiddleware)
	e.POST("/job/:id/cancel", handlers.JobCancel, handlers.AuthMiddleware)
	e.GET("/jobs/events", handlers.JobsEvents, handlers.AuthMiddleware)
	e.GET("/status", handlers.StatusGet, handlers.AuthMiddleware)

	dataGroup := e.Group("/data")
	dataGroup.Use(handlers.AuthMiddleware)
	dataGroup.Static("/", config.GetDataDir())

	// start the pipeline worker
	go pipelineWorker(asm)

	// Start server
	e.Logger.Fatal(e.Start(":8080"))
}
