package main

import (
	"context"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/sahilm98/askora/internal/config"
	"github.com/sahilm98/askora/internal/db"
	"github.com/sahilm98/askora/internal/handlers"
	"github.com/sahilm98/askora/internal/logging"
	"github.com/sahilm98/askora/internal/middleware"
	"github.com/sahilm98/askora/internal/models"
	"github.com/sahilm98/askora/internal/services"
	"github.com/sahilm98/askora/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Default().Fatal().Err(err).Msg("invalid configuration")
	}
	log := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	// Connect to MongoDB and make sure the indexes exist
	database := db.ConnectMongoDB(cfg.MongoURI, cfg.MongoDB)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}
	cancel()

	avatars := storage.NewAvatarStore(cfg)

	authService := services.NewAuthService(database, cfg)
	questionService := services.NewQuestionService(database)
	answerService := services.NewAnswerService(database)
	commentService := services.NewCommentService(database)
	voteService := services.NewVoteService(database)
	userService := services.NewUserService(database, avatars)
	adminService := services.NewAdminService(database)

	authHandler := handlers.NewAuthHandler(authService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	answerHandler := handlers.NewAnswerHandler(answerService)
	commentHandler := handlers.NewCommentHandler(commentService)
	voteHandler := handlers.NewVoteHandler(voteService)
	userHandler := handlers.NewUserHandler(userService)
	adminHandler := handlers.NewAdminHandler(adminService, questionService)

	app := fiber.New(fiber.Config{
		JSONEncoder: gojson.Marshal,
		JSONDecoder: gojson.Unmarshal,
	})

	// Middleware
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	secret := []byte(cfg.JWTSecret)
	authed := middleware.Protected(secret)
	maybeAuthed := middleware.OptionalAuth(secret)
	expertOnly := middleware.RequireRole(models.RoleExpert, models.RoleAdmin)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	app.Get("/health", handlers.Health)

	// Auth routes
	auth := app.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", authed, authHandler.Me)

	// Question routes
	questions := app.Group("/questions")
	questions.Get("/", questionHandler.List)
	questions.Post("/", authed, questionHandler.Create)
	questions.Get("/:id", maybeAuthed, questionHandler.Get)
	questions.Put("/:id", authed, questionHandler.Update)
	questions.Delete("/:id", authed, questionHandler.Delete)
	questions.Post("/:id/answers/:answerId/accept", authed, questionHandler.Accept)
	questions.Delete("/:id/accept", authed, questionHandler.Unaccept)

	// Answers nested under their question
	questions.Get("/:id/answers", answerHandler.ListForQuestion)
	questions.Post("/:id/answers", authed, answerHandler.Create)
	questions.Get("/:id/comments", commentHandler.ListForQuestion)

	// Answer routes
	answers := app.Group("/answers")
	answers.Put("/:id", authed, answerHandler.Update)
	answers.Delete("/:id", authed, answerHandler.Delete)
	answers.Post("/:id/verify", authed, expertOnly, answerHandler.Verify)
	answers.Delete("/:id/verify", authed, expertOnly, answerHandler.Unverify)
	answers.Get("/:id/comments", commentHandler.ListForAnswer)

	// Comment routes
	comments := app.Group("/comments")
	comments.Post("/", authed, commentHandler.Create)
	comments.Put("/:id", authed, commentHandler.Update)
	comments.Delete("/:id", authed, commentHandler.Delete)

	// Vote routes
	votes := app.Group("/votes", authed)
	votes.Post("/", voteHandler.Cast)
	votes.Delete("/", voteHandler.Remove)

	// User routes; /top must come before /:id
	users := app.Group("/users")
	users.Get("/top", userHandler.Top)
	users.Put("/me", authed, userHandler.UpdateMe)
	users.Post("/me/avatar", authed, userHandler.UploadAvatar)
	users.Delete("/me/avatar", authed, userHandler.RemoveAvatar)
	users.Get("/:id", userHandler.Profile)
	users.Post("/:id/follow", authed, userHandler.Follow)
	users.Delete("/:id/follow", authed, userHandler.Unfollow)
	users.Get("/:id/following", userHandler.Following)
	users.Get("/:id/followers", userHandler.Followers)

	// Admin routes
	admin := app.Group("/admin", authed, adminOnly)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/users/:id", adminHandler.GetUser)
	admin.Put("/users/:id/role", adminHandler.SetRole)
	admin.Get("/stats", adminHandler.Stats)
	admin.Post("/questions/:id/pin", adminHandler.Pin)
	admin.Delete("/questions/:id/pin", adminHandler.Unpin)
	admin.Post("/questions/:id/lock", adminHandler.Lock)
	admin.Delete("/questions/:id/lock", adminHandler.Unlock)

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
