package main

import (
	"log"

	"party-game-backend/internal/config"
	"party-game-backend/internal/database"
	"party-game-backend/internal/handlers"
	"party-game-backend/internal/middleware"
	"party-game-backend/internal/services"
	"party-game-backend/internal/storage"
	"party-game-backend/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)
	if _, err := database.SeedChallenges(db); err != nil {
		log.Printf("challenge seeding failed: %v", err)
	}

	hub := ws.NewHub()
	store := storage.NewDiskStore(cfg.UploadDir)

	sessionService := services.NewSessionService(db, cfg.SessionTTLHours)
	roomService := services.NewRoomService(db)
	membershipService := services.NewMembershipService(db, roomService, sessionService, store)
	challengeService := services.NewChallengeService(db, roomService, store)
	mediaService := services.NewMediaService(db, store)
	finalService := services.NewFinalService(db, roomService)
	adminService := services.NewAdminService(cfg.AdminPasswordHash, cfg.JWTSecret)

	roomHandler := handlers.NewRoomHandler(roomService, membershipService, hub)
	challengeHandler := handlers.NewChallengeHandler(roomService, challengeService, cfg.RequireMediaOnComplete)
	mediaHandler := handlers.NewMediaHandler(mediaService)
	finalHandler := handlers.NewFinalHandler(finalService)
	adminHandler := handlers.NewAdminHandler(db, adminService, roomService, challengeService, hub)
	wsHandler := handlers.NewWSHandler(roomService, hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Session-Token"},
		AllowCredentials: true,
	}))

	r.Static("/uploads", store.Root())
	r.GET("/ws/room/:code", wsHandler.HandleRoomWebSocket)

	authed := middleware.SessionAuth(sessionService)

	rooms := r.Group("/rooms")
	{
		rooms.POST("/create", roomHandler.Create)
		rooms.POST("/join", roomHandler.Join)
		rooms.GET("/info", roomHandler.Info)

		rooms.POST("/start", authed, roomHandler.Start)
		rooms.POST("/rounds", authed, roomHandler.SetRounds)
		rooms.POST("/end", authed, roomHandler.End)
		rooms.POST("/rename", authed, roomHandler.Rename)
		rooms.POST("/leave", authed, roomHandler.Leave)
		rooms.POST("/leave-transfer", authed, roomHandler.LeaveTransfer)
		rooms.POST("/close", authed, roomHandler.Close)
	}

	r.GET("/me", authed, challengeHandler.Me)
	r.GET("/challenges", authed, challengeHandler.List)
	r.POST("/complete", authed, challengeHandler.Complete)
	r.GET("/leaderboard", authed, challengeHandler.Leaderboard)

	r.POST("/upload", authed, mediaHandler.Upload)
	r.GET("/media", authed, mediaHandler.Get)
	r.DELETE("/media", authed, mediaHandler.Delete)

	final := r.Group("/final", authed)
	{
		final.GET("/summary", finalHandler.Summary)
		final.GET("/challenge", finalHandler.Challenge)
	}

	admin := r.Group("/admin")
	{
		admin.POST("/login", adminHandler.Login)

		admin.POST("/toggle", middleware.AdminAuth(adminService), adminHandler.Toggle)
		admin.POST("/reject", middleware.AdminAuth(adminService), adminHandler.Reject)
		admin.POST("/seed", middleware.AdminAuth(adminService), adminHandler.Seed)
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
