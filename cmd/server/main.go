package main

import (
	"context"
	"os"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"github.com/MaekawaAo0604/muscle-SNS/internal/cache"
	"github.com/MaekawaAo0604/muscle-SNS/internal/logger"
	"github.com/MaekawaAo0604/muscle-SNS/internal/router"
	"github.com/MaekawaAo0604/muscle-SNS/pkg/cloudinary"
	"github.com/MaekawaAo0604/muscle-SNS/pkg/config"
	"github.com/MaekawaAo0604/muscle-SNS/pkg/firebase"
	"github.com/MaekawaAo0604/muscle-SNS/validators"
)

func main() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Component: "server",
	})
	log := logger.L()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer config.CloseDB(db)

	// Firebase is optional; without it only local JWT auth is available.
	var firebaseAuth *fbauth.Client
	if app, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath); err != nil {
		log.Warn("firebase disabled", "error", err)
	} else {
		firebaseAuth = app.AuthClient
	}

	// Cloudinary is optional; without it image endpoints refuse uploads.
	var uploader cloudinary.Uploader
	if client, err := cloudinary.New(cfg.CloudinaryURL); err != nil {
		log.Warn("image uploads disabled", "error", err)
	} else {
		uploader = client
	}

	rc := cache.NewRedisCache(cfg)
	if err := rc.Ping(context.Background()); err != nil {
		log.Warn("redis unavailable, unread counters fall back to the database", "error", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e)
	if err := router.SetupRoutes(e, db, firebaseAuth, uploader, rc, cfg); err != nil {
		log.Error("failed to set up routes", "error", err)
		os.Exit(1)
	}

	log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
