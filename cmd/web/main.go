package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/recipebox/recipebox/internal/config"
	"github.com/recipebox/recipebox/internal/httpserver"
	"github.com/recipebox/recipebox/internal/web"
	"github.com/recipebox/recipebox/pkg/apiclient"
	"github.com/recipebox/recipebox/pkg/logger"
	"github.com/recipebox/recipebox/pkg/middleware"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.Writer()

	api := apiclient.New(cfg.Web.APIBaseURL)
	// pages block on the API, so bound each call
	api.HTTP = &http.Client{Timeout: 15 * time.Second}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())
	if err := web.NewServer(api, cfg.Web.DemoFallback).Register(r); err != nil {
		logger.Fatalf("failed to load templates: %v", err)
	}

	logger.Infof("recipe web UI on %s (api=%s demoFallback=%v)", cfg.WebAddr(), cfg.Web.APIBaseURL, cfg.Web.DemoFallback)
	srv := httpserver.New(cfg.WebAddr(), r, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	if err := httpserver.Run(srv, cfg.Server.ShutdownTimeout); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
