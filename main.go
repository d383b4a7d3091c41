package main

import (
	"context"
	"embed"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"riskexplorer/adapters/api"
	"riskexplorer/adapters/chart"
	"riskexplorer/adapters/excel"
	"riskexplorer/app"
	"riskexplorer/internal"
	"riskexplorer/internal/config"
	"riskexplorer/internal/session"
	"riskexplorer/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

//go:embed ui/templates ui/static ui/content
var embeddedFiles embed.FS

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(appConfig.Log.Level))
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	uploads := session.NewUploadStore(appConfig.Session.UploadTTL, appConfig.Session.MaxEntries)
	go uploads.Run(ctx, time.Minute)

	fetcher := api.NewURLReader(api.ReaderConfig{
		Timeout:       appConfig.Fetch.Timeout,
		MaxConcurrent: appConfig.Fetch.MaxConcurrent,
		MaxBodyBytes:  appConfig.Fetch.MaxBodyBytes,
	})
	loader := app.NewLoader(excel.NewDataReader(), fetcher, uploads, appConfig.Data.DefaultCSVPath, appConfig.Data.MaxUploadBytes)
	explorer := app.NewExplorerService(loader, chart.NewRenderer(appConfig.Chart.Width, appConfig.Chart.Height))

	server, err := ui.NewServer(embeddedFiles, explorer, ui.Options{
		MaxUploadBytes: appConfig.Data.MaxUploadBytes,
		PreviewRows:    appConfig.Data.PreviewRows,
		LocalPath:      appConfig.Data.DefaultCSVPath,
	})
	if err != nil {
		log.Fatalf("Failed to create web server: %v", err)
	}

	if err := server.Start(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
