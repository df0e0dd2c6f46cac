package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filplus/internal"
	"filplus/internal/config"
	"filplus/internal/container"
	"filplus/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level))
	internal.DefaultLogger = logger

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	if err := appContainer.InitDataset(); err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	server := ui.NewServer(ui.Assets(), logger)
	info := ui.DatasetInfo{
		Source:      appContainer.Snapshot.Source,
		LastUpdated: appContainer.Snapshot.LastUpdated(),
		Rows:        appContainer.Snapshot.RowCount(),
	}
	if err := server.Initialize(appContainer.Views, info, appConfig.Data.HistogramBins); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx, ":"+appConfig.Server.Port)
	})

	if appConfig.Profiling.Enabled {
		g.Go(func() error {
			pprofServer := &http.Server{Addr: ":" + appConfig.Profiling.Port, ReadHeaderTimeout: 10 * time.Second}
			go func() {
				<-ctx.Done()
				_ = pprofServer.Close()
			}()
			logger.Info("Performance profiling server starting on :%s", appConfig.Profiling.Port)
			logger.Info("View profiles: go tool pprof -http=:8081 http://localhost:%s/debug/pprof/profile?seconds=30", appConfig.Profiling.Port)
			if err := pprofServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
