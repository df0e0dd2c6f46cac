package main

import (
	"log"
	"net/http"
	"time"

	"filplus/internal"
	"filplus/internal/config"
	"filplus/internal/container"
	"filplus/ui"

	"github.com/joho/godotenv"
)

// Serves the JSON API and chart without the HTML dashboard
func main() {
	_ = godotenv.Load()

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level))

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	if err := appContainer.InitDataset(); err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	app := ui.NewApp(appContainer.Views, ui.Config{
		Info: ui.DatasetInfo{
			Source:      appContainer.Snapshot.Source,
			LastUpdated: appContainer.Snapshot.LastUpdated(),
			Rows:        appContainer.Snapshot.RowCount(),
		},
		Bins: appConfig.Data.HistogramBins,
	}, logger)

	srv := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("Starting Fil+ metric API on http://localhost:%s", appConfig.Server.Port)
	log.Fatal(srv.ListenAndServe())
}
