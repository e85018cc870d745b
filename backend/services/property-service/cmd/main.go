package main

import (
	"context"
	"net/http"
	"time"
	_ "time/tzdata"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/app"
	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/config"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize property-service:", err)
	}
	defer application.Close()

	if err := application.Seed(context.Background()); err != nil {
		utils.Logger.Fatal("Failed to seed test data:", err)
	}

	router := application.NewRouter()

	// Cron job setup
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(cfg.OverdueScanSchedule, application.Scan.Run); err != nil {
		utils.Logger.WithError(err).Fatalf("Failed to schedule overdue scan with spec %q", cfg.OverdueScanSchedule)
	}
	c.Start()
	defer c.Stop()
	utils.Logger.Infof("Scheduled overdue scan: %s", cfg.OverdueScanSchedule)

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("property-service failed to start:", err)
	}
}
