package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"fintrack/config"
	"fintrack/database"
	"fintrack/middleware"
	"fintrack/router"
	"fintrack/service"
)

// @title FinTrack API
// @version 1.0
// @description Personal finance backend with transactions, category budgets, savings goals, recurring templates, statistics and import/export
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "path to external config file (optional)")
	flag.StringVar(&configFile, "c", "", "path to external config file (shorthand)")
	flag.StringVar(&port, "port", "", "listen port, e.g. 8080 or :8080")
	flag.StringVar(&port, "p", "", "listen port (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.BoolVar(&showVersion, "v", false, "print version and exit (shorthand)")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("fintrack v1.0.0")
		return
	}

	// load config (embedded defaults + optional external overrides)
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// command line port overrides the config
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("port overridden from command line: %s", port)
	}

	config.PrintConfig()

	if err := database.Init(cfg); err != nil {
		log.Fatalf("failed to init database: %v", err)
	}

	middleware.InitJWT(cfg)

	// background processing of due recurring templates
	if cfg.Recurring.AutoProcess {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		scheduler := service.NewScheduler(database.DB, time.Duration(cfg.Recurring.IntervalHours)*time.Hour)
		go scheduler.Start(ctx)
	}

	r := router.SetupRouter(cfg)

	log.Printf("==========================================")
	log.Printf("  fintrack started")
	log.Printf("==========================================")
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API:      http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
