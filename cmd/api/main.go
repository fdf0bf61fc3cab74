package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/planora/internal/calendar"
	"github.com/MrJamesThe3rd/planora/internal/config"
	"github.com/MrJamesThe3rd/planora/internal/currency"
	currencyStore "github.com/MrJamesThe3rd/planora/internal/currency/store"
	"github.com/MrJamesThe3rd/planora/internal/database"
	planoraHttp "github.com/MrJamesThe3rd/planora/internal/http"
	ratesHandler "github.com/MrJamesThe3rd/planora/internal/http/rates"
	registerHandler "github.com/MrJamesThe3rd/planora/internal/http/register"
	"github.com/MrJamesThe3rd/planora/internal/register"
	registerStore "github.com/MrJamesThe3rd/planora/internal/register/store"
	"github.com/MrJamesThe3rd/planora/internal/totals"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("failed to load timezone", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var remote currency.Remote
	if cfg.Rates.URL != "" {
		remote = currency.NewClient(cfg.Rates.URL, cfg.Rates.Token)
	}

	var (
		currencyService = currency.NewService(currencyStore.New(db), remote, cfg.Rates.BaseCurrency)
		calculator      = totals.NewCalculator(cfg.Rates.BaseCurrency, currencyService)
		registerService = register.NewService(registerStore.New(db), calendar.NewNormalizer(loc), calculator)
	)

	var (
		registerH = registerHandler.NewHandler(registerService)
		ratesH    = ratesHandler.NewHandler(currencyService)
	)

	router := planoraHttp.New(planoraHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		JWTSecret:      cfg.Server.JWTSecret,
	}, registerH, ratesH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr, "timezone", loc.String())

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
