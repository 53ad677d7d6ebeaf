package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	sdkmath "cosmossdk.io/math"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/nativevault/nvm/internal/config"
	"github.com/nativevault/nvm/internal/engine"
	"github.com/nativevault/nvm/internal/logger"
	"github.com/nativevault/nvm/internal/scheduler"
	"github.com/nativevault/nvm/internal/state"
	"github.com/nativevault/nvm/internal/strategy"
	"github.com/nativevault/nvm/internal/treasury"
	"github.com/nativevault/nvm/internal/types"
	"github.com/nativevault/nvm/internal/vault"
	"github.com/nativevault/nvm/internal/web"
)

// main is the entry point for the NVM daemon.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	// Load configuration from environment variables
	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("NVM Core Logic Starting...")

	// Initialize Database Connection (cycle snapshots and parameters)
	dbCfg := state.DBConfig{
		Host: os.Getenv("DB_HOST"), Port: mustAtoi(os.Getenv("DB_PORT"), 5432),
		User: os.Getenv("DB_USER"), Password: os.Getenv("DB_PASSWORD"),
		DBName: os.Getenv("DB_NAME"), SSLMode: os.Getenv("DB_SSLMODE"),
	}
	if err := state.InitDB(dbCfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer state.CloseDB()
	if err := state.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure database schema")
	}

	// Load Vault Parameters
	vaultParams, err := state.LoadActiveVaultParameters(engine.DEFAULT_PARAMS_CONFIG_NAME)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load active vault parameters, using environment defaults and saving.")
		defaultParams := types.VaultParameters{
			VaultCap:             sdkmath.NewInt(config.VaultCap),
			WithdrawalReserveBps: config.WithdrawalReserveBps,
			WithdrawFeeBps:       config.WithdrawFeeBps,
			FeeRecipient:         config.FeeRecipient,
		}
		if _, err := state.SaveVaultParameters(defaultParams, engine.DEFAULT_PARAMS_CONFIG_NAME, engine.DEFAULT_PARAMS_CONFIG_VERSION, true); err != nil {
			log.Fatal().Err(err).Msg("Failed to save initial default vault parameters.")
		}
		vaultParams = &defaultParams
	}
	log.Info().Msg("Vault parameters loaded successfully.")

	// --- 2. Treasury and Strategy Initialization ---
	bank := treasury.New()

	plan, err := config.LoadPlan(config.PlanPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", config.PlanPath).Msg("Failed to load allocation plan")
	}
	log.Info().Int("strategies", len(plan.Strategies)).Msg("Allocation plan loaded.")

	actions, err := strategy.FromSpecs(plan.Strategies, bank)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build strategies from allocation plan")
	}

	// --- 3. Vault Initialization ---
	v, err := vault.New(vault.Config{
		Bank:    bank,
		Account: config.VaultAccount,
		Parameters: vault.Parameters{
			VaultCap:             vaultParams.VaultCap,
			WithdrawalReserveBps: vaultParams.WithdrawalReserveBps,
			WithdrawFeeBps:       vaultParams.WithdrawFeeBps,
			FeeRecipient:         vaultParams.FeeRecipient,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create vault")
	}
	if err := v.InitializeActions(actions); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize vault strategies")
	}
	log.Info().Str("account", config.VaultAccount).Msg("Vault created and strategies initialized.")

	// --- 4. Create Engine Instance with Dependency Injection ---
	eng, err := engine.New(engine.Config{
		Vault:      v,
		Plan:       plan,
		ConfigName: engine.DEFAULT_PARAMS_CONFIG_NAME,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create cycle engine")
	}

	// --- Start Web Server ---
	webPort := os.Getenv("WEB_PORT")
	if webPort == "" {
		webPort = "8080"
	}

	webServer := web.NewWebServer(webPort, v, bank, eng, engine.DEFAULT_PARAMS_CONFIG_NAME)
	go func() {
		log.Info().Str("port", webPort).Str("url", "http://localhost:"+webPort).Msg("Starting NVM API server")
		if err := webServer.Start(); err != nil {
			log.Error().Err(err).Msg("Web server failed to start")
		}
	}()

	// --- 5. Start Cycle Scheduler ---
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(ctx, eng)
	if config.CycleCron != "" {
		if err := sched.Register(config.CycleCron); err != nil {
			log.Fatal().Err(err).Str("schedule", config.CycleCron).Msg("Failed to register cycle schedule")
		}
		sched.Start()
		defer sched.Stop()
	} else {
		log.Info().Msg("No cycle schedule configured; cycles run via the API only.")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		if err := sched.RunNow(); err != nil {
			log.Error().Err(err).Msg("Initial allocation cycle failed")
		}
	}

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received, stopping NVM.")
}

// Helper to convert string to int with a default value
func mustAtoi(s string, defaultValue int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return i
}
