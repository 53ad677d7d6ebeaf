package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

// AppConfig holds all application configuration loaded from environment
// variables. These are populated at startup by the LoadConfig function.
var (
	// VaultAccount is the treasury account the vault holds capital in.
	VaultAccount string
	// FeeRecipient is the treasury account credited with withdrawal fees.
	FeeRecipient string

	// PlanPath is the path to the YAML allocation plan file.
	PlanPath string

	// CycleCron is the cron expression driving scheduled allocation
	// cycles. Empty disables the scheduler (manual cycles only).
	CycleCron string

	// VaultCap is the deposit cap in base units; 0 means uncapped.
	VaultCap int64
	// WithdrawalReserveBps bounds the unallocated remainder of a rollover.
	WithdrawalReserveBps int64
	// WithdrawFeeBps is the protocol fee on gross withdrawals.
	WithdrawFeeBps int64

	// DisplayPrecision is the decimal precision for display conversions.
	DisplayPrecision int
)

// LoadConfig loads configuration from environment variables and sets the
// global config vars. Variables without a documented default are required.
func LoadConfig() error {
	log.Info().Msg("Loading application configuration from environment variables...")

	var err error

	VaultAccount, err = getEnv("NVM_VAULT_ACCOUNT")
	if err != nil {
		return err
	}

	FeeRecipient, err = getEnv("NVM_FEE_RECIPIENT")
	if err != nil {
		return err
	}

	PlanPath, err = getEnv("NVM_PLAN_PATH")
	if err != nil {
		return err
	}

	CycleCron = os.Getenv("NVM_CYCLE_CRON")

	VaultCap, err = getEnvAsInt64("NVM_VAULT_CAP")
	if err != nil {
		return err
	}

	WithdrawalReserveBps, err = getEnvAsInt64("NVM_WITHDRAWAL_RESERVE_BPS")
	if err != nil {
		return err
	}

	WithdrawFeeBps, err = getEnvAsInt64("NVM_WITHDRAW_FEE_BPS")
	if err != nil {
		return err
	}

	DisplayPrecision = 6
	if raw := os.Getenv("NVM_DISPLAY_PRECISION"); raw != "" {
		DisplayPrecision, err = strconv.Atoi(raw)
		if err != nil {
			return errors.New("environment variable NVM_DISPLAY_PRECISION must be a valid int, got: " + raw)
		}
	}

	log.Debug().
		Str("VaultAccount", VaultAccount).
		Str("PlanPath", PlanPath).
		Str("CycleCron", CycleCron).
		Int64("VaultCap", VaultCap).
		Msg("Configuration loaded successfully.")

	return nil
}

// getEnv retrieves a string environment variable. Returns error if not set.
func getEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists {
		return value, nil
	}
	return "", errors.New("environment variable " + key + " is required but not set")
}

// getEnvAsInt64 retrieves an environment variable as an int64. Returns error if not set or invalid.
func getEnvAsInt64(key string) (int64, error) {
	valueStr, err := getEnv(key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be a valid int64, got: " + valueStr)
	}
	return value, nil
}
