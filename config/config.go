package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// Privileged addresses
	AdminAddress   string // may run distribution, sweeps and assignments
	FundingAddress string // token contract allowed to fund the reward pool

	// Fee routing wallets
	PlatformFeesWallet string
	ClubFeesWallet     string

	// TreasuryAddress is the account that custodies staked tokens; transfer
	// events move funds in and out of it
	TreasuryAddress string

	// Staking parameters
	ClubPrice                   int64         // exact price of a club, micro units
	BondingDuration             time.Duration // withdrawal cooldown
	OwnerReleaseLockingDuration time.Duration // repurchase window after release
	RewardPeriodicity           time.Duration // minimum gap between distributions

	// Fee rates in basis points of the operation amount
	PlatformFeesBps    int64
	TransactionFeesBps int64
	ControlFeesBps     int64

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),

		AdminAddress:   os.Getenv("ADMIN_ADDRESS"),
		FundingAddress: os.Getenv("FUNDING_ADDRESS"),

		PlatformFeesWallet: os.Getenv("PLATFORM_FEES_WALLET"),
		ClubFeesWallet:     os.Getenv("CLUB_FEES_WALLET"),
		TreasuryAddress:    os.Getenv("TREASURY_ADDRESS"),

		// Staking defaults
		ClubPrice:                   1_000_000,
		BondingDuration:             7 * 24 * time.Hour,
		OwnerReleaseLockingDuration: 21 * 24 * time.Hour,
		RewardPeriodicity:           24 * time.Hour,

		// Fee defaults: 1% platform, 0.3% transaction, 0.25% control
		PlatformFeesBps:    100,
		TransactionFeesBps: 30,
		ControlFeesBps:     25,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if price := os.Getenv("CLUB_PRICE"); price != "" {
		if parsed, err := strconv.ParseInt(price, 10, 64); err == nil {
			config.ClubPrice = parsed
		}
	}
	if secs := os.Getenv("BONDING_DURATION_SECONDS"); secs != "" {
		if parsed, err := strconv.ParseInt(secs, 10, 64); err == nil {
			config.BondingDuration = time.Duration(parsed) * time.Second
		}
	}
	if secs := os.Getenv("OWNER_RELEASE_LOCKING_SECONDS"); secs != "" {
		if parsed, err := strconv.ParseInt(secs, 10, 64); err == nil {
			config.OwnerReleaseLockingDuration = time.Duration(parsed) * time.Second
		}
	}
	if secs := os.Getenv("REWARD_PERIODICITY_SECONDS"); secs != "" {
		if parsed, err := strconv.ParseInt(secs, 10, 64); err == nil {
			config.RewardPeriodicity = time.Duration(parsed) * time.Second
		}
	}
	if bps := os.Getenv("PLATFORM_FEES_BPS"); bps != "" {
		if parsed, err := strconv.ParseInt(bps, 10, 64); err == nil {
			config.PlatformFeesBps = parsed
		}
	}
	if bps := os.Getenv("TRANSACTION_FEES_BPS"); bps != "" {
		if parsed, err := strconv.ParseInt(bps, 10, 64); err == nil {
			config.TransactionFeesBps = parsed
		}
	}
	if bps := os.Getenv("CONTROL_FEES_BPS"); bps != "" {
		if parsed, err := strconv.ParseInt(bps, 10, 64); err == nil {
			config.ControlFeesBps = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.TreasuryAddress == "" {
		config.TreasuryAddress = "club-staking"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.AdminAddress == "" {
			return nil, fmt.Errorf("ADMIN_ADDRESS is required")
		}
	}

	return config, nil
}

// SetTestConfig replaces the global configuration. Tests only.
func SetTestConfig(cfg *Config) {
	once.Do(func() {})
	instance = cfg
}

// ResetConfig clears the global configuration so the next Get reloads it.
// Tests only.
func ResetConfig() {
	instance = nil
	once = sync.Once{}
}

// NewTestConfig returns a configuration with deterministic test defaults.
func NewTestConfig() *Config {
	return &Config{
		AdminAddress:   "admin",
		FundingAddress: "token-contract",

		PlatformFeesWallet: "platform-fees",
		ClubFeesWallet:     "club-fees",
		TreasuryAddress:    "club-staking",

		ClubPrice:                   1_000_000,
		BondingDuration:             7 * 24 * time.Hour,
		OwnerReleaseLockingDuration: 21 * 24 * time.Hour,
		RewardPeriodicity:           24 * time.Hour,

		PlatformFeesBps:    100,
		TransactionFeesBps: 30,
		ControlFeesBps:     25,

		Environment: "test",
	}
}
