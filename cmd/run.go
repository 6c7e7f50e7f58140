package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"clubstake/config"
	"clubstake/database"
	"clubstake/events"
	"clubstake/models"
	"clubstake/repository"
	"clubstake/service"
)

// Run initializes and starts the staking engine daemon
func Run(ctx context.Context) error {
	log.Println("Starting club staking engine...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()
	subscribeEventLogging(eventBus)

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Println("Initializing services...")
	oracle := service.NewFixedRateOracle(1, 1)
	distributionService := service.NewDistributionService(uowFactory)
	stakingService := service.NewStakingService(uowFactory, oracle)
	log.Println("Services initialized successfully")

	log.Printf("Engine is running in %s mode...", cfg.Environment)

	// Periodically attempt a distribution pass and sweep matured bonds.
	// Both calls are idempotent so a short interval is safe.
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			if err := distributionService.DistributeRewards(ctx, cfg.AdminAddress); err != nil {
				if !errors.Is(err, models.ErrNotYetDue) {
					log.Printf("Distribution pass failed: %v", err)
				}
			}
			if err := stakingService.SweepMaturedBonds(ctx, cfg.AdminAddress); err != nil {
				log.Printf("Bond sweep failed: %v", err)
			}
		}
	}

	// Cleanup resources
	log.Println("Shutting down engine...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}

// subscribeEventLogging logs committed engine events so operators can trace
// the token movements the host is expected to perform.
func subscribeEventLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypeTokenTransfer, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.TokenTransferEvent); ok {
			log.Printf("Token transfer requested: %s -> %s amount=%d", e.FromAddress, e.ToAddress, e.Amount)
		}
	})
	bus.Subscribe(events.EventTypeFeeRouted, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.FeeRoutedEvent); ok {
			log.Printf("Fees routed: payer=%s wallet=%s amount=%d", e.PayerAddress, e.WalletAddress, e.Amount)
		}
	})
	bus.Subscribe(events.EventTypeRewardsDistributed, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.RewardsDistributedEvent); ok {
			log.Printf("Rewards distributed: total=%d winners=%v remaining=%d", e.TotalDistributed, e.WinnerClubs, e.RemainingPool)
		}
	})
	bus.Subscribe(events.EventTypeOwnershipChanged, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.OwnershipChangedEvent); ok {
			log.Printf("Ownership changed: club=%s %s -> %s price=%d", e.ClubName, e.PreviousOwner, e.NewOwner, e.PricePaid)
		}
	})
}
