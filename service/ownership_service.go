package service

import (
	"context"
	"fmt"
	"time"

	"clubstake/config"
	"clubstake/events"
	"clubstake/models"
)

type ownershipService struct {
	uowFactory UnitOfWorkFactory
	feeGate
	now func() time.Time
}

// NewOwnershipService creates a new ownership service
func NewOwnershipService(uowFactory UnitOfWorkFactory, oracle PriceOracle) OwnershipService {
	return &ownershipService{
		uowFactory: uowFactory,
		feeGate:    feeGate{oracle: oracle},
		now:        time.Now,
	}
}

// BuyClub purchases a club at the configured price. The club must either
// have no ownership record yet or have been released by the declared seller
// with the repurchase window still open. The seller's accrued owner reward
// survives the sale as a previous-owner balance.
func (s *ownershipService) BuyClub(ctx context.Context, buyerAddress, sellerAddress, clubName string, price int64, autoStake bool, fundsSent int64) error {
	cfg := config.Get()
	if price != cfg.ClubPrice {
		return models.ErrPriceMismatch
	}

	if _, err := s.check(ctx, cfg, price, FeeKindGeneral, fundsSent); err != nil {
		return err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	previousOwner, err := s.transferOwnership(ctx, uow, cfg, buyerAddress, sellerAddress, clubName, price, autoStake)
	if err != nil {
		return err
	}

	uow.EventBus().Publish(events.TokenTransferEvent{
		FromAddress: buyerAddress,
		ToAddress:   cfg.ClubFeesWallet,
		Amount:      price,
	})
	routeFees(uow.EventBus(), cfg, buyerAddress, fundsSent)
	uow.EventBus().Publish(events.OwnershipChangedEvent{
		ClubName:      clubName,
		PreviousOwner: previousOwner,
		NewOwner:      buyerAddress,
		PricePaid:     price,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// AssignClubOwner grants a club without payment. Admin only.
func (s *ownershipService) AssignClubOwner(ctx context.Context, callerAddress, ownerAddress, clubName string, autoStake bool) error {
	cfg := config.Get()
	if callerAddress != cfg.AdminAddress {
		return models.ErrUnauthorized
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	previousOwner, err := s.transferOwnership(ctx, uow, cfg, ownerAddress, "", clubName, 0, autoStake)
	if err != nil {
		return err
	}

	uow.EventBus().Publish(events.OwnershipChangedEvent{
		ClubName:      clubName,
		PreviousOwner: previousOwner,
		NewOwner:      ownerAddress,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// transferOwnership validates the release/repurchase state machine, parks the
// outgoing owner's reward and writes the fresh ownership record. Returns the
// previous owner address, empty for a first sale.
func (s *ownershipService) transferOwnership(ctx context.Context, uow UnitOfWork, cfg *config.Config, buyerAddress, sellerAddress, clubName string, price int64, autoStake bool) (string, error) {
	// A buyer can hold at most one club across the whole platform.
	owned, err := uow.OwnershipRepository().ListByOwner(ctx, buyerAddress)
	if err != nil {
		return "", fmt.Errorf("failed to check buyer ownership: %w", err)
	}
	if len(owned) > 0 {
		return "", models.ErrAlreadyOwnsClub
	}

	existing, err := uow.OwnershipRepository().Get(ctx, clubName)
	if err != nil {
		return "", fmt.Errorf("failed to get club ownership: %w", err)
	}

	previousOwner := ""
	if existing != nil {
		now := s.now()
		if !existing.OwnerReleased {
			return "", models.ErrClubNotReleased
		}
		if existing.WindowExpired(now) {
			return "", models.ErrRepurchaseWindowExpired
		}
		if existing.OwnerAddress != "" && existing.OwnerAddress != sellerAddress {
			return "", models.ErrSellerMismatch
		}
		previousOwner = existing.OwnerAddress

		// Park whatever the outgoing owner had accrued but not claimed.
		if existing.RewardAmount != 0 {
			parked, err := uow.PreviousOwnerRewardRepository().Get(ctx, sellerAddress)
			if err != nil {
				return "", fmt.Errorf("failed to get previous owner reward: %w", err)
			}
			var carried int64
			if parked != nil {
				carried = parked.RewardAmount
			}
			err = uow.PreviousOwnerRewardRepository().Save(ctx, &models.PreviousOwnerReward{
				OwnerAddress: sellerAddress,
				RewardAmount: carried + existing.RewardAmount,
			})
			if err != nil {
				return "", fmt.Errorf("failed to save previous owner reward: %w", err)
			}
		}
	}

	err = uow.OwnershipRepository().Save(ctx, &models.ClubOwnership{
		ClubName:       clubName,
		OwnerAddress:   buyerAddress,
		PricePaid:      price,
		RewardAmount:   0,
		StartTimestamp: s.now(),
		LockingPeriod:  cfg.OwnerReleaseLockingDuration,
		OwnerReleased:  false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to save club ownership: %w", err)
	}

	// Every owner holds a stake entry on their club, zero stake if nothing else.
	stakes, err := uow.StakeRepository().ListByClub(ctx, clubName)
	if err != nil {
		return "", fmt.Errorf("failed to get club stakes: %w", err)
	}
	hasStake := false
	for _, stake := range stakes {
		if stake.StakerAddress == buyerAddress {
			hasStake = true
		}
	}
	if !hasStake {
		stakes = append(stakes, &models.StakeEntry{
			ClubName:         clubName,
			StakerAddress:    buyerAddress,
			StakingStartTime: s.now(),
			StakedAmount:     0,
			RewardAmount:     0,
			AutoStake:        autoStake,
		})
		if err := uow.StakeRepository().ReplaceClub(ctx, clubName, stakes); err != nil {
			return "", fmt.Errorf("failed to save club stakes: %w", err)
		}
	}

	return previousOwner, nil
}

// ReleaseClub puts the caller's club up for sale. The repurchase window
// restarts from the moment of release.
func (s *ownershipService) ReleaseClub(ctx context.Context, ownerAddress, clubName string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	ownership, err := uow.OwnershipRepository().Get(ctx, clubName)
	if err != nil {
		return fmt.Errorf("failed to get club ownership: %w", err)
	}
	if ownership == nil || ownership.OwnerAddress != ownerAddress {
		return models.ErrUnauthorized
	}

	ownership.OwnerReleased = true
	ownership.StartTimestamp = s.now()
	if err := uow.OwnershipRepository().Save(ctx, ownership); err != nil {
		return fmt.Errorf("failed to save club ownership: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ClaimOwnerReward pays out the owner's accrued reward on a club and returns
// the amount claimed.
func (s *ownershipService) ClaimOwnerReward(ctx context.Context, ownerAddress, clubName string) (int64, error) {
	cfg := config.Get()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	ownership, err := uow.OwnershipRepository().Get(ctx, clubName)
	if err != nil {
		return 0, fmt.Errorf("failed to get club ownership: %w", err)
	}
	if ownership == nil || ownership.OwnerAddress != ownerAddress {
		return 0, models.ErrUnauthorized
	}
	if ownership.RewardAmount == 0 {
		return 0, models.ErrNoRewardOwed
	}

	amount := ownership.RewardAmount
	ownership.RewardAmount = 0
	if err := uow.OwnershipRepository().Save(ctx, ownership); err != nil {
		return 0, fmt.Errorf("failed to save club ownership: %w", err)
	}

	uow.EventBus().Publish(events.TokenTransferEvent{
		FromAddress: cfg.TreasuryAddress,
		ToAddress:   ownerAddress,
		Amount:      amount,
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return amount, nil
}

// ClaimPreviousOwnerReward pays out rewards parked when the caller sold a
// club and removes the record.
func (s *ownershipService) ClaimPreviousOwnerReward(ctx context.Context, ownerAddress string) (int64, error) {
	cfg := config.Get()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	parked, err := uow.PreviousOwnerRewardRepository().Get(ctx, ownerAddress)
	if err != nil {
		return 0, fmt.Errorf("failed to get previous owner reward: %w", err)
	}
	if parked == nil {
		return 0, models.ErrNoPreviousOwnership
	}
	if parked.RewardAmount == 0 {
		return 0, models.ErrNoRewardOwed
	}

	if err := uow.PreviousOwnerRewardRepository().Delete(ctx, ownerAddress); err != nil {
		return 0, fmt.Errorf("failed to delete previous owner reward: %w", err)
	}

	uow.EventBus().Publish(events.TokenTransferEvent{
		FromAddress: cfg.TreasuryAddress,
		ToAddress:   ownerAddress,
		Amount:      parked.RewardAmount,
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return parked.RewardAmount, nil
}
