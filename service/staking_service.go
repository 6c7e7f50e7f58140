package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"clubstake/config"
	"clubstake/events"
	"clubstake/models"
)

type stakingService struct {
	uowFactory UnitOfWorkFactory
	feeGate
	now func() time.Time
}

// NewStakingService creates a new staking service
func NewStakingService(uowFactory UnitOfWorkFactory, oracle PriceOracle) StakingService {
	return &stakingService{
		uowFactory: uowFactory,
		feeGate:    feeGate{oracle: oracle},
		now:        time.Now,
	}
}

// StakeOnClub adds amount to the staker's position on a club. The club must
// have an ownership record. The transferred tokens move into the treasury;
// attached funds pay the platform fees.
func (s *stakingService) StakeOnClub(ctx context.Context, stakerAddress, clubName string, amount int64, autoStake bool, fundsSent int64) error {
	if amount <= 0 {
		return fmt.Errorf("stake amount must be positive")
	}

	cfg := config.Get()
	if _, err := s.check(ctx, cfg, amount, FeeKindStake, fundsSent); err != nil {
		return err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	ownership, err := uow.OwnershipRepository().Get(ctx, clubName)
	if err != nil {
		return fmt.Errorf("failed to get club ownership: %w", err)
	}
	if ownership == nil {
		return models.ErrClubNotFound
	}

	if err := s.increaseStake(ctx, uow, stakerAddress, clubName, amount, autoStake); err != nil {
		return err
	}

	uow.EventBus().Publish(events.TokenTransferEvent{
		FromAddress: stakerAddress,
		ToAddress:   cfg.TreasuryAddress,
		Amount:      amount,
	})
	routeFees(uow.EventBus(), cfg, stakerAddress, fundsSent)

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// WithdrawStake removes amount from the staker's position. A non-immediate
// withdrawal parks the amount in the bonding queue for the configured
// cooldown. An immediate withdrawal must be fully covered by the staker's
// matured bonds.
func (s *stakingService) WithdrawStake(ctx context.Context, stakerAddress, clubName string, amount int64, immediate bool, fundsSent int64) error {
	if amount <= 0 {
		return fmt.Errorf("withdrawal amount must be positive")
	}

	cfg := config.Get()
	if _, err := s.check(ctx, cfg, amount, FeeKindGeneral, fundsSent); err != nil {
		return err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	ownership, err := uow.OwnershipRepository().Get(ctx, clubName)
	if err != nil {
		return fmt.Errorf("failed to get club ownership: %w", err)
	}
	if ownership == nil {
		return models.ErrClubNotFound
	}

	stakes, err := uow.StakeRepository().ListByClub(ctx, clubName)
	if err != nil {
		return fmt.Errorf("failed to get club stakes: %w", err)
	}
	hasStake := false
	for _, stake := range stakes {
		if stake.StakerAddress == stakerAddress {
			hasStake = true
		}
	}
	if !hasStake {
		return models.ErrNotAStaker
	}

	if immediate {
		if err := s.withdrawImmediate(ctx, uow, cfg, stakerAddress, clubName, amount); err != nil {
			return err
		}
	} else {
		if err := s.decreaseStake(ctx, uow, stakerAddress, clubName, amount); err != nil {
			return err
		}
		bonds, err := uow.BondRepository().ListByClub(ctx, clubName)
		if err != nil {
			return fmt.Errorf("failed to get club bonds: %w", err)
		}
		bonds = append(bonds, &models.BondEntry{
			ClubName:         clubName,
			BonderAddress:    stakerAddress,
			BondingStartTime: s.now(),
			BondedAmount:     amount,
			BondingDuration:  cfg.BondingDuration,
		})
		if err := uow.BondRepository().ReplaceClub(ctx, clubName, bonds); err != nil {
			return fmt.Errorf("failed to save club bonds: %w", err)
		}
	}

	routeFees(uow.EventBus(), cfg, stakerAddress, fundsSent)

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// withdrawImmediate consumes the staker's matured bonds newest-first and pays
// the full amount at once. Anything matured bonds cannot cover aborts the
// whole withdrawal.
func (s *stakingService) withdrawImmediate(ctx context.Context, uow UnitOfWork, cfg *config.Config, stakerAddress, clubName string, amount int64) error {
	bonds, err := uow.BondRepository().ListByClub(ctx, clubName)
	if err != nil {
		return fmt.Errorf("failed to get club bonds: %w", err)
	}

	sort.SliceStable(bonds, func(i, j int) bool {
		return bonds[i].BondingStartTime.After(bonds[j].BondingStartTime)
	})

	now := s.now()
	remaining := amount
	var unbonded int64
	updated := make([]*models.BondEntry, 0, len(bonds))
	for _, bond := range bonds {
		if bond.BonderAddress != stakerAddress || !bond.MaturedBefore(now) {
			updated = append(updated, bond)
			continue
		}
		if remaining <= 0 {
			updated = append(updated, bond)
			continue
		}
		if bond.BondedAmount > remaining {
			unbonded += remaining
			bond.BondedAmount -= remaining
			remaining = 0
			updated = append(updated, bond)
		} else {
			unbonded += bond.BondedAmount
			remaining -= bond.BondedAmount
		}
	}

	if err := uow.BondRepository().ReplaceClub(ctx, clubName, updated); err != nil {
		return fmt.Errorf("failed to save club bonds: %w", err)
	}

	if err := s.decreaseStake(ctx, uow, stakerAddress, clubName, amount-unbonded); err != nil {
		return err
	}

	// The stake reduction above never survives this error; the transaction
	// rolls back and only fully covered withdrawals go through.
	if amount > unbonded {
		return models.ErrInsufficientMaturedBonds
	}

	uow.EventBus().Publish(events.TokenTransferEvent{
		FromAddress: cfg.TreasuryAddress,
		ToAddress:   stakerAddress,
		Amount:      amount,
	})

	return nil
}

// SweepMaturedBonds refunds every matured bond across all clubs. Admin only.
// Running it twice in a row is a no-op.
func (s *stakingService) SweepMaturedBonds(ctx context.Context, callerAddress string) error {
	cfg := config.Get()
	if callerAddress != cfg.AdminAddress {
		return models.ErrUnauthorized
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	now := s.now()
	clubs, err := uow.BondRepository().ListClubs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clubs with bonds: %w", err)
	}

	for _, clubName := range clubs {
		bonds, err := uow.BondRepository().ListByClub(ctx, clubName)
		if err != nil {
			return fmt.Errorf("failed to get bonds for club %s: %w", clubName, err)
		}

		retained := make([]*models.BondEntry, 0, len(bonds))
		for _, bond := range bonds {
			// A bond exactly at its maturity boundary stays for one more sweep.
			if bond.BondingStartTime.Before(now.Add(-bond.BondingDuration)) {
				uow.EventBus().Publish(events.TokenTransferEvent{
					FromAddress: cfg.TreasuryAddress,
					ToAddress:   bond.BonderAddress,
					Amount:      bond.BondedAmount,
				})
			} else {
				retained = append(retained, bond)
			}
		}

		if err := uow.BondRepository().ReplaceClub(ctx, clubName, retained); err != nil {
			return fmt.Errorf("failed to save bonds for club %s: %w", clubName, err)
		}
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ClaimStakerReward zeroes the staker's accrued reward on a club and pays it
// out, returning the amount claimed.
func (s *stakingService) ClaimStakerReward(ctx context.Context, stakerAddress, clubName string, fundsSent int64) (int64, error) {
	cfg := config.Get()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	stakes, err := uow.StakeRepository().ListByClub(ctx, clubName)
	if err != nil {
		return 0, fmt.Errorf("failed to get club stakes: %w", err)
	}

	var total int64
	matched := false
	for _, stake := range stakes {
		if stake.StakerAddress == stakerAddress {
			matched = true
			total += stake.RewardAmount
			stake.RewardAmount = 0
		}
	}
	if !matched {
		return 0, models.ErrNotAStaker
	}
	if total == 0 {
		return 0, models.ErrNoRewardOwed
	}

	if _, err := s.check(ctx, cfg, total, FeeKindGeneral, fundsSent); err != nil {
		return 0, err
	}

	if err := uow.StakeRepository().ReplaceClub(ctx, clubName, stakes); err != nil {
		return 0, fmt.Errorf("failed to save club stakes: %w", err)
	}

	uow.EventBus().Publish(events.TokenTransferEvent{
		FromAddress: cfg.TreasuryAddress,
		ToAddress:   stakerAddress,
		Amount:      total,
	})
	routeFees(uow.EventBus(), cfg, stakerAddress, fundsSent)

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return total, nil
}

// AssignStakesToClub seeds stakes on a club in one batch, merging into any
// existing entries. Admin only; used to migrate positions in before launch.
func (s *stakingService) AssignStakesToClub(ctx context.Context, callerAddress, clubName string, assignments []*models.StakeEntry) error {
	cfg := config.Get()
	if callerAddress != cfg.AdminAddress {
		return models.ErrUnauthorized
	}

	for _, stake := range assignments {
		if stake.ClubName != clubName {
			return fmt.Errorf("stake entry club %q does not match %q", stake.ClubName, clubName)
		}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	ownership, err := uow.OwnershipRepository().Get(ctx, clubName)
	if err != nil {
		return fmt.Errorf("failed to get club ownership: %w", err)
	}
	if ownership == nil {
		return models.ErrClubNotFound
	}

	var total int64
	for _, stake := range assignments {
		total += stake.StakedAmount
		if err := s.increaseStake(ctx, uow, stake.StakerAddress, clubName, stake.StakedAmount, stake.AutoStake); err != nil {
			return err
		}
	}

	uow.EventBus().Publish(events.TokenTransferEvent{
		FromAddress: callerAddress,
		ToAddress:   cfg.TreasuryAddress,
		Amount:      total,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// increaseStake merges amount into the staker's entry on a club, creating it
// when absent. When auto-stake is requested the accrued reward folds into
// the principal. The entry always records the latest auto-stake choice.
func (s *stakingService) increaseStake(ctx context.Context, uow UnitOfWork, stakerAddress, clubName string, amount int64, autoStake bool) error {
	stakes, err := uow.StakeRepository().ListByClub(ctx, clubName)
	if err != nil {
		return fmt.Errorf("failed to get club stakes: %w", err)
	}

	merged := false
	for _, stake := range stakes {
		if stake.StakerAddress == stakerAddress {
			stake.StakedAmount += amount
			stake.AutoStake = autoStake
			if autoStake {
				stake.StakedAmount += stake.RewardAmount
				stake.RewardAmount = 0
			}
			merged = true
		}
	}
	if !merged {
		stakes = append(stakes, &models.StakeEntry{
			ClubName:         clubName,
			StakerAddress:    stakerAddress,
			StakingStartTime: s.now(),
			StakedAmount:     amount,
			RewardAmount:     0,
			AutoStake:        autoStake,
		})
	}

	if err := uow.StakeRepository().ReplaceClub(ctx, clubName, stakes); err != nil {
		return fmt.Errorf("failed to save club stakes: %w", err)
	}

	return nil
}

// decreaseStake removes amount from the staker's entry on a club.
func (s *stakingService) decreaseStake(ctx context.Context, uow UnitOfWork, stakerAddress, clubName string, amount int64) error {
	stakes, err := uow.StakeRepository().ListByClub(ctx, clubName)
	if err != nil {
		return fmt.Errorf("failed to get club stakes: %w", err)
	}

	found := false
	for _, stake := range stakes {
		if stake.StakerAddress == stakerAddress {
			if stake.StakedAmount < amount {
				return models.ErrExcessWithdrawal
			}
			stake.StakedAmount -= amount
			found = true
		}
	}
	if !found {
		return models.ErrNotAStaker
	}

	if err := uow.StakeRepository().ReplaceClub(ctx, clubName, stakes); err != nil {
		return fmt.Errorf("failed to save club stakes: %w", err)
	}

	return nil
}
