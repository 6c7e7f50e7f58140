package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"clubstake/config"
	"clubstake/events"
	"clubstake/models"
)

type distributionService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewDistributionService creates a new distribution service
func NewDistributionService(uowFactory UnitOfWorkFactory) DistributionService {
	return &distributionService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// FundRewardPool credits the reward pool. Only the funding authority, the
// token contract that already holds the funds, may call this.
func (s *distributionService) FundRewardPool(ctx context.Context, callerAddress string, amount int64) error {
	cfg := config.Get()
	if callerAddress != cfg.FundingAddress {
		return models.ErrUnauthorized
	}
	if amount <= 0 {
		return fmt.Errorf("funding amount must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	state, err := uow.RewardStateRepository().Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get reward state: %w", err)
	}
	if err := uow.RewardStateRepository().SetPool(ctx, state.RewardPool+amount); err != nil {
		return fmt.Errorf("failed to update reward pool: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"amount":  amount,
		"newPool": state.RewardPool + amount,
	}).Info("Reward pool funded")

	return nil
}

// DistributeRewards ranks all clubs and splits the accumulated pool:
// 78% across every staker proportional to stake, 19% across the winning
// clubs' stakers proportional to stake within the club, 2% equally among
// non-winning club owners and the remainder to the winning owners. Admin
// only, and gated on the configured periodicity.
func (s *distributionService) DistributeRewards(ctx context.Context, callerAddress string) error {
	cfg := config.Get()
	if callerAddress != cfg.AdminAddress {
		return models.ErrUnauthorized
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	state, err := uow.RewardStateRepository().Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get reward state: %w", err)
	}

	now := s.now()
	if now.Before(state.NextDistributionTime) {
		return models.ErrNotYetDue
	}

	// Roll the schedule forward by whole periods past now, so a late run
	// does not shift the cadence.
	next := state.NextDistributionTime
	for next.Before(now) {
		next = next.Add(cfg.RewardPeriodicity)
	}
	if err := uow.RewardStateRepository().SetNextDistributionTime(ctx, next); err != nil {
		return fmt.Errorf("failed to set next distribution time: %w", err)
	}

	// An empty pool still advances the schedule.
	if state.RewardPool == 0 {
		if err := uow.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		log.Debug("No accumulated rewards to distribute")
		return nil
	}

	ranking, err := computeClubRanking(ctx, uow.StakeRepository(), uow.SnapshotRepository(), true)
	if err != nil {
		return err
	}
	if len(ranking.Clubs) == 0 {
		return models.ErrNoStakesFound
	}

	totalReward := state.RewardPool
	winnerCount := int64(ranking.WinnerCount)
	otherClubCount := int64(len(ranking.Clubs)) - winnerCount

	var totalStaking int64
	for _, club := range ranking.Clubs {
		totalStaking += club.TotalStake
	}

	// 19% split equally across winning clubs, then proportionally inside each.
	rewardPerWinnerClub := totalReward * 19 / 100 / winnerCount

	// 78% across every staker on the platform, proportional to stake.
	allStakersReward := totalReward * 78 / 100

	// 2% equally among the non-winning owners, when there are any.
	var totalForOtherOwners, rewardPerOtherOwner int64
	if otherClubCount > 0 {
		totalForOtherOwners = totalReward * 2 / 100
		rewardPerOtherOwner = totalForOtherOwners / otherClubCount
	}

	// Winning owners take what the other buckets leave behind.
	rewardPerWinnerOwner := totalReward - allStakersReward - rewardPerWinnerClub - totalForOtherOwners
	if winnerCount > 1 {
		rewardPerWinnerOwner /= winnerCount
	}

	var given int64
	for i, club := range ranking.Clubs {
		ownership, err := uow.OwnershipRepository().Get(ctx, club.ClubName)
		if err != nil {
			return fmt.Errorf("failed to get ownership for club %s: %w", club.ClubName, err)
		}
		ownerAddress := ""
		if ownership != nil {
			ownerAddress = ownership.OwnerAddress
		}

		entries, err := uow.StakeRepository().ListByClub(ctx, club.ClubName)
		if err != nil {
			return fmt.Errorf("failed to get stakes for club %s: %w", club.ClubName, err)
		}

		isWinner := int64(i) < winnerCount
		for _, entry := range entries {
			// All entries can sit at zero principal right after a club
			// purchase; the proportional buckets then pay nothing.
			if totalStaking > 0 {
				share := allStakersReward * entry.StakedAmount / totalStaking
				applyReward(entry, share)
				given += share
			}

			if isWinner && club.TotalStake > 0 {
				share := rewardPerWinnerClub * entry.StakedAmount / club.TotalStake
				applyReward(entry, share)
				given += share
			}

			if entry.StakerAddress == ownerAddress {
				bonus := rewardPerOtherOwner
				if isWinner {
					bonus = rewardPerWinnerOwner
				}
				applyReward(entry, bonus)
				given += bonus
			}
		}

		if err := uow.StakeRepository().ReplaceClub(ctx, club.ClubName, entries); err != nil {
			return fmt.Errorf("failed to save stakes for club %s: %w", club.ClubName, err)
		}
	}

	remaining := totalReward - given
	if err := uow.RewardStateRepository().SetPool(ctx, remaining); err != nil {
		return fmt.Errorf("failed to update reward pool: %w", err)
	}

	winnerNames := make([]string, 0, winnerCount)
	for i := int64(0); i < winnerCount; i++ {
		winnerNames = append(winnerNames, ranking.Clubs[i].ClubName)
	}
	uow.EventBus().Publish(events.RewardsDistributedEvent{
		TotalDistributed: given,
		WinnerClubs:      winnerNames,
		RemainingPool:    remaining,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"distributed": given,
		"remaining":   remaining,
		"winners":     winnerNames,
	}).Info("Rewards distributed")

	return nil
}

// applyReward credits amount to a stake entry, folding into the principal
// for auto-staking entries.
func applyReward(entry *models.StakeEntry, amount int64) {
	if entry.AutoStake {
		entry.StakedAmount += amount + entry.RewardAmount
		entry.RewardAmount = 0
	} else {
		entry.RewardAmount += amount
	}
}
