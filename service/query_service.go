package service

import (
	"context"
	"fmt"

	"clubstake/config"
	"clubstake/models"
)

type queryService struct {
	uowFactory UnitOfWorkFactory
	feeGate
}

// NewQueryService creates a new query service
func NewQueryService(uowFactory UnitOfWorkFactory, oracle PriceOracle) QueryService {
	return &queryService{
		uowFactory: uowFactory,
		feeGate:    feeGate{oracle: oracle},
	}
}

// withUow runs a read-only operation inside a unit of work.
func (s *queryService) withUow(ctx context.Context, fn func(uow UnitOfWork) error) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *queryService) ClubStakes(ctx context.Context, clubName string) ([]*models.StakeEntry, error) {
	var stakes []*models.StakeEntry
	err := s.withUow(ctx, func(uow UnitOfWork) error {
		var err error
		stakes, err = uow.StakeRepository().ListByClub(ctx, clubName)
		return err
	})
	return stakes, err
}

func (s *queryService) ClubBonds(ctx context.Context, clubName string) ([]*models.BondEntry, error) {
	var bonds []*models.BondEntry
	err := s.withUow(ctx, func(uow UnitOfWork) error {
		var err error
		bonds, err = uow.BondRepository().ListByClub(ctx, clubName)
		return err
	})
	return bonds, err
}

// ClubBondsForUser returns the bonds a single bonder holds in one club,
// preserving queue order.
func (s *queryService) ClubBondsForUser(ctx context.Context, clubName, bonderAddress string) ([]*models.BondEntry, error) {
	var bonds []*models.BondEntry
	err := s.withUow(ctx, func(uow UnitOfWork) error {
		all, err := uow.BondRepository().ListByClub(ctx, clubName)
		if err != nil {
			return err
		}
		for _, bond := range all {
			if bond.BonderAddress == bonderAddress {
				bonds = append(bonds, bond)
			}
		}
		return nil
	})
	return bonds, err
}

func (s *queryService) BondsForUser(ctx context.Context, bonderAddress string) ([]*models.BondEntry, error) {
	var bonds []*models.BondEntry
	err := s.withUow(ctx, func(uow UnitOfWork) error {
		var err error
		bonds, err = uow.BondRepository().ListByBonder(ctx, bonderAddress)
		return err
	})
	return bonds, err
}

func (s *queryService) AllStakes(ctx context.Context) ([]*models.StakeEntry, error) {
	var stakes []*models.StakeEntry
	err := s.withUow(ctx, func(uow UnitOfWork) error {
		var err error
		stakes, err = uow.StakeRepository().ListAll(ctx)
		return err
	})
	return stakes, err
}

func (s *queryService) StakesForUser(ctx context.Context, stakerAddress string) ([]*models.StakeEntry, error) {
	var stakes []*models.StakeEntry
	err := s.withUow(ctx, func(uow UnitOfWork) error {
		var err error
		stakes, err = uow.StakeRepository().ListByStaker(ctx, stakerAddress)
		return err
	})
	return stakes, err
}

func (s *queryService) AllBonds(ctx context.Context) ([]*models.BondEntry, error) {
	var bonds []*models.BondEntry
	err := s.withUow(ctx, func(uow UnitOfWork) error {
		var err error
		bonds, err = uow.BondRepository().ListAll(ctx)
		return err
	})
	return bonds, err
}

func (s *queryService) Ownership(ctx context.Context, clubName string) (*models.ClubOwnership, error) {
	var ownership *models.ClubOwnership
	err := s.withUow(ctx, func(uow UnitOfWork) error {
		var err error
		ownership, err = uow.OwnershipRepository().Get(ctx, clubName)
		return err
	})
	return ownership, err
}

func (s *queryService) OwnershipsForOwner(ctx context.Context, ownerAddress string) ([]*models.ClubOwnership, error) {
	var ownerships []*models.ClubOwnership
	err := s.withUow(ctx, func(uow UnitOfWork) error {
		var err error
		ownerships, err = uow.OwnershipRepository().ListByOwner(ctx, ownerAddress)
		return err
	})
	return ownerships, err
}

func (s *queryService) AllOwnerships(ctx context.Context) ([]*models.ClubOwnership, error) {
	var ownerships []*models.ClubOwnership
	err := s.withUow(ctx, func(uow UnitOfWork) error {
		var err error
		ownerships, err = uow.OwnershipRepository().List(ctx)
		return err
	})
	return ownerships, err
}

func (s *queryService) AllPreviousOwnerRewards(ctx context.Context) ([]*models.PreviousOwnerReward, error) {
	var rewards []*models.PreviousOwnerReward
	err := s.withUow(ctx, func(uow UnitOfWork) error {
		var err error
		rewards, err = uow.PreviousOwnerRewardRepository().List(ctx)
		return err
	})
	return rewards, err
}

// Ranking computes the current club ranking. Unlike a distribution pass it
// leaves the stake snapshots untouched.
func (s *queryService) Ranking(ctx context.Context) (*models.ClubRanking, error) {
	var ranking *models.ClubRanking
	err := s.withUow(ctx, func(uow UnitOfWork) error {
		var err error
		ranking, err = computeClubRanking(ctx, uow.StakeRepository(), uow.SnapshotRepository(), false)
		return err
	})
	return ranking, err
}

func (s *queryService) RewardPool(ctx context.Context) (int64, error) {
	var pool int64
	err := s.withUow(ctx, func(uow UnitOfWork) error {
		state, err := uow.RewardStateRepository().Get(ctx)
		if err != nil {
			return err
		}
		pool = state.RewardPool
		return nil
	})
	return pool, err
}

// StakerReward returns the reward currently owed to a staker on a club,
// summed across their entries.
func (s *queryService) StakerReward(ctx context.Context, stakerAddress, clubName string) (int64, error) {
	var total int64
	err := s.withUow(ctx, func(uow UnitOfWork) error {
		stakes, err := uow.StakeRepository().ListByClub(ctx, clubName)
		if err != nil {
			return err
		}
		for _, stake := range stakes {
			if stake.StakerAddress == stakerAddress {
				total += stake.RewardAmount
			}
		}
		return nil
	})
	return total, err
}

func (s *queryService) PreviousOwnerReward(ctx context.Context, ownerAddress string) (int64, error) {
	var amount int64
	err := s.withUow(ctx, func(uow UnitOfWork) error {
		reward, err := uow.PreviousOwnerRewardRepository().Get(ctx, ownerAddress)
		if err != nil {
			return err
		}
		if reward != nil {
			amount = reward.RewardAmount
		}
		return nil
	})
	return amount, err
}

// FeeQuote returns the fee owed for an operation on amount, in staking token
// units.
func (s *queryService) FeeQuote(ctx context.Context, amount int64, kind FeeKind) (int64, error) {
	return s.quote(ctx, config.Get(), amount, kind)
}
