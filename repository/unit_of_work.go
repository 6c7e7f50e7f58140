package repository

import (
	"context"
	"fmt"

	"clubstake/database"
	"clubstake/events"
	"clubstake/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	stakeRepo        service.StakeRepository
	bondRepo         service.BondRepository
	ownershipRepo    service.OwnershipRepository
	prevOwnerRepo    service.PreviousOwnerRewardRepository
	snapshotRepo     service.SnapshotRepository
	rewardStateRepo  service.RewardStateRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.stakeRepo = newStakeRepositoryWithTx(tx)
	u.bondRepo = newBondRepositoryWithTx(tx)
	u.ownershipRepo = newOwnershipRepositoryWithTx(tx)
	u.prevOwnerRepo = newPreviousOwnerRewardRepositoryWithTx(tx)
	u.snapshotRepo = newSnapshotRepositoryWithTx(tx)
	u.rewardStateRepo = newRewardStateRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// StakeRepository returns the stake repository for this unit of work
func (u *unitOfWork) StakeRepository() service.StakeRepository {
	if u.stakeRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.stakeRepo
}

// BondRepository returns the bond repository for this unit of work
func (u *unitOfWork) BondRepository() service.BondRepository {
	if u.bondRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.bondRepo
}

// OwnershipRepository returns the ownership repository for this unit of work
func (u *unitOfWork) OwnershipRepository() service.OwnershipRepository {
	if u.ownershipRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ownershipRepo
}

// PreviousOwnerRewardRepository returns the previous owner reward repository for this unit of work
func (u *unitOfWork) PreviousOwnerRewardRepository() service.PreviousOwnerRewardRepository {
	if u.prevOwnerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.prevOwnerRepo
}

// SnapshotRepository returns the snapshot repository for this unit of work
func (u *unitOfWork) SnapshotRepository() service.SnapshotRepository {
	if u.snapshotRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.snapshotRepo
}

// RewardStateRepository returns the reward state repository for this unit of work
func (u *unitOfWork) RewardStateRepository() service.RewardStateRepository {
	if u.rewardStateRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.rewardStateRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
