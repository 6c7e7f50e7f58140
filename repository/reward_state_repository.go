package repository

import (
	"context"
	"fmt"
	"time"

	"clubstake/database"
	"clubstake/models"

	"github.com/jackc/pgx/v5"
)

// RewardStateRepository implements the RewardStateRepository interface.
// The reward state is a singleton row seeded by the initial migration.
type RewardStateRepository struct {
	q queryable
}

// NewRewardStateRepository creates a new reward state repository
func NewRewardStateRepository(db *database.DB) *RewardStateRepository {
	return &RewardStateRepository{q: db.Pool}
}

// newRewardStateRepositoryWithTx creates a new reward state repository with a transaction
func newRewardStateRepositoryWithTx(tx queryable) *RewardStateRepository {
	return &RewardStateRepository{q: tx}
}

// Get returns the current reward pool and distribution schedule
func (r *RewardStateRepository) Get(ctx context.Context) (*models.RewardState, error) {
	query := `
		SELECT reward_pool, next_distribution_time
		FROM reward_state
		WHERE id = 1
	`

	var state models.RewardState
	err := r.q.QueryRow(ctx, query).Scan(&state.RewardPool, &state.NextDistributionTime)
	if err == pgx.ErrNoRows {
		return &models.RewardState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reward state: %w", err)
	}

	return &state, nil
}

// SetPool updates the accumulated reward pool
func (r *RewardStateRepository) SetPool(ctx context.Context, pool int64) error {
	_, err := r.q.Exec(ctx, `UPDATE reward_state SET reward_pool = $1 WHERE id = 1`, pool)
	if err != nil {
		return fmt.Errorf("failed to set reward pool: %w", err)
	}

	return nil
}

// SetNextDistributionTime updates the distribution schedule
func (r *RewardStateRepository) SetNextDistributionTime(ctx context.Context, next time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE reward_state SET next_distribution_time = $1 WHERE id = 1`, next)
	if err != nil {
		return fmt.Errorf("failed to set next distribution time: %w", err)
	}

	return nil
}
