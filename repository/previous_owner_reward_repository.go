package repository

import (
	"context"
	"fmt"

	"clubstake/database"
	"clubstake/models"

	"github.com/jackc/pgx/v5"
)

// PreviousOwnerRewardRepository implements the PreviousOwnerRewardRepository interface
type PreviousOwnerRewardRepository struct {
	q queryable
}

// NewPreviousOwnerRewardRepository creates a new previous owner reward repository
func NewPreviousOwnerRewardRepository(db *database.DB) *PreviousOwnerRewardRepository {
	return &PreviousOwnerRewardRepository{q: db.Pool}
}

// newPreviousOwnerRewardRepositoryWithTx creates a new previous owner reward repository with a transaction
func newPreviousOwnerRewardRepositoryWithTx(tx queryable) *PreviousOwnerRewardRepository {
	return &PreviousOwnerRewardRepository{q: tx}
}

// Get returns the parked reward for a former owner, or nil when nothing is owed
func (r *PreviousOwnerRewardRepository) Get(ctx context.Context, ownerAddress string) (*models.PreviousOwnerReward, error) {
	query := `
		SELECT owner_address, reward_amount
		FROM previous_owner_rewards
		WHERE owner_address = $1
	`

	var reward models.PreviousOwnerReward
	err := r.q.QueryRow(ctx, query, ownerAddress).Scan(&reward.OwnerAddress, &reward.RewardAmount)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get previous owner reward for %s: %w", ownerAddress, err)
	}

	return &reward, nil
}

// Save upserts a former owner's parked reward
func (r *PreviousOwnerRewardRepository) Save(ctx context.Context, reward *models.PreviousOwnerReward) error {
	query := `
		INSERT INTO previous_owner_rewards (owner_address, reward_amount)
		VALUES ($1, $2)
		ON CONFLICT (owner_address) DO UPDATE SET
			reward_amount = EXCLUDED.reward_amount
	`

	_, err := r.q.Exec(ctx, query, reward.OwnerAddress, reward.RewardAmount)
	if err != nil {
		return fmt.Errorf("failed to save previous owner reward for %s: %w", reward.OwnerAddress, err)
	}

	return nil
}

// Delete removes a former owner's record after they claim
func (r *PreviousOwnerRewardRepository) Delete(ctx context.Context, ownerAddress string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM previous_owner_rewards WHERE owner_address = $1`, ownerAddress)
	if err != nil {
		return fmt.Errorf("failed to delete previous owner reward for %s: %w", ownerAddress, err)
	}

	return nil
}

// List returns every parked reward, ascending by owner address
func (r *PreviousOwnerRewardRepository) List(ctx context.Context) ([]*models.PreviousOwnerReward, error) {
	query := `
		SELECT owner_address, reward_amount
		FROM previous_owner_rewards
		ORDER BY owner_address
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list previous owner rewards: %w", err)
	}
	defer rows.Close()

	var rewards []*models.PreviousOwnerReward
	for rows.Next() {
		var reward models.PreviousOwnerReward
		if err := rows.Scan(&reward.OwnerAddress, &reward.RewardAmount); err != nil {
			return nil, fmt.Errorf("failed to scan previous owner reward: %w", err)
		}
		rewards = append(rewards, &reward)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate previous owner rewards: %w", err)
	}

	return rewards, nil
}
