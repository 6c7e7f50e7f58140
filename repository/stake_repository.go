package repository

import (
	"context"
	"fmt"

	"clubstake/database"
	"clubstake/models"

	"github.com/jackc/pgx/v5"
)

// StakeRepository implements the StakeRepository interface
type StakeRepository struct {
	q queryable
}

// NewStakeRepository creates a new stake repository
func NewStakeRepository(db *database.DB) *StakeRepository {
	return &StakeRepository{q: db.Pool}
}

// newStakeRepositoryWithTx creates a new stake repository with a transaction
func newStakeRepositoryWithTx(tx queryable) *StakeRepository {
	return &StakeRepository{q: tx}
}

const stakeColumns = `club_name, staker_address, staking_start_time, staked_amount, reward_amount, auto_stake`

// ListByClub returns the club's stake entries in insertion order
func (r *StakeRepository) ListByClub(ctx context.Context, clubName string) ([]*models.StakeEntry, error) {
	query := `
		SELECT ` + stakeColumns + `
		FROM stake_entries
		WHERE club_name = $1
		ORDER BY position
	`

	rows, err := r.q.Query(ctx, query, clubName)
	if err != nil {
		return nil, fmt.Errorf("failed to get stakes for club %s: %w", clubName, err)
	}
	defer rows.Close()

	return scanStakeEntries(rows)
}

// ReplaceClub atomically replaces the club's stake list, preserving order
// through the position column
func (r *StakeRepository) ReplaceClub(ctx context.Context, clubName string, entries []*models.StakeEntry) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stake_entries WHERE club_name = $1`, clubName); err != nil {
		return fmt.Errorf("failed to clear stakes for club %s: %w", clubName, err)
	}

	query := `
		INSERT INTO stake_entries (club_name, staker_address, position, staking_start_time, staked_amount, reward_amount, auto_stake)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, entry := range entries {
		_, err := r.q.Exec(ctx, query,
			clubName,
			entry.StakerAddress,
			i,
			entry.StakingStartTime,
			entry.StakedAmount,
			entry.RewardAmount,
			entry.AutoStake,
		)
		if err != nil {
			return fmt.Errorf("failed to insert stake for club %s: %w", clubName, err)
		}
	}

	return nil
}

// ListClubs returns the names of all clubs with a stake list, ascending
func (r *StakeRepository) ListClubs(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT club_name
		FROM stake_entries
		ORDER BY club_name
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs with stakes: %w", err)
	}
	defer rows.Close()

	var clubs []string
	for rows.Next() {
		var clubName string
		if err := rows.Scan(&clubName); err != nil {
			return nil, fmt.Errorf("failed to scan club name: %w", err)
		}
		clubs = append(clubs, clubName)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clubs: %w", err)
	}

	return clubs, nil
}

// ListAll returns every stake entry, grouped by club in ascending club order
func (r *StakeRepository) ListAll(ctx context.Context) ([]*models.StakeEntry, error) {
	query := `
		SELECT ` + stakeColumns + `
		FROM stake_entries
		ORDER BY club_name, position
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all stakes: %w", err)
	}
	defer rows.Close()

	return scanStakeEntries(rows)
}

// ListByStaker returns all of a staker's entries across clubs
func (r *StakeRepository) ListByStaker(ctx context.Context, stakerAddress string) ([]*models.StakeEntry, error) {
	query := `
		SELECT ` + stakeColumns + `
		FROM stake_entries
		WHERE staker_address = $1
		ORDER BY club_name, position
	`

	rows, err := r.q.Query(ctx, query, stakerAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to get stakes for staker %s: %w", stakerAddress, err)
	}
	defer rows.Close()

	return scanStakeEntries(rows)
}

func scanStakeEntries(rows pgx.Rows) ([]*models.StakeEntry, error) {
	var entries []*models.StakeEntry
	for rows.Next() {
		var entry models.StakeEntry
		err := rows.Scan(
			&entry.ClubName,
			&entry.StakerAddress,
			&entry.StakingStartTime,
			&entry.StakedAmount,
			&entry.RewardAmount,
			&entry.AutoStake,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stake entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stake entries: %w", err)
	}

	return entries, nil
}
