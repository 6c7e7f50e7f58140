package repository

import (
	"context"
	"fmt"
	"time"

	"clubstake/database"
	"clubstake/models"

	"github.com/jackc/pgx/v5"
)

// OwnershipRepository implements the OwnershipRepository interface
type OwnershipRepository struct {
	q queryable
}

// NewOwnershipRepository creates a new ownership repository
func NewOwnershipRepository(db *database.DB) *OwnershipRepository {
	return &OwnershipRepository{q: db.Pool}
}

// newOwnershipRepositoryWithTx creates a new ownership repository with a transaction
func newOwnershipRepositoryWithTx(tx queryable) *OwnershipRepository {
	return &OwnershipRepository{q: tx}
}

const ownershipColumns = `club_name, owner_address, price_paid, reward_amount, start_timestamp, locking_period_seconds, owner_released`

// Get returns the ownership record for a club, or nil if the club has never
// been bought
func (r *OwnershipRepository) Get(ctx context.Context, clubName string) (*models.ClubOwnership, error) {
	query := `
		SELECT ` + ownershipColumns + `
		FROM club_ownership
		WHERE club_name = $1
	`

	ownership, err := scanOwnership(r.q.QueryRow(ctx, query, clubName))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ownership for club %s: %w", clubName, err)
	}

	return ownership, nil
}

// Save upserts the ownership record for a club
func (r *OwnershipRepository) Save(ctx context.Context, ownership *models.ClubOwnership) error {
	query := `
		INSERT INTO club_ownership (club_name, owner_address, price_paid, reward_amount, start_timestamp, locking_period_seconds, owner_released)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (club_name) DO UPDATE SET
			owner_address = EXCLUDED.owner_address,
			price_paid = EXCLUDED.price_paid,
			reward_amount = EXCLUDED.reward_amount,
			start_timestamp = EXCLUDED.start_timestamp,
			locking_period_seconds = EXCLUDED.locking_period_seconds,
			owner_released = EXCLUDED.owner_released
	`

	_, err := r.q.Exec(ctx, query,
		ownership.ClubName,
		ownership.OwnerAddress,
		ownership.PricePaid,
		ownership.RewardAmount,
		ownership.StartTimestamp,
		int64(ownership.LockingPeriod/time.Second),
		ownership.OwnerReleased,
	)
	if err != nil {
		return fmt.Errorf("failed to save ownership for club %s: %w", ownership.ClubName, err)
	}

	return nil
}

// List returns every ownership record, ascending by club name
func (r *OwnershipRepository) List(ctx context.Context) ([]*models.ClubOwnership, error) {
	query := `
		SELECT ` + ownershipColumns + `
		FROM club_ownership
		ORDER BY club_name
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ownerships: %w", err)
	}
	defer rows.Close()

	return scanOwnerships(rows)
}

// ListByOwner returns the clubs currently owned by an address
func (r *OwnershipRepository) ListByOwner(ctx context.Context, ownerAddress string) ([]*models.ClubOwnership, error) {
	query := `
		SELECT ` + ownershipColumns + `
		FROM club_ownership
		WHERE owner_address = $1
		ORDER BY club_name
	`

	rows, err := r.q.Query(ctx, query, ownerAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to list ownerships for owner %s: %w", ownerAddress, err)
	}
	defer rows.Close()

	return scanOwnerships(rows)
}

func scanOwnership(row pgx.Row) (*models.ClubOwnership, error) {
	var ownership models.ClubOwnership
	var lockingSeconds int64
	err := row.Scan(
		&ownership.ClubName,
		&ownership.OwnerAddress,
		&ownership.PricePaid,
		&ownership.RewardAmount,
		&ownership.StartTimestamp,
		&lockingSeconds,
		&ownership.OwnerReleased,
	)
	if err != nil {
		return nil, err
	}
	ownership.LockingPeriod = time.Duration(lockingSeconds) * time.Second
	return &ownership, nil
}

func scanOwnerships(rows pgx.Rows) ([]*models.ClubOwnership, error) {
	var ownerships []*models.ClubOwnership
	for rows.Next() {
		ownership, err := scanOwnership(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ownership: %w", err)
		}
		ownerships = append(ownerships, ownership)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ownerships: %w", err)
	}

	return ownerships, nil
}
