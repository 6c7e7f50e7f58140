package repository

import (
	"context"
	"fmt"

	"clubstake/database"
)

// SnapshotRepository implements the SnapshotRepository interface
type SnapshotRepository struct {
	q queryable
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *database.DB) *SnapshotRepository {
	return &SnapshotRepository{q: db.Pool}
}

// newSnapshotRepositoryWithTx creates a new snapshot repository with a transaction
func newSnapshotRepositoryWithTx(tx queryable) *SnapshotRepository {
	return &SnapshotRepository{q: tx}
}

// Load returns the recorded total stake per club from the last distribution
func (r *SnapshotRepository) Load(ctx context.Context) (map[string]int64, error) {
	query := `
		SELECT club_name, total_stake
		FROM stake_snapshots
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load stake snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make(map[string]int64)
	for rows.Next() {
		var clubName string
		var totalStake int64
		if err := rows.Scan(&clubName, &totalStake); err != nil {
			return nil, fmt.Errorf("failed to scan stake snapshot: %w", err)
		}
		snapshots[clubName] = totalStake
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stake snapshots: %w", err)
	}

	return snapshots, nil
}

// Save upserts the snapshot of a club's total stake
func (r *SnapshotRepository) Save(ctx context.Context, clubName string, totalStake int64) error {
	query := `
		INSERT INTO stake_snapshots (club_name, total_stake)
		VALUES ($1, $2)
		ON CONFLICT (club_name) DO UPDATE SET
			total_stake = EXCLUDED.total_stake
	`

	_, err := r.q.Exec(ctx, query, clubName, totalStake)
	if err != nil {
		return fmt.Errorf("failed to save stake snapshot for club %s: %w", clubName, err)
	}

	return nil
}
