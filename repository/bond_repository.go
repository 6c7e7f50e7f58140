package repository

import (
	"context"
	"fmt"
	"time"

	"clubstake/database"
	"clubstake/models"

	"github.com/jackc/pgx/v5"
)

// BondRepository implements the BondRepository interface
type BondRepository struct {
	q queryable
}

// NewBondRepository creates a new bond repository
func NewBondRepository(db *database.DB) *BondRepository {
	return &BondRepository{q: db.Pool}
}

// newBondRepositoryWithTx creates a new bond repository with a transaction
func newBondRepositoryWithTx(tx queryable) *BondRepository {
	return &BondRepository{q: tx}
}

const bondColumns = `club_name, bonder_address, bonding_start_time, bonded_amount, bonding_duration_seconds`

// ListByClub returns the club's bond entries in stored order
func (r *BondRepository) ListByClub(ctx context.Context, clubName string) ([]*models.BondEntry, error) {
	query := `
		SELECT ` + bondColumns + `
		FROM bond_entries
		WHERE club_name = $1
		ORDER BY position
	`

	rows, err := r.q.Query(ctx, query, clubName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bonds for club %s: %w", clubName, err)
	}
	defer rows.Close()

	return scanBondEntries(rows)
}

// ReplaceClub atomically replaces the club's bond list, preserving order
// through the position column
func (r *BondRepository) ReplaceClub(ctx context.Context, clubName string, bonds []*models.BondEntry) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM bond_entries WHERE club_name = $1`, clubName); err != nil {
		return fmt.Errorf("failed to clear bonds for club %s: %w", clubName, err)
	}

	query := `
		INSERT INTO bond_entries (club_name, bonder_address, position, bonding_start_time, bonded_amount, bonding_duration_seconds)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, bond := range bonds {
		_, err := r.q.Exec(ctx, query,
			clubName,
			bond.BonderAddress,
			i,
			bond.BondingStartTime,
			bond.BondedAmount,
			int64(bond.BondingDuration/time.Second),
		)
		if err != nil {
			return fmt.Errorf("failed to insert bond for club %s: %w", clubName, err)
		}
	}

	return nil
}

// ListClubs returns the names of all clubs with a bond list, ascending
func (r *BondRepository) ListClubs(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT club_name
		FROM bond_entries
		ORDER BY club_name
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs with bonds: %w", err)
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

// ListAll returns every bond entry, grouped by club in ascending club order
func (r *BondRepository) ListAll(ctx context.Context) ([]*models.BondEntry, error) {
	query := `
		SELECT ` + bondColumns + `
		FROM bond_entries
		ORDER BY club_name, position
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all bonds: %w", err)
	}
	defer rows.Close()

	return scanBondEntries(rows)
}

// ListByBonder returns all of a user's bonds across clubs
func (r *BondRepository) ListByBonder(ctx context.Context, bonderAddress string) ([]*models.BondEntry, error) {
	query := `
		SELECT ` + bondColumns + `
		FROM bond_entries
		WHERE bonder_address = $1
		ORDER BY club_name, position
	`

	rows, err := r.q.Query(ctx, query, bonderAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to get bonds for bonder %s: %w", bonderAddress, err)
	}
	defer rows.Close()

	return scanBondEntries(rows)
}

func scanBondEntries(rows pgx.Rows) ([]*models.BondEntry, error) {
	var bonds []*models.BondEntry
	for rows.Next() {
		var bond models.BondEntry
		var durationSeconds int64
		err := rows.Scan(
			&bond.ClubName,
			&bond.BonderAddress,
			&bond.BondingStartTime,
			&bond.BondedAmount,
			&durationSeconds,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bond entry: %w", err)
		}
		bond.BondingDuration = time.Duration(durationSeconds) * time.Second
		bonds = append(bonds, &bond)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bond entries: %w", err)
	}

	return bonds, nil
}
