package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the staking state machine. Services return these
// (possibly wrapped) so callers can branch with errors.Is.
var (
	// ErrUnauthorized is returned when the caller is not allowed to perform
	// the operation (not the admin, not the staker, not the owner).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrClubNotFound is returned when the named club has no ownership record.
	ErrClubNotFound = errors.New("club not found")

	// ErrNotAStaker is returned when the caller has no stake entry on the club.
	ErrNotAStaker = errors.New("no stake found for staker on club")

	// ErrNoRewardOwed is returned when a claim finds a zero reward balance.
	ErrNoRewardOwed = errors.New("no reward owed")

	// ErrNoPreviousOwnership is returned when a previous-owner claim finds no
	// record for the caller.
	ErrNoPreviousOwnership = errors.New("no previous ownership record")

	// ErrNoStakesFound is returned by distribution when no club has any stake.
	ErrNoStakesFound = errors.New("no stakes found")

	// ErrNotYetDue is returned when distribution runs before its scheduled time.
	ErrNotYetDue = errors.New("reward distribution not yet due")

	// ErrExcessWithdrawal is returned when a withdrawal exceeds the staked amount.
	ErrExcessWithdrawal = errors.New("withdrawal exceeds staked amount")

	// ErrInsufficientMaturedBonds is returned when an immediate withdrawal
	// cannot be covered by matured bonds.
	ErrInsufficientMaturedBonds = errors.New("matured bonds do not cover withdrawal")

	// ErrPriceMismatch is returned when a purchase offers anything other than
	// the configured club price.
	ErrPriceMismatch = errors.New("offered price does not match club price")

	// ErrAlreadyOwnsClub is returned when a buyer already holds a club.
	ErrAlreadyOwnsClub = errors.New("buyer already owns a club")

	// ErrClubNotReleased is returned when buying a club its owner has not
	// released.
	ErrClubNotReleased = errors.New("club has not been released by its owner")

	// ErrRepurchaseWindowExpired is returned when buying a released club after
	// its repurchase window has elapsed.
	ErrRepurchaseWindowExpired = errors.New("repurchase window has expired")

	// ErrSellerMismatch is returned when the declared seller does not hold the
	// club being bought.
	ErrSellerMismatch = errors.New("declared seller does not own club")
)

// InsufficientFeesError is returned when the funds attached to an operation
// do not cover the quoted fee, within the accepted tolerance.
type InsufficientFeesError struct {
	Required int64
	Received int64
}

func (e *InsufficientFeesError) Error() string {
	return fmt.Sprintf("insufficient fees: required %d, received %d", e.Required, e.Received)
}
