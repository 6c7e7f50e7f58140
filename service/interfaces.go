package service

import (
	"context"
	"time"

	"clubstake/events"
	"clubstake/models"
)

// StakeRepository defines the interface for stake entry data access.
// Each club holds an ordered list of entries; ReplaceClub persists the whole
// list so insertion order survives round trips.
type StakeRepository interface {
	// ListByClub returns the club's stake entries in insertion order
	ListByClub(ctx context.Context, clubName string) ([]*models.StakeEntry, error)

	// ReplaceClub atomically replaces the club's stake list
	ReplaceClub(ctx context.Context, clubName string, entries []*models.StakeEntry) error

	// ListClubs returns the names of all clubs with a stake list, ascending
	ListClubs(ctx context.Context) ([]string, error)

	// ListAll returns every stake entry, grouped by club in ascending club order
	ListAll(ctx context.Context) ([]*models.StakeEntry, error)

	// ListByStaker returns all of a staker's entries across clubs
	ListByStaker(ctx context.Context, stakerAddress string) ([]*models.StakeEntry, error)
}

// BondRepository defines the interface for withdrawal cooldown bonds.
type BondRepository interface {
	// ListByClub returns the club's bonds in insertion order
	ListByClub(ctx context.Context, clubName string) ([]*models.BondEntry, error)

	// ReplaceClub atomically replaces the club's bond list
	ReplaceClub(ctx context.Context, clubName string, bonds []*models.BondEntry) error

	// ListClubs returns the names of all clubs with a bond list, ascending
	ListClubs(ctx context.Context) ([]string, error)

	// ListAll returns every bond, grouped by club in ascending club order
	ListAll(ctx context.Context) ([]*models.BondEntry, error)

	// ListByBonder returns all of a bonder's bonds across clubs
	ListByBonder(ctx context.Context, bonderAddress string) ([]*models.BondEntry, error)
}

// OwnershipRepository defines the interface for club ownership records.
type OwnershipRepository interface {
	// Get retrieves the ownership record for a club, nil when absent
	Get(ctx context.Context, clubName string) (*models.ClubOwnership, error)

	// Save upserts an ownership record
	Save(ctx context.Context, ownership *models.ClubOwnership) error

	// List returns all ownership records in ascending club order
	List(ctx context.Context) ([]*models.ClubOwnership, error)

	// ListByOwner returns all records currently held by an owner
	ListByOwner(ctx context.Context, ownerAddress string) ([]*models.ClubOwnership, error)
}

// PreviousOwnerRewardRepository tracks rewards still owed to sellers.
type PreviousOwnerRewardRepository interface {
	// Get retrieves the outstanding reward for an address, nil when absent
	Get(ctx context.Context, ownerAddress string) (*models.PreviousOwnerReward, error)

	// Save upserts a previous-owner reward record
	Save(ctx context.Context, reward *models.PreviousOwnerReward) error

	// Delete removes the record for an address
	Delete(ctx context.Context, ownerAddress string) error

	// List returns all outstanding previous-owner rewards
	List(ctx context.Context) ([]*models.PreviousOwnerReward, error)
}

// SnapshotRepository stores the per-club stake totals recorded at the last
// distribution, used to compute growth deltas.
type SnapshotRepository interface {
	// Load returns the recorded total for every club
	Load(ctx context.Context) (map[string]int64, error)

	// Save upserts the recorded total for one club
	Save(ctx context.Context, clubName string, totalStake int64) error
}

// RewardStateRepository stores the singleton distribution bookkeeping row.
type RewardStateRepository interface {
	// Get returns the current reward state
	Get(ctx context.Context) (*models.RewardState, error)

	// SetPool updates the undistributed pool balance
	SetPool(ctx context.Context, pool int64) error

	// SetNextDistributionTime updates the next allowed distribution time
	SetNextDistributionTime(ctx context.Context, next time.Time) error
}

// PriceOracle converts a fee quoted in the platform's fee currency into
// staking token units. Implementations call out to an exchange or price feed.
type PriceOracle interface {
	TokensForFee(ctx context.Context, feeAmount int64) (int64, error)
}

// StakingService defines stake, withdrawal and staker reward operations.
type StakingService interface {
	// StakeOnClub adds amount to the caller's position on a club.
	// fundsSent is the fee payment attached to the call.
	StakeOnClub(ctx context.Context, stakerAddress, clubName string, amount int64, autoStake bool, fundsSent int64) error

	// WithdrawStake removes amount from the caller's position. Immediate
	// withdrawals are paid out at once from matured bonds; otherwise the
	// amount enters the cooldown queue.
	WithdrawStake(ctx context.Context, stakerAddress, clubName string, amount int64, immediate bool, fundsSent int64) error

	// SweepMaturedBonds refunds every matured bond across all clubs. Admin only.
	SweepMaturedBonds(ctx context.Context, callerAddress string) error

	// ClaimStakerReward pays out the caller's accrued reward on a club and
	// returns the amount claimed.
	ClaimStakerReward(ctx context.Context, stakerAddress, clubName string, fundsSent int64) (int64, error)

	// AssignStakesToClub seeds a club's stake list wholesale. Admin only.
	AssignStakesToClub(ctx context.Context, callerAddress, clubName string, stakes []*models.StakeEntry) error
}

// OwnershipService defines the club purchase/release lifecycle.
type OwnershipService interface {
	// BuyClub purchases a club from the declared seller at the configured price
	BuyClub(ctx context.Context, buyerAddress, sellerAddress, clubName string, price int64, autoStake bool, fundsSent int64) error

	// AssignClubOwner grants a club to an owner without payment. Admin only.
	AssignClubOwner(ctx context.Context, callerAddress, ownerAddress, clubName string, autoStake bool) error

	// ReleaseClub marks the caller's club as up for sale and restarts the
	// repurchase window
	ReleaseClub(ctx context.Context, ownerAddress, clubName string) error

	// ClaimOwnerReward pays out the owner's accrued reward on a club
	ClaimOwnerReward(ctx context.Context, ownerAddress, clubName string) (int64, error)

	// ClaimPreviousOwnerReward pays out rewards owed from before a sale
	ClaimPreviousOwnerReward(ctx context.Context, ownerAddress string) (int64, error)
}

// DistributionService defines reward pool funding and the periodic payout.
type DistributionService interface {
	// FundRewardPool credits the reward pool. Only the funding authority may call.
	FundRewardPool(ctx context.Context, callerAddress string, amount int64) error

	// DistributeRewards ranks clubs and splits the pool across stakers and
	// owners. Admin only; gated on the configured periodicity.
	DistributeRewards(ctx context.Context, callerAddress string) error
}

// QueryService exposes read-only views of the staking state.
type QueryService interface {
	ClubStakes(ctx context.Context, clubName string) ([]*models.StakeEntry, error)
	ClubBonds(ctx context.Context, clubName string) ([]*models.BondEntry, error)
	ClubBondsForUser(ctx context.Context, clubName, bonderAddress string) ([]*models.BondEntry, error)
	BondsForUser(ctx context.Context, bonderAddress string) ([]*models.BondEntry, error)
	AllStakes(ctx context.Context) ([]*models.StakeEntry, error)
	StakesForUser(ctx context.Context, stakerAddress string) ([]*models.StakeEntry, error)
	AllBonds(ctx context.Context) ([]*models.BondEntry, error)
	Ownership(ctx context.Context, clubName string) (*models.ClubOwnership, error)
	OwnershipsForOwner(ctx context.Context, ownerAddress string) ([]*models.ClubOwnership, error)
	AllOwnerships(ctx context.Context) ([]*models.ClubOwnership, error)
	AllPreviousOwnerRewards(ctx context.Context) ([]*models.PreviousOwnerReward, error)

	// Ranking computes the current club ranking without touching the
	// distribution snapshot.
	Ranking(ctx context.Context) (*models.ClubRanking, error)

	RewardPool(ctx context.Context) (int64, error)
	StakerReward(ctx context.Context, stakerAddress, clubName string) (int64, error)
	PreviousOwnerReward(ctx context.Context, ownerAddress string) (int64, error)

	// FeeQuote returns the fee owed for an operation on amount, in staking
	// token units.
	FeeQuote(ctx context.Context, amount int64, kind FeeKind) (int64, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	StakeRepository() StakeRepository
	BondRepository() BondRepository
	OwnershipRepository() OwnershipRepository
	PreviousOwnerRewardRepository() PreviousOwnerRewardRepository
	SnapshotRepository() SnapshotRepository
	RewardStateRepository() RewardStateRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
