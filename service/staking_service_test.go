package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"clubstake/config"
	"clubstake/events"
	"clubstake/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.SetTestConfig(config.NewTestConfig())
	os.Exit(m.Run())
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestStakingService(store *memStore) *stakingService {
	svc := NewStakingService(newMemUowFactory(store), NewFixedRateOracle(1, 1)).(*stakingService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func ownedClub(store *memStore, clubName, ownerAddress string) {
	store.ownerships[clubName] = &models.ClubOwnership{
		ClubName:       clubName,
		OwnerAddress:   ownerAddress,
		PricePaid:      1_000_000,
		StartTimestamp: testNow.Add(-30 * 24 * time.Hour),
		LockingPeriod:  21 * 24 * time.Hour,
	}
}

func TestStakingService_StakeOnClub_CreatesEntry(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	ownedClub(store, "CLUB001", "owner1")
	svc := newTestStakingService(store)

	// 155 bps of 100000
	err := svc.StakeOnClub(ctx, "staker1", "CLUB001", 100000, false, 1550)
	require.NoError(t, err)

	require.Len(t, store.stakes["CLUB001"], 1)
	entry := store.stakes["CLUB001"][0]
	assert.Equal(t, "staker1", entry.StakerAddress)
	assert.Equal(t, int64(100000), entry.StakedAmount)
	assert.Equal(t, int64(0), entry.RewardAmount)
	assert.Equal(t, testNow, entry.StakingStartTime)
	assert.False(t, entry.AutoStake)

	require.Len(t, store.published, 2)
	transfer := store.published[0].(events.TokenTransferEvent)
	assert.Equal(t, "staker1", transfer.FromAddress)
	assert.Equal(t, "club-staking", transfer.ToAddress)
	assert.Equal(t, int64(100000), transfer.Amount)
	fee := store.published[1].(events.FeeRoutedEvent)
	assert.Equal(t, "platform-fees", fee.WalletAddress)
	assert.Equal(t, int64(1550), fee.Amount)
}

func TestStakingService_StakeOnClub_MergesAndFoldsReward(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	ownedClub(store, "CLUB001", "owner1")
	store.stakes["CLUB001"] = []*models.StakeEntry{
		{ClubName: "CLUB001", StakerAddress: "staker1", StakedAmount: 50000, RewardAmount: 7000},
	}
	svc := newTestStakingService(store)

	err := svc.StakeOnClub(ctx, "staker1", "CLUB001", 100000, true, 1550)
	require.NoError(t, err)

	require.Len(t, store.stakes["CLUB001"], 1)
	entry := store.stakes["CLUB001"][0]
	assert.Equal(t, int64(157000), entry.StakedAmount)
	assert.Equal(t, int64(0), entry.RewardAmount)
	assert.True(t, entry.AutoStake)
}

func TestStakingService_StakeOnClub_UnknownClub(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestStakingService(store)

	err := svc.StakeOnClub(ctx, "staker1", "CLUB001", 100000, false, 1550)
	assert.ErrorIs(t, err, models.ErrClubNotFound)
}

func TestStakingService_StakeOnClub_InsufficientFees(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	ownedClub(store, "CLUB001", "owner1")
	svc := newTestStakingService(store)

	err := svc.StakeOnClub(ctx, "staker1", "CLUB001", 100000, false, 1000)
	require.Error(t, err)

	var feeErr *models.InsufficientFeesError
	require.True(t, errors.As(err, &feeErr))
	assert.Equal(t, int64(1550), feeErr.Required)
	assert.Equal(t, int64(1000), feeErr.Received)
	assert.Empty(t, store.stakes["CLUB001"])
}

func TestStakingService_WithdrawStake_QueuesBond(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	ownedClub(store, "CLUB001", "owner1")
	store.stakes["CLUB001"] = []*models.StakeEntry{
		{ClubName: "CLUB001", StakerAddress: "staker1", StakedAmount: 100000},
	}
	svc := newTestStakingService(store)

	err := svc.WithdrawStake(ctx, "staker1", "CLUB001", 40000, false, 620)
	require.NoError(t, err)

	assert.Equal(t, int64(60000), store.stakes["CLUB001"][0].StakedAmount)

	require.Len(t, store.bonds["CLUB001"], 1)
	bond := store.bonds["CLUB001"][0]
	assert.Equal(t, "staker1", bond.BonderAddress)
	assert.Equal(t, int64(40000), bond.BondedAmount)
	assert.Equal(t, testNow, bond.BondingStartTime)
	assert.Equal(t, 7*24*time.Hour, bond.BondingDuration)

	// No payout on a queued withdrawal, just the fee routing.
	require.Len(t, store.published, 1)
	_, ok := store.published[0].(events.FeeRoutedEvent)
	assert.True(t, ok)
}

func TestStakingService_WithdrawStake_FeeExcludesControlFee(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	ownedClub(store, "CLUB001", "owner1")
	store.stakes["CLUB001"] = []*models.StakeEntry{
		{ClubName: "CLUB001", StakerAddress: "staker1", StakedAmount: 100000},
	}
	svc := newTestStakingService(store)

	// Withdrawals pay platform + transaction only: 130 bps of 40000.
	err := svc.WithdrawStake(ctx, "staker1", "CLUB001", 40000, false, 520)
	require.NoError(t, err)

	err = svc.WithdrawStake(ctx, "staker1", "CLUB001", 40000, false, 500)
	var feeErr *models.InsufficientFeesError
	require.True(t, errors.As(err, &feeErr))
	assert.Equal(t, int64(520), feeErr.Required)
}

func TestStakingService_WithdrawStake_NotAStaker(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	ownedClub(store, "CLUB001", "owner1")
	store.stakes["CLUB001"] = []*models.StakeEntry{
		{ClubName: "CLUB001", StakerAddress: "staker1", StakedAmount: 100000},
	}
	svc := newTestStakingService(store)

	err := svc.WithdrawStake(ctx, "staker2", "CLUB001", 40000, false, 620)
	assert.ErrorIs(t, err, models.ErrNotAStaker)
}

func TestStakingService_WithdrawStake_ExceedsStake(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	ownedClub(store, "CLUB001", "owner1")
	store.stakes["CLUB001"] = []*models.StakeEntry{
		{ClubName: "CLUB001", StakerAddress: "staker1", StakedAmount: 30000},
	}
	svc := newTestStakingService(store)

	err := svc.WithdrawStake(ctx, "staker1", "CLUB001", 40000, false, 620)
	assert.ErrorIs(t, err, models.ErrExcessWithdrawal)
	assert.Equal(t, int64(30000), store.stakes["CLUB001"][0].StakedAmount)
}

func TestStakingService_WithdrawStake_ImmediateFromMaturedBonds(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	ownedClub(store, "CLUB001", "owner1")
	store.stakes["CLUB001"] = []*models.StakeEntry{
		{ClubName: "CLUB001", StakerAddress: "staker1", StakedAmount: 100000},
	}
	store.bonds["CLUB001"] = []*models.BondEntry{
		{
			ClubName:         "CLUB001",
			BonderAddress:    "staker1",
			BondingStartTime: testNow.Add(-8 * 24 * time.Hour),
			BondedAmount:     50000,
			BondingDuration:  7 * 24 * time.Hour,
		},
	}
	svc := newTestStakingService(store)

	err := svc.WithdrawStake(ctx, "staker1", "CLUB001", 50000, true, 775)
	require.NoError(t, err)

	// Fully covered by the matured bond, so the stake itself is untouched.
	assert.Equal(t, int64(100000), store.stakes["CLUB001"][0].StakedAmount)
	assert.Empty(t, store.bonds["CLUB001"])

	require.Len(t, store.published, 2)
	transfer := store.published[0].(events.TokenTransferEvent)
	assert.Equal(t, "club-staking", transfer.FromAddress)
	assert.Equal(t, "staker1", transfer.ToAddress)
	assert.Equal(t, int64(50000), transfer.Amount)
}

func TestStakingService_WithdrawStake_ImmediateLeavesBondResidual(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	ownedClub(store, "CLUB001", "owner1")
	store.stakes["CLUB001"] = []*models.StakeEntry{
		{ClubName: "CLUB001", StakerAddress: "staker1", StakedAmount: 100000},
	}
	store.bonds["CLUB001"] = []*models.BondEntry{
		{
			ClubName:         "CLUB001",
			BonderAddress:    "staker1",
			BondingStartTime: testNow.Add(-8 * 24 * time.Hour),
			BondedAmount:     80000,
			BondingDuration:  7 * 24 * time.Hour,
		},
	}
	svc := newTestStakingService(store)

	err := svc.WithdrawStake(ctx, "staker1", "CLUB001", 50000, true, 775)
	require.NoError(t, err)

	require.Len(t, store.bonds["CLUB001"], 1)
	assert.Equal(t, int64(30000), store.bonds["CLUB001"][0].BondedAmount)
}

func TestStakingService_WithdrawStake_ImmediateInsufficientMatured(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	ownedClub(store, "CLUB001", "owner1")
	store.stakes["CLUB001"] = []*models.StakeEntry{
		{ClubName: "CLUB001", StakerAddress: "staker1", StakedAmount: 100000},
	}
	store.bonds["CLUB001"] = []*models.BondEntry{
		{
			ClubName:         "CLUB001",
			BonderAddress:    "staker1",
			BondingStartTime: testNow.Add(-8 * 24 * time.Hour),
			BondedAmount:     30000,
			BondingDuration:  7 * 24 * time.Hour,
		},
		{
			// Still bonding, must not be consumed.
			ClubName:         "CLUB001",
			BonderAddress:    "staker1",
			BondingStartTime: testNow.Add(-24 * time.Hour),
			BondedAmount:     90000,
			BondingDuration:  7 * 24 * time.Hour,
		},
	}
	svc := newTestStakingService(store)

	err := svc.WithdrawStake(ctx, "staker1", "CLUB001", 50000, true, 775)
	assert.ErrorIs(t, err, models.ErrInsufficientMaturedBonds)

	// Rolled back: stake and bonds are exactly as before.
	assert.Equal(t, int64(100000), store.stakes["CLUB001"][0].StakedAmount)
	require.Len(t, store.bonds["CLUB001"], 2)
	assert.Equal(t, int64(30000), store.bonds["CLUB001"][0].BondedAmount)
	assert.Empty(t, store.published)
}

func TestStakingService_SweepMaturedBonds(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.bonds["CLUB001"] = []*models.BondEntry{
		{
			ClubName:         "CLUB001",
			BonderAddress:    "staker1",
			BondingStartTime: testNow.Add(-8 * 24 * time.Hour),
			BondedAmount:     40000,
			BondingDuration:  7 * 24 * time.Hour,
		},
		{
			// Exactly at the maturity boundary, stays one more sweep.
			ClubName:         "CLUB001",
			BonderAddress:    "staker2",
			BondingStartTime: testNow.Add(-7 * 24 * time.Hour),
			BondedAmount:     25000,
			BondingDuration:  7 * 24 * time.Hour,
		},
	}
	svc := newTestStakingService(store)

	err := svc.SweepMaturedBonds(ctx, "admin")
	require.NoError(t, err)

	require.Len(t, store.bonds["CLUB001"], 1)
	assert.Equal(t, "staker2", store.bonds["CLUB001"][0].BonderAddress)

	require.Len(t, store.published, 1)
	refund := store.published[0].(events.TokenTransferEvent)
	assert.Equal(t, "staker1", refund.ToAddress)
	assert.Equal(t, int64(40000), refund.Amount)

	// Second run finds nothing matured.
	err = svc.SweepMaturedBonds(ctx, "admin")
	require.NoError(t, err)
	assert.Len(t, store.published, 1)
}

func TestStakingService_SweepMaturedBonds_AdminOnly(t *testing.T) {
	ctx := context.Background()
	svc := newTestStakingService(newMemStore())

	err := svc.SweepMaturedBonds(ctx, "staker1")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestStakingService_ClaimStakerReward(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.stakes["CLUB001"] = []*models.StakeEntry{
		{ClubName: "CLUB001", StakerAddress: "staker1", StakedAmount: 100000, RewardAmount: 5000},
	}
	svc := newTestStakingService(store)

	// 130 bps of the claimed 5000
	claimed, err := svc.ClaimStakerReward(ctx, "staker1", "CLUB001", 65)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), claimed)
	assert.Equal(t, int64(0), store.stakes["CLUB001"][0].RewardAmount)

	require.Len(t, store.published, 2)
	transfer := store.published[0].(events.TokenTransferEvent)
	assert.Equal(t, "club-staking", transfer.FromAddress)
	assert.Equal(t, "staker1", transfer.ToAddress)
	assert.Equal(t, int64(5000), transfer.Amount)
}

func TestStakingService_ClaimStakerReward_NotAStaker(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestStakingService(store)

	_, err := svc.ClaimStakerReward(ctx, "staker1", "CLUB001", 0)
	assert.ErrorIs(t, err, models.ErrNotAStaker)
}

func TestStakingService_ClaimStakerReward_NothingOwed(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.stakes["CLUB001"] = []*models.StakeEntry{
		{ClubName: "CLUB001", StakerAddress: "staker1", StakedAmount: 100000},
	}
	svc := newTestStakingService(store)

	_, err := svc.ClaimStakerReward(ctx, "staker1", "CLUB001", 0)
	assert.ErrorIs(t, err, models.ErrNoRewardOwed)
}

func TestStakingService_AssignStakesToClub(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	ownedClub(store, "CLUB001", "owner1")
	store.stakes["CLUB001"] = []*models.StakeEntry{
		{ClubName: "CLUB001", StakerAddress: "staker1", StakedAmount: 10000},
	}
	svc := newTestStakingService(store)

	err := svc.AssignStakesToClub(ctx, "admin", "CLUB001", []*models.StakeEntry{
		{ClubName: "CLUB001", StakerAddress: "staker1", StakedAmount: 5000},
		{ClubName: "CLUB001", StakerAddress: "staker2", StakedAmount: 20000},
	})
	require.NoError(t, err)

	require.Len(t, store.stakes["CLUB001"], 2)
	assert.Equal(t, int64(15000), store.stakes["CLUB001"][0].StakedAmount)
	assert.Equal(t, int64(20000), store.stakes["CLUB001"][1].StakedAmount)

	require.Len(t, store.published, 1)
	transfer := store.published[0].(events.TokenTransferEvent)
	assert.Equal(t, "admin", transfer.FromAddress)
	assert.Equal(t, int64(25000), transfer.Amount)
}

func TestStakingService_AssignStakesToClub_AdminOnly(t *testing.T) {
	ctx := context.Background()
	svc := newTestStakingService(newMemStore())

	err := svc.AssignStakesToClub(ctx, "staker1", "CLUB001", nil)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestStakingService_AssignStakesToClub_ClubMismatch(t *testing.T) {
	ctx := context.Background()
	svc := newTestStakingService(newMemStore())

	err := svc.AssignStakesToClub(ctx, "admin", "CLUB001", []*models.StakeEntry{
		{ClubName: "CLUB002", StakerAddress: "staker1", StakedAmount: 5000},
	})
	assert.Error(t, err)
}
