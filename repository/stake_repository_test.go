package repository

import (
	"context"
	"testing"
	"time"

	"clubstake/models"
	"clubstake/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStakeRepository_ReplaceAndList(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewStakeRepository(testDB.DB)
	ctx := context.Background()

	t.Run("empty club has no entries", func(t *testing.T) {
		entries, err := repo.ListByClub(ctx, "CLUB001")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("round trip preserves order", func(t *testing.T) {
		start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
		original := []*models.StakeEntry{
			{ClubName: "CLUB001", StakerAddress: "staker2", StakingStartTime: start, StakedAmount: 200, RewardAmount: 5, AutoStake: true},
			{ClubName: "CLUB001", StakerAddress: "staker1", StakingStartTime: start.Add(time.Hour), StakedAmount: 100},
		}
		require.NoError(t, repo.ReplaceClub(ctx, "CLUB001", original))

		entries, err := repo.ListByClub(ctx, "CLUB001")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "staker2", entries[0].StakerAddress)
		assert.Equal(t, int64(200), entries[0].StakedAmount)
		assert.Equal(t, int64(5), entries[0].RewardAmount)
		assert.True(t, entries[0].AutoStake)
		assert.True(t, start.Equal(entries[0].StakingStartTime))
		assert.Equal(t, "staker1", entries[1].StakerAddress)
	})

	t.Run("replace overwrites the whole list", func(t *testing.T) {
		replacement := []*models.StakeEntry{
			{ClubName: "CLUB001", StakerAddress: "staker3", StakingStartTime: time.Now(), StakedAmount: 300},
		}
		require.NoError(t, repo.ReplaceClub(ctx, "CLUB001", replacement))

		entries, err := repo.ListByClub(ctx, "CLUB001")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "staker3", entries[0].StakerAddress)
	})

	t.Run("replace with empty list clears the club", func(t *testing.T) {
		require.NoError(t, repo.ReplaceClub(ctx, "CLUB001", nil))

		entries, err := repo.ListByClub(ctx, "CLUB001")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestStakeRepository_ListClubsAndStakers(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewStakeRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceClub(ctx, "CLUB002", []*models.StakeEntry{
		testutil.CreateTestStake("CLUB002", "staker1", 100),
		testutil.CreateTestStake("CLUB002", "staker2", 200),
	}))
	require.NoError(t, repo.ReplaceClub(ctx, "CLUB001", []*models.StakeEntry{
		testutil.CreateTestStake("CLUB001", "staker1", 300),
	}))

	t.Run("clubs come back ascending", func(t *testing.T) {
		clubs, err := repo.ListClubs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"CLUB001", "CLUB002"}, clubs)
	})

	t.Run("list all groups by club", func(t *testing.T) {
		entries, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "CLUB001", entries[0].ClubName)
		assert.Equal(t, "CLUB002", entries[1].ClubName)
	})

	t.Run("list by staker spans clubs", func(t *testing.T) {
		entries, err := repo.ListByStaker(ctx, "staker1")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, int64(300), entries[0].StakedAmount)
		assert.Equal(t, int64(100), entries[1].StakedAmount)
	})
}

func TestBondRepository_ReplaceAndList(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBondRepository(testDB.DB)
	ctx := context.Background()

	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("round trip preserves duration and order", func(t *testing.T) {
		bonds := []*models.BondEntry{
			{ClubName: "CLUB001", BonderAddress: "staker1", BondingStartTime: start, BondedAmount: 500, BondingDuration: 7 * 24 * time.Hour},
			{ClubName: "CLUB001", BonderAddress: "staker2", BondingStartTime: start.Add(time.Hour), BondedAmount: 700, BondingDuration: 48 * time.Hour},
		}
		require.NoError(t, repo.ReplaceClub(ctx, "CLUB001", bonds))

		loaded, err := repo.ListByClub(ctx, "CLUB001")
		require.NoError(t, err)
		require.Len(t, loaded, 2)
		assert.Equal(t, "staker1", loaded[0].BonderAddress)
		assert.Equal(t, int64(500), loaded[0].BondedAmount)
		assert.Equal(t, 7*24*time.Hour, loaded[0].BondingDuration)
		assert.True(t, start.Equal(loaded[0].BondingStartTime))
		assert.Equal(t, 48*time.Hour, loaded[1].BondingDuration)
	})

	t.Run("list by bonder", func(t *testing.T) {
		require.NoError(t, repo.ReplaceClub(ctx, "CLUB002", []*models.BondEntry{
			{ClubName: "CLUB002", BonderAddress: "staker1", BondingStartTime: start, BondedAmount: 900, BondingDuration: time.Hour},
		}))

		bonds, err := repo.ListByBonder(ctx, "staker1")
		require.NoError(t, err)
		require.Len(t, bonds, 2)
		assert.Equal(t, "CLUB001", bonds[0].ClubName)
		assert.Equal(t, "CLUB002", bonds[1].ClubName)
	})

	t.Run("clubs come back ascending", func(t *testing.T) {
		clubs, err := repo.ListClubs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"CLUB001", "CLUB002"}, clubs)
	})
}
