package testutil

import (
	"time"

	"clubstake/models"
)

// CreateTestStake creates a stake entry with default values
func CreateTestStake(clubName, stakerAddress string, amount int64) *models.StakeEntry {
	return &models.StakeEntry{
		ClubName:         clubName,
		StakerAddress:    stakerAddress,
		StakingStartTime: time.Now(),
		StakedAmount:     amount,
		RewardAmount:     0,
		AutoStake:        false,
	}
}

// CreateTestStakeWithReward creates a stake entry with a pending reward
func CreateTestStakeWithReward(clubName, stakerAddress string, amount, reward int64) *models.StakeEntry {
	stake := CreateTestStake(clubName, stakerAddress, amount)
	stake.RewardAmount = reward
	return stake
}

// CreateTestBond creates a bond entry starting now
func CreateTestBond(clubName, bonderAddress string, amount int64, duration time.Duration) *models.BondEntry {
	return &models.BondEntry{
		ClubName:         clubName,
		BonderAddress:    bonderAddress,
		BondingStartTime: time.Now(),
		BondedAmount:     amount,
		BondingDuration:  duration,
	}
}

// CreateTestBondStartedAt creates a bond entry with a specific start time
func CreateTestBondStartedAt(clubName, bonderAddress string, amount int64, duration time.Duration, start time.Time) *models.BondEntry {
	bond := CreateTestBond(clubName, bonderAddress, amount, duration)
	bond.BondingStartTime = start
	return bond
}

// CreateTestOwnership creates an unreleased ownership record
func CreateTestOwnership(clubName, ownerAddress string, price int64) *models.ClubOwnership {
	return &models.ClubOwnership{
		ClubName:       clubName,
		OwnerAddress:   ownerAddress,
		PricePaid:      price,
		RewardAmount:   0,
		StartTimestamp: time.Now(),
		LockingPeriod:  21 * 24 * time.Hour,
		OwnerReleased:  false,
	}
}

// CreateTestReleasedOwnership creates an ownership record inside its repurchase window
func CreateTestReleasedOwnership(clubName, ownerAddress string, price int64) *models.ClubOwnership {
	ownership := CreateTestOwnership(clubName, ownerAddress, price)
	ownership.OwnerReleased = true
	ownership.StartTimestamp = time.Now()
	return ownership
}
