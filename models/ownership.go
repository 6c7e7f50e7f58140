package models

import (
	"time"
)

// ClubOwnership records who owns a club and where it sits in the
// release/repurchase lifecycle. OwnerReleased marks the club as up for sale;
// StartTimestamp plus LockingPeriod bounds the repurchase window once
// released, and the holding lock before that.
type ClubOwnership struct {
	ClubName       string        `db:"club_name"`
	OwnerAddress   string        `db:"owner_address"`
	PricePaid      int64         `db:"price_paid"`
	RewardAmount   int64         `db:"reward_amount"`
	StartTimestamp time.Time     `db:"start_timestamp"`
	LockingPeriod  time.Duration `db:"locking_period"`
	OwnerReleased  bool          `db:"owner_released"`
}

// WindowExpired reports whether the locking window has fully elapsed.
func (o *ClubOwnership) WindowExpired(now time.Time) bool {
	return now.After(o.StartTimestamp.Add(o.LockingPeriod))
}

// PreviousOwnerReward holds rewards still owed to an address that sold a
// club. The balance survives the sale and is claimable at any time.
type PreviousOwnerReward struct {
	OwnerAddress string `db:"owner_address"`
	RewardAmount int64  `db:"reward_amount"`
}
