package models

import (
	"time"
)

// MaxTokenSupply is the total supply of the staking token in its smallest
// denomination. No single stake, delta or reward can ever exceed it, which
// makes its negation a safe lower bound when scanning for the best delta.
const MaxTokenSupply int64 = 420_000_000_000_000

// StakeEntry represents one staker's position on a club. A staker can hold
// at most one entry per club; repeated stakes merge into it. Entries keep
// their insertion order within a club.
type StakeEntry struct {
	ClubName         string    `db:"club_name"`
	StakerAddress    string    `db:"staker_address"`
	StakingStartTime time.Time `db:"staking_start_time"`
	StakedAmount     int64     `db:"staked_amount"`
	RewardAmount     int64     `db:"reward_amount"`
	AutoStake        bool      `db:"auto_stake"`
}
