package models

import (
	"time"
)

// ClubRanking is the outcome of ranking all clubs by stake growth.
// Clubs is ordered leaders first; the first WinnerCount entries are the
// tied leaders for the current period.
type ClubRanking struct {
	Clubs       []RankedClub
	WinnerCount int
}

// RankedClub is one club's position in a ranking pass.
type RankedClub struct {
	ClubName   string
	TotalStake int64
	StakeDelta int64
}

// RewardState is the singleton distribution bookkeeping: the undistributed
// pool and the earliest time the next distribution may run.
type RewardState struct {
	RewardPool           int64     `db:"reward_pool"`
	NextDistributionTime time.Time `db:"next_distribution_time"`
}
