package models

import (
	"time"
)

// BondEntry represents an amount in the withdrawal cooldown queue. It was
// removed from a club's stake but stays locked until the bonding duration
// elapses.
type BondEntry struct {
	ClubName         string        `db:"club_name"`
	BonderAddress    string        `db:"bonder_address"`
	BondingStartTime time.Time     `db:"bonding_start_time"`
	BondedAmount     int64         `db:"bonded_amount"`
	BondingDuration  time.Duration `db:"bonding_duration"`
}

// MaturedBefore reports whether the bond has strictly passed its full
// bonding duration as of now.
func (b *BondEntry) MaturedBefore(now time.Time) bool {
	return b.BondingStartTime.Before(now.Add(-b.BondingDuration))
}
