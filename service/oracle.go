package service

import "context"

// FixedRateOracle converts fee amounts into staking token units at a
// constant numerator/denominator rate. Used when no external price feed
// is wired in.
type FixedRateOracle struct {
	Numerator   int64
	Denominator int64
}

// NewFixedRateOracle creates an oracle with the given conversion rate.
// A 1/1 rate treats fee units and staking token units as equivalent.
func NewFixedRateOracle(numerator, denominator int64) *FixedRateOracle {
	if denominator <= 0 {
		denominator = 1
	}
	return &FixedRateOracle{Numerator: numerator, Denominator: denominator}
}

func (o *FixedRateOracle) TokensForFee(ctx context.Context, feeAmount int64) (int64, error) {
	return feeAmount * o.Numerator / o.Denominator, nil
}
