package service

import (
	"context"
	"fmt"

	"clubstake/config"
	"clubstake/events"
	"clubstake/models"
)

// FeeKind selects which fee components apply to an operation.
type FeeKind int

const (
	// FeeKindGeneral covers platform and transaction fees.
	FeeKindGeneral FeeKind = iota

	// FeeKindStake additionally carries the control fee, charged only when
	// staking. Withdrawals pay the general composition.
	FeeKindStake
)

// Payments are accepted down to 99.90% of the quote to absorb rounding on
// the caller's side.
const feeToleranceBps = 9990

// feeGate quotes fees through the price oracle and enforces the payment
// tolerance. Embedded by the services whose operations charge fees.
type feeGate struct {
	oracle PriceOracle
}

func feeBps(cfg *config.Config, kind FeeKind) int64 {
	bps := cfg.PlatformFeesBps + cfg.TransactionFeesBps
	if kind == FeeKindStake {
		bps += cfg.ControlFeesBps
	}
	return bps
}

// quote returns the fee owed on amount, in staking token units.
func (g *feeGate) quote(ctx context.Context, cfg *config.Config, amount int64, kind FeeKind) (int64, error) {
	fee := amount * feeBps(cfg, kind) / 10000
	required, err := g.oracle.TokensForFee(ctx, fee)
	if err != nil {
		return 0, fmt.Errorf("failed to quote fees: %w", err)
	}
	return required, nil
}

// check verifies that fundsSent covers the quoted fee within tolerance and
// returns the quote.
func (g *feeGate) check(ctx context.Context, cfg *config.Config, amount int64, kind FeeKind, fundsSent int64) (int64, error) {
	required, err := g.quote(ctx, cfg, amount, kind)
	if err != nil {
		return 0, err
	}
	if fundsSent < required*feeToleranceBps/10000 {
		return 0, &models.InsufficientFeesError{Required: required, Received: fundsSent}
	}
	return required, nil
}

// routeFees forwards the attached fee payment to the platform fees wallet.
// The club fees wallet only ever receives club purchase prices, not fees.
func routeFees(publisher EventPublisher, cfg *config.Config, payerAddress string, fundsSent int64) {
	if fundsSent <= 0 {
		return
	}

	publisher.Publish(events.FeeRoutedEvent{
		PayerAddress:  payerAddress,
		WalletAddress: cfg.PlatformFeesWallet,
		Amount:        fundsSent,
	})
}
