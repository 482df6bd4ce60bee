// Package pricing computes booking fees from the court category and the
// booked window.
package pricing

import (
	"fmt"
	"time"

	"courtbook/pkg/config"
	"courtbook/pkg/model"
)

type Tier string

const (
	TierBase Tier = "base"
	// TierPeak applies on weekends and to windows starting in the evening.
	TierPeak Tier = "peak"
)

// FeePolicy maps a court category and interval to a fee.
type FeePolicy interface {
	ComputeFee(category model.CourtCategory, interval model.TimeInterval) float64
}

type Rates struct {
	SinglesBase float64
	SinglesPeak float64
	DoublesBase float64
	DoublesPeak float64
}

func DefaultRates() Rates {
	return Rates{
		SinglesBase: config.DefaultRateSinglesBase,
		SinglesPeak: config.DefaultRateSinglesPeak,
		DoublesBase: config.DefaultRateDoublesBase,
		DoublesPeak: config.DefaultRateDoublesPeak,
	}
}

type TieredPolicy struct {
	rates        Rates
	eveningStart model.Clock
}

func NewTieredPolicy(rates Rates, eveningStart model.Clock) *TieredPolicy {
	return &TieredPolicy{rates: rates, eveningStart: eveningStart}
}

func NewDefaultPolicy() *TieredPolicy {
	return NewTieredPolicy(DefaultRates(), model.MustClock(18, 0))
}

func NewPolicyFromConfig(cfg *config.Config) (*TieredPolicy, error) {
	evening, err := model.ParseClock(cfg.EveningStart)
	if err != nil {
		return nil, fmt.Errorf("evening start: %w", err)
	}
	return NewTieredPolicy(Rates{
		SinglesBase: cfg.RateSinglesBase,
		SinglesPeak: cfg.RateSinglesPeak,
		DoublesBase: cfg.RateDoublesBase,
		DoublesPeak: cfg.RateDoublesPeak,
	}, evening), nil
}

func (p *TieredPolicy) TierFor(interval model.TimeInterval) Tier {
	weekday := interval.Weekday()
	weekend := weekday == time.Saturday || weekday == time.Sunday
	evening := interval.Start() >= p.eveningStart
	if weekend || evening {
		return TierPeak
	}
	return TierBase
}

func (p *TieredPolicy) HourlyRate(category model.CourtCategory, tier Tier) float64 {
	switch {
	case category == model.CategoryDoubles && tier == TierPeak:
		return p.rates.DoublesPeak
	case category == model.CategoryDoubles:
		return p.rates.DoublesBase
	case tier == TierPeak:
		return p.rates.SinglesPeak
	default:
		return p.rates.SinglesBase
	}
}

// ComputeFee prorates the hourly rate linearly by the minute.
func (p *TieredPolicy) ComputeFee(category model.CourtCategory, interval model.TimeInterval) float64 {
	rate := p.HourlyRate(category, p.TierFor(interval))
	return rate * float64(interval.DurationMinutes()) / 60.0
}
