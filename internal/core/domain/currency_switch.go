package domain

import (
	"github.com/shopspring/decimal"
)

// SwitchPhase is the overall state of a currency-switch workflow.
type SwitchPhase string

const (
	SwitchIdle       SwitchPhase = "IDLE"
	SwitchConverting SwitchPhase = "CONVERTING"
	SwitchSuccess    SwitchPhase = "SUCCESS"
	SwitchFailure    SwitchPhase = "FAILURE"
)

// PairRateState is the resolution state of a single conversion pair within a
// currency-switch workflow.
type PairRateState string

const (
	PairLoading PairRateState = "LOADING"
	PairSuccess PairRateState = "SUCCESS"
	PairFailure PairRateState = "FAILURE"
)

// PairRate tracks the per-pair sub-state machine: each discovered conversion
// pair independently moves Loading -> Success(rate) | Failure(reason), which
// lets callers render progressive feedback instead of an all-or-nothing wait.
type PairRate struct {
	Pair   ConversionPair  `json:"pair"`
	State  PairRateState   `json:"state"`
	Rate   decimal.Decimal `json:"rate"`
	Reason string          `json:"reason,omitempty"`
}

// SwitchStatus is an observable snapshot of a currency-switch workflow.
type SwitchStatus struct {
	Phase          SwitchPhase `json:"phase"`
	TargetCurrency string      `json:"targetCurrency,omitempty"`
	Pairs          []PairRate  `json:"pairs,omitempty"`
	UpdatedCount   int         `json:"updatedCount,omitempty"`
	Reason         string      `json:"reason,omitempty"`
}

// AllPairsResolved reports whether every pair reached Success. Confirmation is
// only allowed once this holds; a pair stuck in Failure blocks the rewrite so
// no transaction can end up with a stale converted amount under a new default.
func (s SwitchStatus) AllPairsResolved() bool {
	for _, p := range s.Pairs {
		if p.State != PairSuccess {
			return false
		}
	}
	return true
}
