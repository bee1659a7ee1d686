package dto

import (
	"github.com/fintra-app/fintra_backend/internal/core/domain"
)

// BeginSwitchRequest starts a default-currency change.
type BeginSwitchRequest struct {
	TargetCurrency string `json:"targetCurrency" binding:"required,len=3,alpha"`
}

// SwitchStatusResponse is the observable state of the currency-switch
// workflow: the overall phase plus every conversion pair's sub-state.
type SwitchStatusResponse struct {
	Phase          domain.SwitchPhase `json:"phase"`
	TargetCurrency string             `json:"targetCurrency,omitempty"`
	Pairs          []domain.PairRate  `json:"pairs,omitempty"`
	UpdatedCount   int                `json:"updatedCount,omitempty"`
	Reason         string             `json:"reason,omitempty"`
	Confirmable    bool               `json:"confirmable"`
}

// ToSwitchStatusResponse maps a workflow snapshot to its API representation.
func ToSwitchStatusResponse(s domain.SwitchStatus) SwitchStatusResponse {
	return SwitchStatusResponse{
		Phase:          s.Phase,
		TargetCurrency: s.TargetCurrency,
		Pairs:          s.Pairs,
		UpdatedCount:   s.UpdatedCount,
		Reason:         s.Reason,
		Confirmable:    s.Phase == domain.SwitchConverting && len(s.Pairs) > 0 && s.AllPairsResolved(),
	}
}
