package dto

import (
	"github.com/fintra-app/fintra_backend/internal/core/domain"
)

// CreateTransactionRequest is the request body for recording a transaction.
// Amount is in minor currency units (cents); Date is the calendar anchor used
// for rate lookups, decoupled from any timestamp or time zone.
type CreateTransactionRequest struct {
	Description  string `json:"description" binding:"max=255"`
	Amount       int64  `json:"amount" binding:"required"`
	CurrencyCode string `json:"currencyCode" binding:"required,len=3,alpha"`
	Date         string `json:"date" binding:"required,datetime=2006-01-02"`
}

// TransactionResponse is the API representation of a transaction.
type TransactionResponse struct {
	TransactionID string        `json:"transactionID"`
	Description   string        `json:"description,omitempty"`
	Amount        domain.Money  `json:"amount"`
	Converted     *domain.Money `json:"converted,omitempty"`
	Date          string        `json:"date"`
}

// ToTransactionResponse maps a domain transaction to its API representation.
func ToTransactionResponse(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		Description:   t.Description,
		Amount:        t.Amount,
		Converted:     t.Converted,
		Date:          t.Occurred.String(),
	}
}

// ToTransactionResponses maps a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, ToTransactionResponse(t))
	}
	return out
}
