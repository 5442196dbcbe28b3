package model

import "time"

// LoanPlan is an audit record of a planned borrow call. Amounts are decimal
// strings so JSON round-trips stay exact.
type LoanPlan struct {
	Network      string    `json:"network"`
	Pool         string    `json:"pool"`
	Asset        string    `json:"asset"`
	Amount0Out   string    `json:"amount0_out"`
	Amount1Out   string    `json:"amount1_out"`
	Recipient    string    `json:"recipient"`
	CallbackData string    `json:"callback_data"`
	CreatedAt    time.Time `json:"created_at"`
}

// SettlementRecord is an audit record of the repayments computed for one
// callback.
type SettlementRecord struct {
	Pool      string    `json:"pool"`
	Initiator string    `json:"initiator"`
	Asset     string    `json:"asset"`
	Borrowed  string    `json:"borrowed"`
	Fee       string    `json:"fee"`
	Repay     string    `json:"repay"`
	CreatedAt time.Time `json:"created_at"`
}
