package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TipRecord is a confirmed tip as stored in the ledger. Records are never updated.
type TipRecord struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Token     string    `json:"token"`
	Amount    string    `json:"amount"` // human-readable token units, kept as string to preserve precision
	Message   string    `json:"message,omitempty"`
	TxID      string    `json:"tx_id"`
	ChainID   int64     `json:"chain_id"`
	Timestamp time.Time `json:"timestamp"`
}

// TipRequest is what a caller asks the orchestrator to do.
// Receiver must already be a resolved address.
type TipRequest struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Amount   string `json:"amount"`
	Token    string `json:"token"`
	ChainID  int64  `json:"chain_id,omitempty"`
	Message  string `json:"message,omitempty"`
}

// TipIntent is the working state of one in-flight tip.
type TipIntent struct {
	ID       string
	Sender   string
	Receiver string
	Amount   decimal.Decimal
	Token    Token
	Message  string
	Phase    Phase
}

// TipResult describes how a SendTip invocation ended.
type TipResult struct {
	IntentID    string     `json:"intent_id"`
	Phase       Phase      `json:"phase"`
	ApprovalTx  string     `json:"approval_tx,omitempty"`
	TxID        string     `json:"tx_id,omitempty"`
	Transferred bool       `json:"transferred"`
	Recorded    bool       `json:"recorded"`
	Record      *TipRecord `json:"record,omitempty"`
}

// TipperEntry is one row of a ranked supporter list. Totals are in token
// units for a single receiver and in USD for the global leaderboard.
type TipperEntry struct {
	Sender   string          `json:"sender"`
	Total    decimal.Decimal `json:"total"`
	TipCount int             `json:"tip_count"`
}

// ProfileSummary aggregates an address's activity on both sides of the ledger.
type ProfileSummary struct {
	Address          string          `json:"address"`
	TipsSent         int             `json:"tips_sent"`
	TipsReceived     int             `json:"tips_received"`
	TotalSentUSD     decimal.Decimal `json:"total_sent_usd"`
	TotalReceivedUSD decimal.Decimal `json:"total_received_usd"`
}
