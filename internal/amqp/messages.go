package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"oink/internal/core"

	"github.com/google/uuid"
)

// EventKind names what happened to a transaction.
type EventKind string

const (
	KindRecorded EventKind = "transaction.recorded"
	KindEdited   EventKind = "transaction.edited"
	KindDeleted  EventKind = "transaction.deleted"
)

func (k EventKind) Valid() bool {
	switch k {
	case KindRecorded, KindEdited, KindDeleted:
		return true
	}
	return false
}

// LedgerEvent is published after a ledger mutation commits. It carries
// enough for a consumer to find the budgets the mutation may have moved;
// consumers re-read current state from the database.
type LedgerEvent struct {
	ID                 string               `json:"id"`
	Kind               EventKind            `json:"kind"`
	TransactionID      int64                `json:"transaction_id"`
	AccountID          int64                `json:"account_id"`
	CategoryID         *int64               `json:"category_id"`
	PreviousCategoryID *int64               `json:"previous_category_id,omitempty"`
	Type               core.TransactionType `json:"type"`
	AmountCents        int64                `json:"amount_cents"`
	OccurredAt         time.Time            `json:"occurred_at"`
	Timestamp          time.Time            `json:"timestamp"`
}

// NewLedgerEvent builds an event for tx with a fresh id.
func NewLedgerEvent(kind EventKind, tx core.Transaction) *LedgerEvent {
	return &LedgerEvent{
		ID:            uuid.NewString(),
		Kind:          kind,
		TransactionID: tx.ID,
		AccountID:     tx.AccountID,
		CategoryID:    tx.CategoryID,
		Type:          tx.Type,
		AmountCents:   tx.Amount.Cents,
		OccurredAt:    tx.CreatedAt,
		Timestamp:     time.Now(),
	}
}

// Period is the budget month the transaction falls in.
func (e *LedgerEvent) Period() core.YearMonth {
	return core.YearMonthOf(e.OccurredAt)
}

// CategoryIDs lists the distinct categories the event touched.
func (e *LedgerEvent) CategoryIDs() []int64 {
	var ids []int64
	if e.CategoryID != nil {
		ids = append(ids, *e.CategoryID)
	}
	if e.PreviousCategoryID != nil && (e.CategoryID == nil || *e.PreviousCategoryID != *e.CategoryID) {
		ids = append(ids, *e.PreviousCategoryID)
	}
	return ids
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes and checks an event body.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(e.ID); err != nil {
		return nil, fmt.Errorf("event id %q: %w", e.ID, err)
	}
	if !e.Kind.Valid() {
		return nil, fmt.Errorf("unknown event kind %q", e.Kind)
	}
	return &e, nil
}
