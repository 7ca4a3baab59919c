package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TransactionCreated Type = "transaction.created"
	TransactionDeleted Type = "transaction.deleted"
	BudgetExceeded     Type = "budget.exceeded"
)

// Event describes a change to a user's ledger.
type Event struct {
	Type          Type            `json:"type"`
	UserID        string          `json:"user_id"`
	TransactionID string          `json:"transaction_id,omitempty"`
	BudgetID      string          `json:"budget_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// Publisher delivers events. Implementations log delivery failures instead of
// returning them, so publishing never fails a committed write.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	f(ctx, event)
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) {}

// Multi fans an event out to every publisher in order.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(ctx, event)
		}
	}
}
