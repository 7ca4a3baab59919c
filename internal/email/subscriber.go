package emailService

import (
	"context"
	"sync"
	"time"

	"github.com/sebuszqo/Cashlex/internal/events"
	"github.com/sebuszqo/Cashlex/internal/finance/domain"
	"github.com/sebuszqo/Cashlex/internal/user"
	"github.com/sirupsen/logrus"
)

const (
	lookupTimeout  = 5 * time.Second
	alertQueueSize = 100
)

type UserLookup interface {
	GetUserByID(ctx context.Context, userID string) (*user.User, error)
}

type BudgetLookup interface {
	FindByIDForUser(ctx context.Context, budgetID, userID string) (*domain.Budget, error)
}

// BudgetAlertSubscriber mails the owner whenever a budget goes over its limit.
// Lookups run on its own worker, never on the publishing goroutine.
type BudgetAlertSubscriber struct {
	users   UserLookup
	budgets BudgetLookup
	sender  EmailSender
	log     logrus.FieldLogger

	mu     sync.RWMutex
	closed bool
	queue  chan events.Event
	done   chan struct{}
}

func NewBudgetAlertSubscriber(users UserLookup, budgets BudgetLookup, sender EmailSender, log logrus.FieldLogger) *BudgetAlertSubscriber {
	s := &BudgetAlertSubscriber{
		users:   users,
		budgets: budgets,
		sender:  sender,
		log:     log,
		queue:   make(chan events.Event, alertQueueSize),
		done:    make(chan struct{}),
	}
	go s.worker()
	return s
}

// Publish queues budget.exceeded events and ignores the rest. It never blocks.
func (s *BudgetAlertSubscriber) Publish(_ context.Context, event events.Event) {
	if event.Type != events.BudgetExceeded {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.queue <- event:
	default:
		s.log.WithField("user_id", event.UserID).Warn("Budget alert queue full, alert dropped")
	}
}

// Close stops accepting events and waits for queued alerts to be handed to
// the sender.
func (s *BudgetAlertSubscriber) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	<-s.done
}

func (s *BudgetAlertSubscriber) worker() {
	defer close(s.done)
	for event := range s.queue {
		s.alert(event)
	}
}

func (s *BudgetAlertSubscriber) alert(event events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	log := s.log.WithFields(logrus.Fields{"user_id": event.UserID, "budget_id": event.BudgetID})

	u, err := s.users.GetUserByID(ctx, event.UserID)
	if err != nil {
		log.WithError(err).Error("Budget alert: failed to load user")
		return
	}
	if u.Email == "" {
		return
	}

	budget, err := s.budgets.FindByIDForUser(ctx, event.BudgetID, event.UserID)
	if err != nil {
		log.WithError(err).Error("Budget alert: failed to load budget")
		return
	}

	name := u.Name
	if name == "" {
		name = u.Username
	}

	s.sender.QueueEmail(u.Email, BudgetExceededData{
		UserName:   name,
		BudgetName: budget.Name,
		Amount:     budget.Amount.StringFixed(2),
		Spent:      budget.Spent.StringFixed(2),
		Over:       budget.Spent.Sub(budget.Amount).StringFixed(2),
	})
	log.Info("Budget alert queued")
}
