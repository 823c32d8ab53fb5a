// Package checkout runs the shop's demonstration checkout. No payment is
// taken: the visitor is told checkout would happen here, asked to confirm,
// and on confirmation the cart is cleared as if an order had been placed.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/greenfield-poultry/farmshop/internal/models"
)

// ErrEmptyCart is returned when checkout is attempted with nothing in the cart.
var ErrEmptyCart = errors.New("checkout: cart is empty")

// Visitor-facing messages.
const (
	MsgEmptyCart   = "Your cart is empty!"
	MsgGatewayStub = "Checkout functionality would be implemented here with payment gateway integration."
	PromptConfirm  = "This is a demo. Clear cart to simulate order placement?"
	MsgOrderPlaced = "Order placed successfully! (Demo)"
)

// DefaultDelay separates the gateway notice from the confirmation prompt.
const DefaultDelay = time.Second

// Publisher delivers events to a session's subscribers.
type Publisher interface {
	Publish(topic string, ev models.Event)
}

// Cart is the part of a cart the checkout needs.
type Cart interface {
	Items() []models.LineItem
	Clear(ctx context.Context) []models.LineItem
}

// Service runs the two-step checkout.
type Service struct {
	pub   Publisher
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewService creates a checkout service. A delay of zero or less uses DefaultDelay.
func NewService(pub Publisher, delay time.Duration) *Service {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Service{pub: pub, delay: delay, pending: make(map[string]*time.Timer)}
}

// Begin starts checkout for a session. An empty cart gets a warning notice
// and ErrEmptyCart. Otherwise the visitor is told about the missing gateway
// and, after the confirm delay, asked whether to place the demo order.
func (s *Service) Begin(ctx context.Context, sessionID string, c Cart) error {
	if len(c.Items()) == 0 {
		s.notify(sessionID, models.NewNotice(MsgEmptyCart, models.LevelWarning))
		return ErrEmptyCart
	}
	s.notify(sessionID, models.NewNotice(MsgGatewayStub, models.LevelInfo))

	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.pending[sessionID]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		if s.pending[sessionID] != t {
			s.mu.Unlock()
			return
		}
		delete(s.pending, sessionID)
		s.mu.Unlock()
		s.pub.Publish(sessionID, models.ConfirmEvent(PromptConfirm))
	})
	s.pending[sessionID] = t
	slog.Debug("checkout: started", "session", sessionID)
	return nil
}

// Confirm places the demo order: the cart is cleared and a success notice sent.
func (s *Service) Confirm(ctx context.Context, sessionID string, c Cart) ([]models.LineItem, error) {
	s.cancel(sessionID)
	if len(c.Items()) == 0 {
		return c.Items(), ErrEmptyCart
	}
	items := c.Clear(ctx)
	s.notify(sessionID, models.NewNotice(MsgOrderPlaced, models.LevelSuccess))
	slog.Info("checkout: demo order placed", "session", sessionID)
	return items, nil
}

// Pending reports whether a confirmation prompt is scheduled for the session.
func (s *Service) Pending(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[sessionID]
	return ok
}

// Close stops every scheduled prompt.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.pending {
		t.Stop()
		delete(s.pending, id)
	}
}

func (s *Service) cancel(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.pending[sessionID]; ok {
		t.Stop()
		delete(s.pending, sessionID)
	}
}

func (s *Service) notify(sessionID string, n models.Notice) {
	s.pub.Publish(sessionID, models.NoticeEvent(n))
}
