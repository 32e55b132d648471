// Package payment drives the premium checkout: order creation, the external
// payment widget and server-side verification.
package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/cloudshare/internal/client/models"
	"github.com/dmitrijs2005/cloudshare/internal/client/notify"
	"github.com/dmitrijs2005/cloudshare/internal/client/optimistic"
	"github.com/dmitrijs2005/cloudshare/internal/client/services"
	"github.com/dmitrijs2005/cloudshare/internal/client/session"
	"github.com/dmitrijs2005/cloudshare/internal/common"
	"github.com/dmitrijs2005/cloudshare/internal/logging"
)

var (
	ErrOrderMismatch     = errors.New("callback is for a different order")
	ErrAlreadyVerified   = errors.New("order was already verified")
	ErrInvalidTransition = errors.New("invalid payment state transition")
	ErrMissingKey        = errors.New("no payment gateway key")
)

const (
	msgOrderFailed   = "Failed to create order"
	msgMissingKey    = "Payments are not configured"
	msgWidgetFailed  = "Could not open the payment window"
	msgPaymentFailed = "Payment failed"
	msgVerified      = "Payment successful! You are now a premium member."
	msgVerifyFailed  = "Payment verification failed"

	entitlementKey = "entitlement:premium"
)

// Billing is the part of services.BillingService checkout needs.
type Billing interface {
	CreateOrder(ctx context.Context, req services.OrderRequest) (models.Order, error)
	VerifyPayment(ctx context.Context, proof models.PaymentResult) (string, error)
}

type Config struct {
	Plan string
	// Key is used when an order response carries no gateway key.
	Key string
}

type Option func(*Orchestrator)

// WithObserver registers fn to see every state change. fn runs with the
// orchestrator locked and must not call back into it.
func WithObserver(fn func(from, to State)) Option {
	return func(o *Orchestrator) { o.observe = fn }
}

func WithLogger(log logging.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithReceipts overrides receipt id generation.
func WithReceipts(fn func() string) Option {
	return func(o *Orchestrator) { o.receipt = fn }
}

// Orchestrator is the checkout state machine. The current order id is the
// only state that decides which widget callbacks are accepted.
type Orchestrator struct {
	mu       sync.Mutex
	state    State
	order    *models.Order
	verified map[string]struct{}

	billing   Billing
	widget    Widget
	session   *session.State
	mutations *optimistic.Controller
	notify    notify.Notifier
	cfg       Config
	log       logging.Logger
	observe   func(from, to State)
	receipt   func() string
}

func New(billing Billing, widget Widget, st *session.State, mutations *optimistic.Controller, n notify.Notifier, cfg Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		verified:  make(map[string]struct{}),
		billing:   billing,
		widget:    widget,
		session:   st,
		mutations: mutations,
		notify:    n,
		cfg:       cfg,
		log:       logging.Discard(),
		receipt:   func() string { return "rcpt_" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.notify == nil {
		o.notify = notify.Discard{}
	}
	if o.mutations == nil {
		o.mutations = optimistic.NewController(o.notify, o.log)
	}
	return o
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Order returns the order in flight, if any.
func (o *Orchestrator) Order() (models.Order, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.order == nil {
		return models.Order{}, false
	}
	return *o.order, true
}

// Start creates a new order. Any order still tracked is dropped, so callbacks
// from its widget no longer match. A failure is reported and leaves the flow
// Idle.
func (o *Orchestrator) Start(ctx context.Context) (models.Order, error) {
	o.mu.Lock()
	if !o.state.canStart() {
		s := o.state
		o.mu.Unlock()
		return models.Order{}, fmt.Errorf("%w: start from %s", ErrInvalidTransition, s)
	}
	o.order = nil
	o.set(OrderCreating)
	o.mu.Unlock()

	order, err := o.billing.CreateOrder(ctx, services.OrderRequest{Plan: o.cfg.Plan, Receipt: o.receipt()})
	if err == nil && order.Key == "" {
		order.Key = o.cfg.Key
		if order.Key == "" {
			err = ErrMissingKey
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.set(Failed)
		o.set(Idle)
		if errors.Is(err, ErrMissingKey) {
			o.notify.Error(msgMissingKey)
		} else {
			o.notify.Error(common.UserMessage(err, msgOrderFailed))
		}
		return models.Order{}, err
	}
	o.order = &order
	o.set(OrderReady)
	return order, nil
}

// Open hands the ready order to the widget. Callbacks are bound to this order:
// a success proof that names no order is taken as this order's.
func (o *Orchestrator) Open(ctx context.Context) error {
	o.mu.Lock()
	if o.state != OrderReady || o.order == nil {
		s := o.state
		o.mu.Unlock()
		return fmt.Errorf("%w: open from %s", ErrInvalidTransition, s)
	}
	order := *o.order
	o.set(AwaitingConfirmation)
	o.mu.Unlock()

	// The widget may stay open for as long as the customer likes.
	vctx := context.WithoutCancel(ctx)
	cb := Callbacks{
		Success: func(proof models.PaymentResult) error {
			switch proof.OrderID {
			case order.OrderID:
			case "":
				proof.OrderID = order.OrderID
			default:
				o.log.Warn(vctx, "payment success callback rejected", "order_id", proof.OrderID, "opened_for", order.OrderID)
				return fmt.Errorf("%w: got %q, opened for %q", ErrOrderMismatch, proof.OrderID, order.OrderID)
			}
			return o.Succeed(vctx, proof)
		},
		Failure: func(reason string) error { return o.Fail(order.OrderID, reason) },
		Dismiss: func() error { return o.Dismiss(order.OrderID) },
	}
	if err := o.widget.Open(o.options(order), cb); err != nil {
		o.mu.Lock()
		if o.state == AwaitingConfirmation && o.order != nil && o.order.OrderID == order.OrderID {
			o.set(OrderReady)
		}
		o.mu.Unlock()
		o.notify.Error(msgWidgetFailed)
		return fmt.Errorf("open payment widget: %w", err)
	}
	return nil
}

// Succeed handles the widget's success callback. The proof must name the
// order in flight; each order is verified at most once, and is discarded
// afterwards whatever the outcome.
func (o *Orchestrator) Succeed(ctx context.Context, proof models.PaymentResult) error {
	o.mu.Lock()
	if _, done := o.verified[proof.OrderID]; done {
		o.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyVerified, proof.OrderID)
	}
	if err := o.awaiting(proof.OrderID); err != nil {
		o.mu.Unlock()
		o.log.Warn(ctx, "payment success callback rejected", "order_id", proof.OrderID, "err", err)
		return err
	}
	o.verified[proof.OrderID] = struct{}{}
	o.set(Verifying)
	o.mu.Unlock()

	err := o.verify(ctx, proof)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.order = nil
	if err != nil {
		o.set(Failed)
		return err
	}
	o.set(Completed)
	return nil
}

// Fail handles the widget's explicit failure callback: the widget is closed,
// the customer told, and the order stays ready for another attempt.
func (o *Orchestrator) Fail(orderID, reason string) error {
	o.mu.Lock()
	if err := o.awaiting(orderID); err != nil {
		o.mu.Unlock()
		return err
	}
	o.set(Cancelled)
	o.set(OrderReady)
	o.mu.Unlock()

	o.widget.Close()
	if reason == "" {
		reason = msgPaymentFailed
	}
	o.notify.Error(reason)
	return nil
}

// Dismiss handles the customer closing the widget. Nothing is reported.
func (o *Orchestrator) Dismiss(orderID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.awaiting(orderID); err != nil {
		return err
	}
	o.set(Cancelled)
	o.set(OrderReady)
	return nil
}

// Reset abandons the flow and returns to Idle.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch o.state {
	case OrderCreating, AwaitingConfirmation, Verifying:
		return fmt.Errorf("%w: reset from %s", ErrInvalidTransition, o.state)
	}
	o.order = nil
	if o.state != Idle {
		o.set(Idle)
	}
	return nil
}

// awaiting checks that a callback for orderID may be accepted. Callers hold
// o.mu.
func (o *Orchestrator) awaiting(orderID string) error {
	if o.state != AwaitingConfirmation || o.order == nil {
		return fmt.Errorf("%w: callback in %s", ErrInvalidTransition, o.state)
	}
	if orderID != o.order.OrderID {
		return fmt.Errorf("%w: got %q, tracking %q", ErrOrderMismatch, orderID, o.order.OrderID)
	}
	return nil
}

// verify confirms the payment and flips the premium entitlement
// optimistically, so a rejection restores it exactly.
func (o *Orchestrator) verify(ctx context.Context, proof models.PaymentResult) error {
	if _, ok := o.session.User(); !ok {
		o.notify.Error(msgVerifyFailed)
		return session.ErrNotLoggedIn
	}
	g := o.session.Guard()
	premium := optimistic.Funcs[bool]{
		LoadFunc: func() (bool, bool) {
			u, ok := o.session.User()
			return u.IsPremium, ok
		},
		StoreFunc: func(v bool) error {
			_, err := o.session.Update(ctx, g, func(u models.User) models.User {
				u.IsPremium = v
				return u
			})
			return err
		},
	}
	_, err := optimistic.Apply(ctx, o.mutations, optimistic.Mutation[bool]{
		Key:    entitlementKey,
		Target: premium,
		Change: func(bool) bool { return true },
		Confirm: func(ctx context.Context) (string, error) {
			return o.billing.VerifyPayment(ctx, proof)
		},
		Success: msgVerified,
		Failure: msgVerifyFailed,
		Live:    g,
	})
	return err
}

func (o *Orchestrator) options(order models.Order) Options {
	opts := Options{
		Key:         order.Key,
		OrderID:     order.OrderID,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Price:       Price(order.Amount, order.Currency),
		Name:        order.Name,
		Description: order.Description,
		Notes:       order.Notes,
	}
	if u, ok := o.session.User(); ok {
		opts.Prefill = Prefill{Name: u.DisplayName(), Email: u.Email}
	}
	return opts
}

// set moves to a new state. Callers hold o.mu.
func (o *Orchestrator) set(to State) {
	from := o.state
	o.state = to
	o.log.Debug(context.Background(), "payment state changed", "from", from.String(), "to", to.String())
	if o.observe != nil {
		o.observe(from, to)
	}
}
