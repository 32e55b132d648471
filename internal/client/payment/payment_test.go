package payment

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cloudshare/internal/client/client"
	"github.com/dmitrijs2005/cloudshare/internal/client/models"
	"github.com/dmitrijs2005/cloudshare/internal/client/notify"
	"github.com/dmitrijs2005/cloudshare/internal/client/services"
	"github.com/dmitrijs2005/cloudshare/internal/client/session"
)

type fakeBilling struct {
	mu        sync.Mutex
	orders    []models.Order
	createErr error
	verifyErr error
	requests  []services.OrderRequest
	verified  []models.PaymentResult
}

func (f *fakeBilling) CreateOrder(_ context.Context, req services.OrderRequest) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.createErr != nil {
		return models.Order{}, f.createErr
	}
	o := f.orders[0]
	f.orders = f.orders[1:]
	return o, nil
}

func (f *fakeBilling) VerifyPayment(_ context.Context, p models.PaymentResult) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verified = append(f.verified, p)
	return "", f.verifyErr
}

func (f *fakeBilling) verifyCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.verified)
}

type fakeWidget struct {
	opened  []Options
	cbs     []Callbacks
	closed  int
	openErr error
}

func (w *fakeWidget) Open(opts Options, cb Callbacks) error {
	if w.openErr != nil {
		return w.openErr
	}
	w.opened = append(w.opened, opts)
	w.cbs = append(w.cbs, cb)
	return nil
}

func (w *fakeWidget) Close() { w.closed++ }

func (w *fakeWidget) last() Callbacks { return w.cbs[len(w.cbs)-1] }

type fixture struct {
	billing *fakeBilling
	widget  *fakeWidget
	state   *session.State
	notes   *notify.Recorder
	orch    *Orchestrator
	seen    []State
}

func newFixture(t *testing.T, cfg Config, orders ...models.Order) *fixture {
	t.Helper()
	f := &fixture{
		billing: &fakeBilling{orders: orders},
		widget:  &fakeWidget{},
		state:   session.NewState(&session.MemoryStore{}, nil),
		notes:   &notify.Recorder{},
	}
	_, err := f.state.Login(context.Background(), "tok", models.User{Email: "ann@x", Name: "Ann"})
	require.NoError(t, err)
	f.orch = New(f.billing, f.widget, f.state, nil, f.notes, cfg,
		WithObserver(func(_, to State) { f.seen = append(f.seen, to) }),
		WithReceipts(func() string { return "rcpt-fixed" }),
	)
	return f
}

func (f *fixture) premium() bool {
	u, _ := f.state.User()
	return u.IsPremium
}

func order(id string) models.Order {
	return models.Order{OrderID: id, Amount: 49900, Currency: "INR", Key: "rzp_key", Name: "CloudShare Premium"}
}

func proof(orderID string) models.PaymentResult {
	return models.PaymentResult{OrderID: orderID, PaymentID: "pay_1", Signature: "sig"}
}

func TestOrchestrator_HappyPath(t *testing.T) {
	f := newFixture(t, Config{Plan: "premium"}, order("order_1"))
	ctx := context.Background()

	o, err := f.orch.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, "order_1", o.OrderID)
	assert.Equal(t, OrderReady, f.orch.State())
	assert.Equal(t, []services.OrderRequest{{Plan: "premium", Receipt: "rcpt-fixed"}}, f.billing.requests)

	require.NoError(t, f.orch.Open(ctx))
	assert.Equal(t, AwaitingConfirmation, f.orch.State())
	require.Len(t, f.widget.opened, 1)
	opts := f.widget.opened[0]
	assert.Equal(t, "rzp_key", opts.Key)
	assert.Equal(t, int64(49900), opts.Amount)
	assert.Equal(t, Prefill{Name: "Ann", Email: "ann@x"}, opts.Prefill)

	require.NoError(t, f.widget.last().Success(proof("order_1")))

	assert.Equal(t, Completed, f.orch.State())
	assert.True(t, f.premium())
	assert.Equal(t, 1, f.billing.verifyCalls())
	assert.Equal(t, []notify.Note{{Level: notify.LevelSuccess, Message: msgVerified}}, f.notes.Notes())
	_, tracked := f.orch.Order()
	assert.False(t, tracked, "order is discarded once verified")
	assert.Equal(t, []State{OrderCreating, OrderReady, AwaitingConfirmation, Verifying, Completed}, f.seen)
}

func TestOrchestrator_MismatchedSuccessIsRejected(t *testing.T) {
	f := newFixture(t, Config{}, order("order_1"))
	ctx := context.Background()
	_, err := f.orch.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, f.orch.Open(ctx))

	err = f.widget.last().Success(proof("order_other"))
	require.ErrorIs(t, err, ErrOrderMismatch)

	assert.Equal(t, 0, f.billing.verifyCalls())
	assert.Equal(t, AwaitingConfirmation, f.orch.State())
	assert.False(t, f.premium())
	assert.Empty(t, f.notes.Notes())
}

func TestOrchestrator_SuccessWithoutOrderIDUsesOpenedOrder(t *testing.T) {
	f := newFixture(t, Config{}, order("order_1"), order("order_2"))
	ctx := context.Background()
	_, err := f.orch.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, f.orch.Open(ctx))

	require.NoError(t, f.widget.last().Success(models.PaymentResult{PaymentID: "pay_1", Signature: "sig"}))

	assert.Equal(t, Completed, f.orch.State())
	assert.True(t, f.premium())
	assert.Equal(t, []models.PaymentResult{proof("order_1")}, f.billing.verified)

	_, err = f.orch.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, f.orch.Open(ctx))
	err = f.widget.last().Success(models.PaymentResult{OrderID: "order_1", PaymentID: "pay_2", Signature: "sig"})
	require.ErrorIs(t, err, ErrOrderMismatch)
	assert.Equal(t, AwaitingConfirmation, f.orch.State())
	assert.Equal(t, 1, f.billing.verifyCalls())
}

func TestOrchestrator_StaleWidgetAfterNewOrder(t *testing.T) {
	f := newFixture(t, Config{}, order("order_1"), order("order_2"))
	ctx := context.Background()

	_, err := f.orch.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, f.orch.Open(ctx))
	stale := f.widget.last()
	require.NoError(t, stale.Dismiss())

	_, err = f.orch.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, f.orch.Open(ctx))

	require.ErrorIs(t, stale.Success(proof("order_1")), ErrOrderMismatch)
	require.ErrorIs(t, stale.Success(models.PaymentResult{PaymentID: "pay_1", Signature: "sig"}), ErrOrderMismatch)
	require.ErrorIs(t, stale.Failure("late"), ErrOrderMismatch)
	assert.Equal(t, 0, f.widget.closed)
	assert.Equal(t, 0, f.billing.verifyCalls())

	require.NoError(t, f.widget.last().Success(proof("order_2")))
	assert.Equal(t, Completed, f.orch.State())
}

func TestOrchestrator_VerificationRejected(t *testing.T) {
	f := newFixture(t, Config{}, order("order_1"))
	f.billing.verifyErr = &client.APIError{Method: http.MethodPost, Path: client.PathVerifyPayment, Status: http.StatusBadRequest, Message: "Signature mismatch"}
	ctx := context.Background()
	_, err := f.orch.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, f.orch.Open(ctx))

	err = f.widget.last().Success(proof("order_1"))
	require.Error(t, err)

	assert.Equal(t, Failed, f.orch.State())
	assert.False(t, f.premium(), "entitlement is restored")
	assert.Equal(t, []notify.Note{{Level: notify.LevelError, Message: "Signature mismatch"}}, f.notes.Notes())
	_, tracked := f.orch.Order()
	assert.False(t, tracked)

	err = f.orch.Succeed(ctx, proof("order_1"))
	require.ErrorIs(t, err, ErrAlreadyVerified)
	assert.Equal(t, 1, f.billing.verifyCalls())
}

func TestOrchestrator_WidgetFailureAndDismiss(t *testing.T) {
	f := newFixture(t, Config{}, order("order_1"))
	ctx := context.Background()
	_, err := f.orch.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, f.orch.Open(ctx))
	require.NoError(t, f.widget.last().Failure("Card declined"))
	assert.Equal(t, OrderReady, f.orch.State())
	assert.Equal(t, 1, f.widget.closed)
	assert.Equal(t, []notify.Note{{Level: notify.LevelError, Message: "Card declined"}}, f.notes.Notes())

	require.NoError(t, f.orch.Open(ctx))
	require.NoError(t, f.widget.last().Dismiss())
	assert.Equal(t, OrderReady, f.orch.State())
	assert.Len(t, f.notes.Notes(), 1, "dismissal is silent")

	assert.Equal(t, 0, f.billing.verifyCalls())
	assert.Equal(t, []State{
		OrderCreating, OrderReady,
		AwaitingConfirmation, Cancelled, OrderReady,
		AwaitingConfirmation, Cancelled, OrderReady,
	}, f.seen)

	require.NoError(t, f.orch.Reset())
	assert.Equal(t, Idle, f.orch.State())
}

func TestOrchestrator_OrderCreationFailure(t *testing.T) {
	f := newFixture(t, Config{})
	f.billing.createErr = errors.New("network down")

	_, err := f.orch.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, Idle, f.orch.State())
	assert.Equal(t, []State{OrderCreating, Failed, Idle}, f.seen)
	assert.Equal(t, []notify.Note{{Level: notify.LevelError, Message: msgOrderFailed}}, f.notes.Notes())
}

func TestOrchestrator_KeyFallback(t *testing.T) {
	keyless := order("order_1")
	keyless.Key = ""

	f := newFixture(t, Config{Key: "rzp_config"}, keyless)
	o, err := f.orch.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rzp_config", o.Key)

	f = newFixture(t, Config{}, keyless)
	_, err = f.orch.Start(context.Background())
	require.ErrorIs(t, err, ErrMissingKey)
	assert.Equal(t, Idle, f.orch.State())
	assert.Equal(t, 1, f.notes.Count(notify.LevelError))
}

func TestOrchestrator_WidgetOpenError(t *testing.T) {
	f := newFixture(t, Config{}, order("order_1"))
	f.widget.openErr = errors.New("no display")
	_, err := f.orch.Start(context.Background())
	require.NoError(t, err)

	require.Error(t, f.orch.Open(context.Background()))
	assert.Equal(t, OrderReady, f.orch.State())
	assert.Equal(t, 1, f.notes.Count(notify.LevelError))
}

func TestOrchestrator_InvalidTransitions(t *testing.T) {
	f := newFixture(t, Config{}, order("order_1"))
	ctx := context.Background()

	assert.ErrorIs(t, f.orch.Open(ctx), ErrInvalidTransition)
	assert.ErrorIs(t, f.orch.Dismiss("order_1"), ErrInvalidTransition)
	assert.ErrorIs(t, f.orch.Succeed(ctx, proof("order_1")), ErrInvalidTransition)

	_, err := f.orch.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, f.orch.Open(ctx))
	_, err = f.orch.Start(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, f.orch.Reset(), ErrInvalidTransition)
}

func TestOrchestrator_LogoutDuringVerification(t *testing.T) {
	f := newFixture(t, Config{}, order("order_1"))
	ctx := context.Background()
	_, err := f.orch.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, f.orch.Open(ctx))

	f.billing.verifyErr = nil
	b := &loggingOutBilling{fakeBilling: f.billing, state: f.state}
	f.orch.billing = b

	err = f.widget.last().Success(proof("order_1"))
	require.Error(t, err)
	assert.Equal(t, Failed, f.orch.State())
	_, in := f.state.User()
	assert.False(t, in)
	assert.Empty(t, f.notes.Notes())
}

type loggingOutBilling struct {
	*fakeBilling
	state *session.State
}

func (l *loggingOutBilling) VerifyPayment(ctx context.Context, p models.PaymentResult) (string, error) {
	_ = l.state.Logout(ctx)
	return l.fakeBilling.VerifyPayment(ctx, p)
}

func TestPrice(t *testing.T) {
	got := Price(49900, "INR")
	assert.Contains(t, got, "INR")
	assert.Contains(t, got, "499.00")

	assert.Contains(t, Price(500, "JPY"), "500")
	assert.Equal(t, "Q1 1.50", Price(150, "Q1"))
}
