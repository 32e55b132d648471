package services

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/cloudshare/internal/client/client"
	"github.com/dmitrijs2005/cloudshare/internal/client/models"
	"github.com/dmitrijs2005/cloudshare/internal/client/normalize"
)

// OrderRequest asks the backend for a checkout order. The user is inferred
// from the bearer token.
type OrderRequest struct {
	Plan    string `json:"plan"`
	Receipt string `json:"receipt,omitempty"`
}

// BillingService covers the /api/billing endpoints.
type BillingService interface {
	CreateOrder(ctx context.Context, req OrderRequest) (models.Order, error)
	// VerifyPayment returns the server's message on success.
	VerifyPayment(ctx context.Context, proof models.PaymentResult) (string, error)
	Status(ctx context.Context) (models.BillingStatus, error)
}

type billingService struct {
	gw       client.Gateway
	defaults normalize.OrderDefaults
}

// NewBillingService fills fields an order response omits from defaults.
func NewBillingService(gw client.Gateway, defaults normalize.OrderDefaults) BillingService {
	return &billingService{gw: gw, defaults: defaults}
}

func (b *billingService) CreateOrder(ctx context.Context, req OrderRequest) (models.Order, error) {
	env, err := b.gw.Post(ctx, client.PathCreateOrder, req)
	if err != nil {
		return models.Order{}, err
	}
	order := normalize.Order(env, b.defaults)
	if order.OrderID == "" {
		return models.Order{}, withMessage(ErrNoOrder, http.MethodPost, client.PathCreateOrder, env, "Failed to create order")
	}
	if order.Receipt == "" {
		order.Receipt = req.Receipt
	}
	return order, nil
}

func (b *billingService) VerifyPayment(ctx context.Context, proof models.PaymentResult) (string, error) {
	env, err := b.gw.Post(ctx, client.PathVerifyPayment, proof)
	if err != nil {
		return "", err
	}
	if err := accepted(http.MethodPost, client.PathVerifyPayment, env); err != nil {
		return "", err
	}
	return normalize.Message(env), nil
}

func (b *billingService) Status(ctx context.Context) (models.BillingStatus, error) {
	env, err := b.gw.Get(ctx, client.PathBillingStatus)
	if err != nil {
		return models.BillingStatus{}, err
	}
	return normalize.Premium(env), nil
}
