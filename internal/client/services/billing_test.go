package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cloudshare/internal/client/client"
	"github.com/dmitrijs2005/cloudshare/internal/client/models"
	"github.com/dmitrijs2005/cloudshare/internal/client/normalize"
	"github.com/dmitrijs2005/cloudshare/internal/common"
)

func TestBilling_CreateOrder(t *testing.T) {
	gw := backend(t, func(r chi.Router) {
		r.Post(client.PathCreateOrder, func(w http.ResponseWriter, r *http.Request) {
			in := decode(t, r)
			assert.Equal(t, "premium", in["plan"])
			reply(http.StatusOK, obj{"data": obj{"orderId": "order_1", "amount": 499, "currency": "INR"}})(w, r)
		})
	})
	svc := NewBillingService(gw, normalize.OrderDefaults{Currency: "INR", Key: "rzp_test"})

	o, err := svc.CreateOrder(context.Background(), OrderRequest{Plan: "premium", Receipt: "rcpt-1"})
	require.NoError(t, err)
	assert.Equal(t, "order_1", o.OrderID)
	assert.Equal(t, int64(49900), o.Amount)
	assert.Equal(t, "rzp_test", o.Key)
	assert.Equal(t, "rcpt-1", o.Receipt)
}

func TestBilling_CreateOrderWithoutID(t *testing.T) {
	gw := backend(t, func(r chi.Router) {
		r.Post(client.PathCreateOrder, reply(http.StatusOK, obj{"data": obj{"amount": 499}}))
	})
	_, err := NewBillingService(gw, normalize.DefaultOrder).CreateOrder(context.Background(), OrderRequest{Plan: "premium"})
	require.ErrorIs(t, err, ErrNoOrder)
	assert.Equal(t, "Failed to create order", common.UserMessage(err, "x"))
}

func TestBilling_VerifyAndStatus(t *testing.T) {
	gw := backend(t, func(r chi.Router) {
		r.Post(client.PathVerifyPayment, func(w http.ResponseWriter, r *http.Request) {
			in := decode(t, r)
			if in["signature"] == "bad" {
				reply(http.StatusBadRequest, obj{"message": "Signature mismatch"})(w, r)
				return
			}
			assert.Equal(t, obj{"orderId": "o", "paymentId": "p", "signature": "s"}, in)
			reply(http.StatusOK, obj{"success": true, "message": "Payment verified"})(w, r)
		})
		r.Get(client.PathBillingStatus, reply(http.StatusOK, obj{"data": obj{"status": "premium"}}))
	})
	svc := NewBillingService(gw, normalize.DefaultOrder)
	ctx := context.Background()

	msg, err := svc.VerifyPayment(ctx, models.PaymentResult{OrderID: "o", PaymentID: "p", Signature: "s"})
	require.NoError(t, err)
	assert.Equal(t, "Payment verified", msg)

	_, err = svc.VerifyPayment(ctx, models.PaymentResult{OrderID: "o", PaymentID: "p", Signature: "bad"})
	require.Error(t, err)
	assert.Equal(t, "Signature mismatch", common.UserMessage(err, "Verification failed"))

	st, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.IsPremium)
}
