package normalize

import (
	"strings"

	"github.com/dmitrijs2005/cloudshare/internal/client/models"
)

// MajorUnitThreshold is the amount below which a default-currency order
// amount is read as major units (rupees) rather than minor units (paise).
//
// The rule is ambiguous for genuine orders under 10 rupees expressed in
// paise; those get scaled up by 100. It is kept because backends in the wild
// send both forms.
const MajorUnitThreshold = 1000

// OrderDefaults fills order fields the backend left out.
type OrderDefaults struct {
	Currency    string
	Key         string
	Name        string
	Description string
}

// DefaultOrder carries the defaults used when nothing is configured.
var DefaultOrder = OrderDefaults{
	Currency:    "INR",
	Name:        "CloudShare Premium",
	Description: "Premium subscription",
}

var (
	orderIDKeys       = Keys{"orderId", "id", "order_id", "razorpayOrderId", "order.id"}
	orderMinorKeys    = Keys{"amountMinor"}
	orderAmountKeys   = Keys{"amount", "amountDue", "amount_due", "order.amount"}
	orderCurrencyKeys = Keys{"currency", "curr", "order.currency"}
	orderKeyKeys      = Keys{"key", "razorpayKey", "key_id", "keyId"}
	orderNameKeys     = Keys{"name", "planName"}
	orderDescKeys     = Keys{"description", "desc"}
	orderReceiptKeys  = Keys{"receipt", "order.receipt"}
	orderNotesKeys    = Keys{"notes", "order.notes"}

	proofOrderKeys     = Keys{"razorpay_order_id", "orderId"}
	proofPaymentKeys   = Keys{"razorpay_payment_id", "paymentId"}
	proofSignatureKeys = Keys{"razorpay_signature", "signature"}
)

// MinorUnits converts a backend amount to the minor currency unit.
// Non-positive amounts become 0. In the default currency an amount under
// MajorUnitThreshold is taken as major units and multiplied by 100; any
// other amount is assumed to already be in minor units.
func MinorUnits(amount float64, currency, defaultCurrency string) int64 {
	v := roundHalfUp(amount)
	if v <= 0 {
		return 0
	}
	if currency == "" {
		currency = defaultCurrency
	}
	if strings.EqualFold(currency, defaultCurrency) && v < MajorUnitThreshold {
		return v * 100
	}
	return v
}

// Order normalizes an order-creation response. An amount already stored under
// the canonical amountMinor key bypasses the major-unit heuristic, so
// normalizing a canonical order is stable.
func Order(env Node, def OrderDefaults) models.Order {
	n := Payload(env)
	if def.Currency == "" {
		def.Currency = DefaultOrder.Currency
	}
	o := models.Order{
		OrderID:     orderIDKeys.TextOr(n, ""),
		Currency:    strings.ToUpper(orderCurrencyKeys.TextOr(n, def.Currency)),
		Key:         orderKeyKeys.TextOr(n, def.Key),
		Name:        orderNameKeys.TextOr(n, firstNonEmpty(def.Name, DefaultOrder.Name)),
		Description: orderDescKeys.TextOr(n, firstNonEmpty(def.Description, DefaultOrder.Description)),
		Receipt:     orderReceiptKeys.TextOr(n, ""),
	}
	if minor, ok := orderMinorKeys.Number(n); ok {
		o.Amount = max(roundHalfUp(minor), 0)
	} else if amount, ok := orderAmountKeys.Number(n); ok {
		o.Amount = MinorUnits(amount, o.Currency, def.Currency)
	}
	if notes, ok := orderNotesKeys.In(n); ok {
		for k, v := range notes.Fields() {
			if s, ok := v.Text(); ok {
				if o.Notes == nil {
					o.Notes = make(map[string]string)
				}
				o.Notes[k] = s
			}
		}
	}
	return o
}

// PaymentProof normalizes the success payload handed back by the payment
// widget.
func PaymentProof(n Node) models.PaymentResult {
	return models.PaymentResult{
		OrderID:   proofOrderKeys.TextOr(n, ""),
		PaymentID: proofPaymentKeys.TextOr(n, ""),
		Signature: proofSignatureKeys.TextOr(n, ""),
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
