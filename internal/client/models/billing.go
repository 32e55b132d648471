package models

// Order is one checkout attempt. Amount is always in the minor currency unit
// (paise for INR). An order is never reused across attempts.
type Order struct {
	OrderID     string            `json:"orderId,omitempty"`
	Amount      int64             `json:"amountMinor"`
	Currency    string            `json:"currency"`
	Key         string            `json:"key,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Receipt     string            `json:"receipt,omitempty"`
	Notes       map[string]string `json:"notes,omitempty"`
}

// PaymentResult is the proof the payment gateway hands back on success.
// It is used exactly once, to call the verification endpoint.
type PaymentResult struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// BillingStatus is the premium entitlement as reported by the backend.
type BillingStatus struct {
	IsPremium bool `json:"isPremium"`
}
