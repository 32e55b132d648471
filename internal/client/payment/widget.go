package payment

import "github.com/dmitrijs2005/cloudshare/internal/client/models"

// Prefill is the customer data shown in the widget.
type Prefill struct {
	Name  string
	Email string
}

// Options is what the widget is opened with.
type Options struct {
	Key         string
	OrderID     string
	Amount      int64
	Currency    string
	Price       string
	Name        string
	Description string
	Prefill     Prefill
	Notes       map[string]string
}

// Callbacks are bound to one order. The widget calls exactly one of them
// when the customer finishes; calls from a widget whose order is no longer
// current are rejected.
type Callbacks struct {
	Success func(proof models.PaymentResult) error
	Failure func(reason string) error
	Dismiss func() error
}

// Widget is the third-party checkout surface.
type Widget interface {
	// Open shows the widget. It may return before or after a callback fired.
	Open(opts Options, cb Callbacks) error
	Close()
}
