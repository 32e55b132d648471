package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/cloudshare/internal/client/models"
	"github.com/dmitrijs2005/cloudshare/internal/client/payment"
)

// Upgrade runs the premium checkout. An order left ready by an earlier,
// abandoned attempt is offered again instead of creating a new one.
func (a *App) Upgrade(ctx context.Context) error {
	if u, _ := a.state.User(); u.IsPremium {
		printlnFn("You are already a premium member")
		return nil
	}

	order, ok := a.checkout.Order()
	if !ok || a.checkout.State() != payment.OrderReady {
		var err error
		if order, err = a.checkout.Start(ctx); err != nil {
			return err
		}
	}

	printlnFn(fmt.Sprintf("%s: %s", order.Name, payment.Price(order.Amount, order.Currency)))
	if order.Description != "" {
		printlnFn(order.Description)
	}
	if !Confirm(a.reader, "Proceed to payment?", a.out) {
		return nil
	}
	if err := a.checkout.Open(ctx); err != nil {
		return err
	}
	if a.checkout.State() == payment.Completed {
		a.showQuota(ctx)
	}
	return nil
}

// terminalWidget is the checkout surface of the CLI. The customer types the
// payment id and signature they got from the payment page.
type terminalWidget struct {
	reader *bufio.Reader
	out    io.Writer
}

func newTerminalWidget(reader *bufio.Reader, out io.Writer) *terminalWidget {
	return &terminalWidget{reader: reader, out: out}
}

// Open blocks until the customer picks an outcome, then fires exactly one
// callback. Callback errors are reported by the orchestrator itself.
func (w *terminalWidget) Open(opts payment.Options, cb payment.Callbacks) error {
	fmt.Fprintf(w.out, "Order %s: %s\n", opts.OrderID, opts.Price)
	if opts.Prefill.Email != "" {
		fmt.Fprintf(w.out, "Paying as %s <%s>\n", opts.Prefill.Name, opts.Prefill.Email)
	}

	choice, err := getSimpleText(w.reader, "(p)aid, (f)ailed or (c)ancel", w.out)
	if err != nil {
		return err
	}

	switch strings.ToLower(choice) {
	case "p", "paid":
		paymentID, err := getSimpleText(w.reader, "Payment id", w.out)
		if err != nil {
			return err
		}
		signature, err := getSimpleText(w.reader, "Signature", w.out)
		if err != nil {
			return err
		}
		_ = cb.Success(models.PaymentResult{OrderID: opts.OrderID, PaymentID: paymentID, Signature: signature})
	case "f", "failed":
		reason, err := getSimpleText(w.reader, "Reason (optional)", w.out)
		if err != nil {
			return err
		}
		_ = cb.Failure(reason)
	default:
		_ = cb.Dismiss()
	}
	return nil
}

func (w *terminalWidget) Close() {
	fmt.Fprintln(w.out, "Payment window closed")
}
