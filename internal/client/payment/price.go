package payment

import (
	"fmt"
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Price formats an amount in minor units for display, e.g. "INR 499.00".
func Price(amountMinor int64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %.2f", code, float64(amountMinor)/100)
	}
	scale, _ := currency.Standard.Rounding(unit)
	major := float64(amountMinor) / math.Pow10(scale)
	return printer.Sprint(currency.ISO(unit.Amount(major)))
}
