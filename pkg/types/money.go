package types

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/retailpos/backoffice/pkg/enums"
)

var currencySymbols = map[enums.Currency]string{
	enums.CurrencyUSD: "$",
	enums.CurrencyEUR: "€",
	enums.CurrencySAR: "SAR ",
}

// FormatMoney renders an amount in the single configured display currency.
// Every surface uses this helper so invoices and list views agree on the
// currency they show.
func FormatMoney(amount decimal.Decimal, currency enums.Currency) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = string(currency) + " "
	}
	return fmt.Sprintf("%s%s", symbol, amount.StringFixed(2))
}

// MoneyNonNegative reports whether the amount is zero or greater.
func MoneyNonNegative(amount decimal.Decimal) bool {
	return !amount.IsNegative()
}
