package book

import (
	"strings"

	"github.com/cleared-dev/cashbook/internal/model"
)

type isoEntry struct {
	name     string
	fraction int64
}

// a subset of ISO 4217; fraction is 10^minor-unit digits
var isoCurrencies = map[string]isoEntry{
	"AUD": {"Australian Dollar", 100},
	"BHD": {"Bahraini Dinar", 1000},
	"CAD": {"Canadian Dollar", 100},
	"CHF": {"Swiss Franc", 100},
	"CNY": {"Yuan Renminbi", 100},
	"CZK": {"Czech Koruna", 100},
	"DKK": {"Danish Krone", 100},
	"EUR": {"Euro", 100},
	"GBP": {"Pound Sterling", 100},
	"HKD": {"Hong Kong Dollar", 100},
	"INR": {"Indian Rupee", 100},
	"JPY": {"Yen", 1},
	"KRW": {"Won", 1},
	"KWD": {"Kuwaiti Dinar", 1000},
	"MXN": {"Mexican Peso", 100},
	"NOK": {"Norwegian Krone", 100},
	"NZD": {"New Zealand Dollar", 100},
	"PLN": {"Zloty", 100},
	"SEK": {"Swedish Krona", 100},
	"SGD": {"Singapore Dollar", 100},
	"USD": {"US Dollar", 100},
	"ZAR": {"Rand", 100},
}

// ISOCurrency returns a new commodity for an ISO 4217 code from the built-in table.
func ISOCurrency(mnemonic string) (*model.Commodity, bool) {
	code := strings.ToUpper(mnemonic)
	e, ok := isoCurrencies[code]
	if !ok {
		return nil, false
	}
	return model.NewCurrency(code, e.name, e.fraction), true
}
