package render

import "fmt"

// currencySymbols covers the currencies the storefront sells in. Codes
// outside this table fall back to "<amount> <code>" instead of failing
// the whole render.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "CA$",
	"AUD": "A$",
	"INR": "₹",
	"KES": "KSh ",
	"NGN": "₦",
	"ZAR": "R",
	"AED": "AED ",
	"SAR": "SAR ",
}

// formatAmount renders a monetary amount with its currency symbol,
// e.g. 42.5 USD -> "$42.50". Unknown codes degrade to "42.50 XYZ".
func formatAmount(amount float64, code string) string {
	if sym, ok := currencySymbols[code]; ok {
		return fmt.Sprintf("%s%.2f", sym, amount)
	}
	if code == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return fmt.Sprintf("%.2f %s", amount, code)
}
