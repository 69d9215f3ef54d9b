package alerts

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// DefaultCurrency is prefixed to prices when an alert carries none.
const DefaultCurrency = "R$"

var markdownEscaper = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"`", "\\`",
	"[", `\[`,
)

// FormatPrice renders an amount with thousands grouping and two decimals.
func FormatPrice(currency string, amount float64) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	return currency + " " + humanize.FormatFloat("#,###.##", amount)
}

// FormatMessage builds the Markdown chat message for an alert.
func FormatMessage(alert Alert) string {
	var b strings.Builder
	b.WriteString("📢 *Price dropped!*\n\n")
	fmt.Fprintf(&b, "*Product:* %s\n", markdownEscaper.Replace(alert.ProductName))
	fmt.Fprintf(&b, "*💰 Current price:* %s\n", FormatPrice(alert.Currency, alert.Price))
	if alert.DesiredPrice > 0 {
		fmt.Fprintf(&b, "*🎯 Target:* %s\n", FormatPrice(alert.Currency, alert.DesiredPrice))
	}
	fmt.Fprintf(&b, "\n🔗 [Open the product page](%s)", alert.URL)
	return b.String()
}
