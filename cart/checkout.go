package cart

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

func rupees(d decimal.Decimal) string {
	return "₹" + d.String()
}

func describe(it Item) string {
	if it.Volume == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", it.Volume)
}

// ComposeMessage renders the cart as the WhatsApp order text.
func ComposeMessage(storeName string, items []Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s! 👋 I would like to order:\n\n", storeName)
	for i, it := range items {
		fmt.Fprintf(&b, "%d. *%s*%s (x%d) - %s\n", i+1, it.Name, describe(it), it.Quantity, rupees(it.Subtotal()))
	}
	fmt.Fprintf(&b, "\n*Total Items: %d*", Count(items))
	fmt.Fprintf(&b, "\n*Total Order Value: %s*", rupees(Total(items)))
	b.WriteString("\n\nPlease confirm availability and delivery details. Thanks!")
	return b.String()
}

// ComposeBuyNow renders the single product order sent from a product page.
func ComposeBuyNow(storeName string, item Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s!\n\nI would like to order:\n\n", storeName)
	fmt.Fprintf(&b, "1. %s%s (x%d) - %s\n", item.Name, describe(item), item.Quantity, rupees(item.Subtotal()))
	fmt.Fprintf(&b, "\nTotal Order Value: %s", rupees(item.Subtotal()))
	b.WriteString("\n\nPlease confirm availability and delivery details. Thanks!")
	return b.String()
}

// WhatsAppURL builds the wa.me link. Non-digits are stripped from number.
func WhatsAppURL(number, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, text)
}
