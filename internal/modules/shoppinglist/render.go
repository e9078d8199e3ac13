package shoppinglist

import (
	"fmt"
	"strings"
	"time"
)

// RenderText formats items as the downloadable plain-text shopping list.
// Totals are printed without trailing zeros.
func RenderText(owner string, date time.Time, items []Item) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for %s\n", owner)
	fmt.Fprintf(&b, "Date: %s\n\n", date.Format("2006-01-02"))
	for _, it := range items {
		fmt.Fprintf(&b, " - %s (%s) - %s\n", it.Name, it.MeasurementUnit, it.Total.String())
	}
	fmt.Fprintf(&b, "\nFoodgram %d\n", date.Year())
	return []byte(b.String())
}
