package utils

import (
	"strconv"
	"strings"
)

// FormatEUR formats an amount in euro cents as a string like "€12.50".
// Used in email bodies and payment descriptions.
func FormatEUR(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}

	euros := cents / 100
	rem := cents % 100

	var b strings.Builder
	if neg {
		b.WriteString("-€")
	} else {
		b.WriteString("€")
	}
	b.WriteString(strconv.FormatInt(euros, 10))
	b.WriteByte('.')
	if rem < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(rem, 10))

	return b.String()
}
