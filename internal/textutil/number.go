// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textutil

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var groupingPrinter = message.NewPrinter(language.English)

// FormatInt renders n in base 10, with thousands separators when group is set.
func FormatInt(n int64, group bool) string {
	if !group {
		return strconv.FormatInt(n, 10)
	}
	return groupingPrinter.Sprintf("%d", n)
}
