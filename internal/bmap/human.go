package bmap

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer groups large decimal numbers ("262,144") in document commentaries.
var printer = message.NewPrinter(language.AmericanEnglish)

func humanCount(n uint64) string {
	return printer.Sprintf("%d", n)
}

// humanSize formats a byte count in IEC units with one decimal, the way
// existing bmap tooling displays sizes in commentaries.
func humanSize(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d bytes", n)
	}
	div, exp := uint64(unit), 0
	for n/div >= unit && exp < 5 {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func humanPercent(n, d uint64) string {
	if d == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(d))
}
