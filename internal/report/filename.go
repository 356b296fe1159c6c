package report

import (
	"fmt"
	"strings"
	"time"
)

// Filename builds "<Label-with-hyphens>-<YYYY-MM-DD>.<ext>" using the UTC
// date of at.
func Filename(typeID string, format Format, at time.Time) string {
	label := strings.ReplaceAll(Label(typeID), " ", "-")
	return fmt.Sprintf("%s-%s.%s", label, at.UTC().Format("2006-01-02"), format.Extension())
}
