package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	TimestampLayout = "1/2/2006, 3:04:05 PM"
	DateLayout      = "1/2/2006"
)

// ExpandCamel turns a camelCase key into a spaced, capitalized label:
// "overallScore" becomes "Overall Score".
func ExpandCamel(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCell renders a cell value the way it appears in csv and pdf output.
func FormatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(TimestampLayout)
	case interface{ String() string }:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// clock formats times in the report's presentation timezone.
type clock struct {
	loc *time.Location
}

func (c clock) timestamp(t time.Time) string {
	return t.In(c.location()).Format(TimestampLayout)
}

func (c clock) date(t time.Time) string {
	return t.In(c.location()).Format(DateLayout)
}

func (c clock) location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}
