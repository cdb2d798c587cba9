package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// numberPattern finds a Brazilian-formatted number inside free text.
	numberPattern = regexp.MustCompile(`[-+]?\d{1,3}(?:\.\d{3})*(?:,\d+)?|\d+(?:,\d+)?`)
	// plainNumberPattern accepts the strings strconv may read after
	// separator substitution, keeping out "inf", "NaN" and hex literals.
	plainNumberPattern = regexp.MustCompile(`^[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?$`)
)

// ParseNumber parses a number written in Brazilian locale ("1.234,56").
// Plain numerals ("200", "10,5") are accepted too. When the token does not
// read as a whole, the first number embedded in it is used, so "R$ 25,00"
// yields 25. Blank or unparseable tokens return false.
func ParseNumber(token string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(token, "\u00a0", " "))
	if s == "" {
		return 0, false
	}

	if f, ok := parsePlain(toPlain(s)); ok {
		return f, true
	}

	m := numberPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	return parsePlain(toPlain(m))
}

// NumberFromValue converts a cell value to a float. Numeric primitives are
// taken as is and strings go through ParseNumber.
func NumberFromValue(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		return ParseNumber(n)
	default:
		return 0, false
	}
}

// FormatNumber writes f in the form ParseNumber reads back exactly:
// no thousands grouping and a comma as decimal separator.
func FormatNumber(f float64) string {
	return strings.Replace(strconv.FormatFloat(f, 'f', -1, 64), ".", ",", 1)
}

func toPlain(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
}

func parsePlain(s string) (float64, bool) {
	if !plainNumberPattern.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func floatPtr(f float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &f
}
