package parser

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

const (
	// metaScanLines is how many leading lines are searched for the BDI
	// rate and the work title.
	metaScanLines = 80
	// titleFallbackLines bounds the search for a fallback title.
	titleFallbackLines = 50
)

var (
	percentPattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*%`)
	workWord       = regexp.MustCompile(`(?i)\bobra\b[:\s-]*`)
)

// ExtractMeta reads the work title and the global BDI rate from the first
// lines of a sheet.
//
// The first percentage found is the BDI, returned as a fraction rounded to
// six places. The title comes from the last line mentioning "obra" that is
// neither indexed nor priced, with that word and any percentage removed;
// failing that, the first line with letters and at most two digits is used.
func ExtractMeta(lines []string) (name *string, bdi *float64) {
	for i, line := range lines {
		if i >= metaScanLines {
			break
		}

		if bdi == nil {
			if m := percentPattern.FindStringSubmatch(line); m != nil {
				if v, ok := parsePercent(m[1]); ok {
					rate := math.Round(v/100*1e6) / 1e6
					bdi = &rate
				}
			}
		}

		if strings.Contains(strings.ToLower(line), "obra") && !indexAtStart.MatchString(line) && !isPricedLine(line) {
			part := strings.TrimSpace(workWord.ReplaceAllString(line, ""))
			if loc := percentPattern.FindStringIndex(part); loc != nil {
				part = strings.Trim(part[:loc[0]], " -:\t")
			}
			if part != "" && hasLetter(part) {
				title := part
				name = &title
			}
		}
	}

	if name == nil {
		for i, line := range lines {
			if i >= titleFallbackLines {
				break
			}
			if countDigits(line) <= 2 && hasLetter(line) {
				title := strings.TrimSpace(line)
				name = &title
				break
			}
		}
	}

	return name, bdi
}

// parsePercent reads the numeric part of a percentage. A lone dot is a
// decimal separator here ("15.5%"), not a thousands separator.
func parsePercent(s string) (float64, bool) {
	if !strings.Contains(s, ",") {
		s = strings.Replace(s, ".", ",", 1)
	}
	return ParseNumber(s)
}

// isPricedLine reports whether a joined row ends in three numbers, as item
// rows do ("... Mão de obra h 10 20,00 200,00").
func isPricedLine(line string) bool {
	return IsTabular(strings.Fields(line))
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
