package scrape

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// priceTokenRe matches the first number-like run in a price string: digits
// with optional grouping/decimal separators, spaces, or apostrophes.
var priceTokenRe = regexp.MustCompile(`\d[\d.,' ]*\d|\d`)

// discountDenyList collapses placeholder discount strings to null.
var discountDenyList = map[string]bool{
	"":    true,
	"-":   true,
	"n/a": true,
	"na":  true,
}

// ParsePrice extracts the first numeric substring of raw and parses it with
// a locale-agnostic separator heuristic: the last separator followed by
// exactly one or two digits is the decimal point, every other separator is
// thousands grouping. Strings with no numeric content yield nil.
func ParsePrice(raw string) *float64 {
	token := priceTokenRe.FindString(raw)
	if token == "" {
		return nil
	}

	// Spaces and apostrophes only ever group thousands
	token = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\'' {
			return -1
		}
		return r
	}, token)

	lastSep := strings.LastIndexAny(token, ".,")
	decimalAt := -1
	if lastSep >= 0 {
		trailing := len(token) - lastSep - 1
		if trailing >= 1 && trailing <= 2 {
			decimalAt = lastSep
		}
	}

	var b strings.Builder
	for i, r := range token {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case i == decimalAt:
			b.WriteByte('.')
		}
	}

	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return nil
	}
	return &value
}

// NormalizeTitle trims and collapses internal whitespace.
func NormalizeTitle(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// NormalizeDiscount trims the raw discount text, collapsing placeholder
// values to nil.
func NormalizeDiscount(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if discountDenyList[strings.ToLower(trimmed)] {
		return nil
	}
	return &trimmed
}

// AbsolutizeURL resolves ref against base and returns the absolute form.
// A result without an http(s) scheme is rejected as nil.
func AbsolutizeURL(base, ref string) *string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return nil
	}

	resolved := baseURL.ResolveReference(refURL)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil
	}
	out := resolved.String()
	return &out
}

// NormalizeRecord converts one raw record into its typed final form.
func NormalizeRecord(raw RawProductRecord, baseURL string, sourcePage int) ProductRecord {
	return ProductRecord{
		Title:      NormalizeTitle(raw.Title),
		Price:      ParsePrice(raw.Price),
		Discount:   NormalizeDiscount(raw.Discount),
		URL:        AbsolutizeURL(baseURL, raw.Link),
		Image:      AbsolutizeURL(baseURL, raw.Image),
		SourcePage: sourcePage,
	}
}
