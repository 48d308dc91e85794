package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"productworker/internal/render"
	"productworker/internal/siteconfig"
	"productworker/pkg/errors"
)

// firstMatch tries each candidate selector in order against scope and
// returns the selection of the first candidate that matches at least one
// element. An invalid selector is skipped, not fatal.
func firstMatch(scope *goquery.Selection, candidates []string) *goquery.Selection {
	for _, selector := range candidates {
		var matched *goquery.Selection
		func() {
			// cascadia panics on some malformed selectors
			defer func() { _ = recover() }()
			matched = scope.Find(selector)
		}()
		if matched != nil && matched.Length() > 0 {
			return matched
		}
	}
	return nil
}

// fieldText returns the text of the first matching candidate, or "".
func fieldText(container *goquery.Selection, candidates []string) string {
	sel := firstMatch(container, candidates)
	if sel == nil {
		return ""
	}
	return strings.TrimSpace(sel.First().Text())
}

// fieldAttr returns the named attribute of the first matching candidate.
func fieldAttr(container *goquery.Selection, candidates []string, attrs ...string) string {
	sel := firstMatch(container, candidates)
	if sel == nil {
		return ""
	}
	for _, attr := range attrs {
		if value, ok := sel.First().Attr(attr); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// ParseSnapshot parses a rendered snapshot into a queryable document.
func ParseSnapshot(snap *render.PageSnapshot) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snap.HTML))
	if err != nil {
		return nil, errors.NewExtraction(snap.URL, "failed to parse rendered document", err)
	}
	return doc, nil
}

// ExtractProducts locates product containers in doc using the configured
// candidate selectors and pulls the raw field strings out of each one. When
// no configured container selector matches and autoDetect is set, the
// repetition heuristic takes over. Zero containers is not an error; it
// signals "no products on this page".
func ExtractProducts(doc *goquery.Document, cfg siteconfig.SiteConfig, autoDetect bool) []RawProductRecord {
	containers := firstMatch(doc.Selection, cfg.Selectors.Container)

	selectors := cfg.Selectors
	detected := false
	if containers == nil && autoDetect {
		containers = DetectContainers(doc, minRepetition)
		// Detected containers carry no field profile; fall back to the
		// broad generic candidates for the fields themselves.
		selectors = genericFieldSelectors(selectors)
		detected = true
	}
	if containers == nil {
		return nil
	}

	var records []RawProductRecord
	containers.Each(func(i int, container *goquery.Selection) {
		raw := RawProductRecord{
			Title:    fieldText(container, selectors.Title),
			Price:    fieldText(container, selectors.Price),
			Discount: fieldText(container, selectors.Discount),
			Image:    fieldAttr(container, selectors.Image, "src", "data-src"),
			Link:     fieldAttr(container, selectors.Link, "href"),
		}
		if detected && raw.Price == "" {
			// Detected containers were chosen because they hold price-like
			// text; pull it straight from the container when no price
			// element carries a recognizable class.
			raw.Price = priceSnippet(container)
		}
		// A container with neither title nor price is layout noise
		if raw.Title == "" && raw.Price == "" {
			return
		}
		records = append(records, raw)
	})

	return records
}

// NextPageURL finds the next-page control and returns its raw href, or ""
// when pagination ends here.
func NextPageURL(doc *goquery.Document, cfg siteconfig.SiteConfig) string {
	sel := firstMatch(doc.Selection, cfg.Selectors.NextPage)
	if sel == nil {
		return ""
	}
	href, _ := sel.First().Attr("href")
	return strings.TrimSpace(href)
}

// genericFieldSelectors widens empty field candidate lists with the broad
// generic ones so auto-detected containers still yield fields.
func genericFieldSelectors(base siteconfig.Selectors) siteconfig.Selectors {
	generic := siteconfig.Selectors{
		Title:    []string{"h1", "h2", "h3", "h4", "[class*='title']", "[class*='name']"},
		Price:    []string{"[class*='price']", "[class*='amount']", "[class*='cost']"},
		Discount: []string{"[class*='discount']", "[class*='sale']"},
		Image:    []string{"img"},
		Link:     []string{"a[href]"},
	}
	out := base
	if len(out.Title) == 0 {
		out.Title = generic.Title
	} else {
		out.Title = append(append([]string{}, out.Title...), generic.Title...)
	}
	if len(out.Price) == 0 {
		out.Price = generic.Price
	} else {
		out.Price = append(append([]string{}, out.Price...), generic.Price...)
	}
	if len(out.Discount) == 0 {
		out.Discount = generic.Discount
	}
	if len(out.Image) == 0 {
		out.Image = generic.Image
	}
	if len(out.Link) == 0 {
		out.Link = generic.Link
	}
	return out
}
