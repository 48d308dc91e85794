package scrape

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// minRepetition is the minimum number of structurally repeated siblings a
// candidate container pattern must show before auto-detection trusts it.
const minRepetition = 3

// priceLikeRe spots currency-bearing text: a currency mark next to digits,
// or a decimal amount followed by a currency mark.
var priceLikeRe = regexp.MustCompile(`[$€£¥₦₹]\s*\d|\d+[.,]\d{2}\s*[$€£¥₦₹]`)

// priceSnippetRe captures the full currency amount, not just the leading edge.
var priceSnippetRe = regexp.MustCompile(`[$€£¥₦₹]\s*\d[\d.,]*|\d+[.,]\d{2}\s*[$€£¥₦₹]`)

// priceSnippet returns the first currency-bearing substring of the
// container's text, or "".
func priceSnippet(container *goquery.Selection) string {
	return strings.TrimSpace(priceSnippetRe.FindString(container.Text()))
}

// containerTags are the elements considered as product container candidates.
var containerTags = map[string]bool{
	"div":     true,
	"article": true,
	"li":      true,
	"section": true,
}

// productClassPatterns are class fragments that commonly mark product cards.
var productClassPatterns = []string{
	"product-card", "product-item", "product-box", "product-tile",
	"grid-product", "list-product", "search-result", "s-result-item",
}

// DetectContainers infers the product container pattern of an unknown page.
// Strategy, in order: schema.org Product markup, well-known product class
// fragments, then the repetition heuristic: the most frequent element
// signature among the closest container ancestors of price-like text nodes,
// requiring at least minRepeat occurrences. Returns nil when nothing
// qualifies.
func DetectContainers(doc *goquery.Document, minRepeat int) *goquery.Selection {
	if sel := doc.Find("[itemtype*='Product']"); sel.Length() >= minRepeat {
		return sel
	}

	for _, pattern := range productClassPatterns {
		if sel := doc.Find("[class*='" + pattern + "']"); sel.Length() >= minRepeat {
			return sel
		}
	}

	signature := dominantPriceSignature(doc, minRepeat)
	if signature == "" {
		return nil
	}
	if sel := doc.Find(signature); sel.Length() >= minRepeat {
		return sel
	}
	return nil
}

// dominantPriceSignature walks the raw node tree looking for text nodes with
// price-like content, climbs to the nearest container-tag ancestor, and
// counts ancestor signatures. The most frequent signature with at least
// minRepeat hits wins.
func dominantPriceSignature(doc *goquery.Document, minRepeat int) string {
	counts := make(map[string]int)

	for _, root := range doc.Nodes {
		var walk func(n *html.Node)
		walk = func(n *html.Node) {
			if n.Type == html.TextNode && priceLikeRe.MatchString(n.Data) {
				if parent := closestContainer(n); parent != nil {
					counts[elementSignature(parent)]++
				}
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(root)
	}

	best, bestCount := "", 0
	// Deterministic pick when counts tie
	signatures := make([]string, 0, len(counts))
	for sig := range counts {
		signatures = append(signatures, sig)
	}
	sort.Strings(signatures)
	for _, sig := range signatures {
		if counts[sig] > bestCount {
			best, bestCount = sig, counts[sig]
		}
	}

	if bestCount < minRepeat {
		return ""
	}
	return best
}

// closestContainer returns the nearest ancestor whose tag is a plausible
// product container.
func closestContainer(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && containerTags[p.Data] {
			return p
		}
	}
	return nil
}

// elementSignature builds a CSS selector identifying elements like n:
// class-based when classes exist, then id, then bare tag name.
func elementSignature(n *html.Node) string {
	var id string
	for _, attr := range n.Attr {
		switch attr.Key {
		case "class":
			classes := strings.Fields(attr.Val)
			if len(classes) > 0 {
				return n.Data + "." + strings.Join(classes, ".")
			}
		case "id":
			id = attr.Val
		}
	}
	if id != "" {
		return "#" + id
	}
	return n.Data
}
