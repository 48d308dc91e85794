package siteconfig

import (
	"strings"

	"productworker/helpers"
)

// platformSignatures maps hostname fragments to shared platform templates.
// Checked only after exact key matching fails.
var platformSignatures = []struct {
	fragments []string
	key       string
}{
	{fragments: []string{"amazon."}, key: "amazon.com"},
	{fragments: []string{"ebay."}, key: "ebay.com"},
	{fragments: []string{"jumia."}, key: "jumia.com.ng"},
	{fragments: []string{"myshopify.", ".shop"}, key: "shopify"},
	{fragments: []string{"woocommerce", "wp-shop"}, key: "woocommerce"},
}

// Resolve maps a URL to the site configuration that should drive its
// extraction. Matching order: exact registered-domain match, then hostname
// platform signature, then the generic fallback. It never fails; an
// unparsable URL resolves to the generic profile.
func (s *Store) Resolve(rawURL string) SiteConfig {
	domain, err := helpers.RegisteredDomain(rawURL)
	if err != nil {
		return s.Generic()
	}

	if cfg, ok := s.Get(domain); ok {
		return cfg
	}

	for _, sig := range platformSignatures {
		for _, fragment := range sig.fragments {
			if strings.Contains(domain, fragment) {
				if cfg, ok := s.Get(sig.key); ok {
					return cfg
				}
			}
		}
	}

	return s.Generic()
}
