package siteconfig

// GenericKey is the key of the fallback configuration the resolver returns
// when nothing else matches.
const GenericKey = "generic"

// builtinConfigs returns the site profiles compiled into the binary. A site
// configuration file extends or overrides these; the generic profile is
// always present so Resolve never fails.
func builtinConfigs() map[string]SiteConfig {
	configs := map[string]SiteConfig{
		GenericKey: {
			Key:  GenericKey,
			Name: "Generic",
			Selectors: Selectors{
				Container: []string{".product", "[itemtype*='Product']", ".product-card", ".product-item"},
				Title:     []string{"h2", "h3", ".title", ".name"},
				Price:     []string{"[class*='price']", ".amount"},
				Discount:  []string{"[class*='discount']", "[class*='sale']"},
				Image:     []string{"img"},
				Link:      []string{"a[href]"},
				NextPage:  []string{"a[rel='next']", ".next", "a.next"},
			},
			WaitFor: ".product",
			PageCap: 5,
		},
		"amazon.com": {
			Key:  "amazon.com",
			Name: "Amazon",
			Selectors: Selectors{
				Container: []string{"div.s-result-item[data-component-type='s-search-result']", "div.s-result-item"},
				Title:     []string{"h2 a span", "h2 span", "span.a-text-normal"},
				Price:     []string{"span.a-price span.a-offscreen", "span.a-price-whole"},
				Discount:  []string{"span.a-letter-space + span", "span.savingsPercentage"},
				Image:     []string{"img.s-image"},
				Link:      []string{"h2 a", "a.a-link-normal"},
				NextPage:  []string{"a.s-pagination-next"},
			},
			WaitFor: "div.s-result-item",
			PageCap: 3,
		},
		"ebay.com": {
			Key:  "ebay.com",
			Name: "eBay",
			Selectors: Selectors{
				Container: []string{"li.s-item", "div.s-item__wrapper"},
				Title:     []string{"div.s-item__title span", "div.s-item__title"},
				Price:     []string{"span.s-item__price"},
				Discount:  []string{"span.s-item__discount"},
				Image:     []string{"div.s-item__image img", "img.s-item__image-img"},
				Link:      []string{"a.s-item__link"},
				NextPage:  []string{"a.pagination__next"},
			},
			WaitFor: "li.s-item",
			PageCap: 3,
		},
		"jumia.com.ng": {
			Key:  "jumia.com.ng",
			Name: "Jumia",
			Selectors: Selectors{
				Container: []string{"article.prd", "article.c-prd"},
				Title:     []string{"h3.name", "div.name"},
				Price:     []string{"div.prc"},
				Discount:  []string{"div.bdg._dsct", "div.bdg"},
				Image:     []string{"img.img"},
				Link:      []string{"a.core"},
				NextPage:  []string{"a[aria-label='Next Page']", "a.pg[aria-label='Next Page']"},
			},
			WaitFor: "article.prd",
			PageCap: 5,
		},
		"shopify": {
			Key:  "shopify",
			Name: "Shopify",
			Selectors: Selectors{
				Container: []string{".product-card", ".grid__item", ".grid-product", "[data-product-card]"},
				Title:     []string{".product-card__title", ".grid-product__title", ".product-item__title", "h3"},
				Price:     []string{".price", ".product-card__price", ".grid-product__price", "[class*='price']"},
				Discount:  []string{".price--on-sale", "[class*='sale']", "[class*='discount']"},
				Image:     []string{"img"},
				Link:      []string{"a[href*='/products/']", "a[href]"},
				NextPage:  []string{"a[rel='next']", ".pagination__next a", ".next a"},
			},
			WaitFor: ".product-card",
			PageCap: 5,
		},
		"woocommerce": {
			Key:  "woocommerce",
			Name: "WooCommerce",
			Selectors: Selectors{
				Container: []string{"li.product", "ul.products li"},
				Title:     []string{"h2.woocommerce-loop-product__title", "h2"},
				Price:     []string{"span.woocommerce-Price-amount", "span.price"},
				Discount:  []string{"span.onsale"},
				Image:     []string{"img.attachment-woocommerce_thumbnail", "img"},
				Link:      []string{"a.woocommerce-LoopProduct-link", "a[href]"},
				NextPage:  []string{"a.next.page-numbers"},
			},
			WaitFor: "li.product",
			PageCap: 5,
		},
	}

	for key, cfg := range configs {
		cfg.normalize()
		configs[key] = cfg
	}
	return configs
}
