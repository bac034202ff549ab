package extract

import "strings"

// SiteConfig holds per-domain extraction selectors, tried in order before
// falling back to the generic heuristics. Extending coverage to a new shop
// means adding an entry here, not touching extraction code.
type SiteConfig struct {
	// Domain is matched as a substring of the target URL's host.
	Domain string

	TitleSelectors []string
	PriceSelectors []string
	ImageSelectors []string
}

var siteConfigs = []SiteConfig{
	{
		Domain:         "amazon.",
		TitleSelectors: []string{"span#productTitle", "h1#title"},
		PriceSelectors: []string{"span.a-price span.a-offscreen", "span#priceblock_ourprice", "span#priceblock_dealprice", "span.a-price-whole"},
		ImageSelectors: []string{"img#landingImage", "div#imgTagWrapperId img", "img#main-image"},
	},
	{
		Domain:         "etsy.com",
		TitleSelectors: []string{"h1[data-buy-box-listing-title]", "h1.wt-text-body-01"},
		PriceSelectors: []string{"div[data-buy-box-region=price] p.wt-text-title-larger", "p.wt-text-title-03"},
		ImageSelectors: []string{"img[data-carousel-first-image]", "div.image-carousel-container img"},
	},
	{
		Domain:         "bestbuy.",
		TitleSelectors: []string{"h1.heading-5", "div.sku-title h1"},
		PriceSelectors: []string{"div.priceView-customer-price span", "div.priceView-hero-price span"},
		ImageSelectors: []string{"img.primary-image", "div.primary-image-container img"},
	},
	{
		Domain:         "walmart.",
		TitleSelectors: []string{"h1[itemprop=name]", "h1#main-title"},
		PriceSelectors: []string{"span[itemprop=price]", "div[data-testid=price-wrap] span.inline-flex span"},
		ImageSelectors: []string{"div[data-testid=media-thumbnail] img", "img.hover-zoom-hero-image"},
	},
	{
		Domain:         "target.com",
		TitleSelectors: []string{"h1[data-test=product-title]"},
		PriceSelectors: []string{"span[data-test=product-price]"},
		ImageSelectors: []string{"div[data-test=image-gallery-item-0] img"},
	},
	{
		Domain:         "ebay.",
		TitleSelectors: []string{"h1.x-item-title__mainTitle span", "h1#itemTitle"},
		PriceSelectors: []string{"div.x-price-primary span", "span#prcIsum"},
		ImageSelectors: []string{"div.ux-image-carousel-item img", "img#icImg"},
	},
}

// SiteFor returns the config whose domain is a substring of the host, or
// nil when the host is unknown. At most one config applies per scrape.
func SiteFor(host string) *SiteConfig {
	host = strings.ToLower(host)
	for i := range siteConfigs {
		if strings.Contains(host, siteConfigs[i].Domain) {
			return &siteConfigs[i]
		}
	}
	return nil
}
