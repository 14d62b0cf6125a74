package targets

import (
	"time"

	"merchfinder/internal/domain"
)

// catalog is the static source definitions. Adding, removing, or disabling
// a merchant means editing this slice; nothing else depends on its contents.
var catalog = []domain.Target{
	{
		ID:          "f1store",
		Name:        "Official F1 Store",
		BaseURL:     "https://f1store.formula1.com",
		SearchPath:  "/en/search?q=",
		Enabled:     true,
		Priority:    10,
		Delay:       500 * time.Millisecond,
		Timeout:     30 * time.Second,
		Render:      true,
		SettleDelay: 2 * time.Second,
		MaxProducts: 42,
		Rules: domain.ExtractionRules{
			Container: "div.product-card",
			Name:      ".product-card-title",
			Price:     ".price .money-value",
			Image:     "img.product-card-image",
			Link:      "a.product-card-link",
			LoadMore:  "button.load-more-button",
			// The F1 store embeds the full product record as JSON on
			// each card, which survives markup reshuffles better than
			// the visible text does.
			EmbeddedJSONAttr: "data-talos-product",
		},
	},
	{
		ID:          "fuelforfans",
		Name:        "Fuel For Fans",
		BaseURL:     "https://www.fuelforfans.com",
		SearchPath:  "/search?type=product&q=",
		Enabled:     true,
		Priority:    8,
		Delay:       300 * time.Millisecond,
		Timeout:     15 * time.Second,
		Render:      false,
		MaxProducts: 10,
		Rules: domain.ExtractionRules{
			Container:    "div.product-grid-item",
			Name:         ".product-title",
			Price:        ".product-price .current",
			Image:        "img",
			Link:         "a.product-link",
			Availability: ".stock-label",
		},
	},
	{
		ID:          "redbullshop",
		Name:        "Red Bull Shop",
		BaseURL:     "https://www.redbullshop.com",
		SearchPath:  "/en-int/search?query=",
		Enabled:     true,
		Priority:    7,
		Delay:       500 * time.Millisecond,
		Timeout:     30 * time.Second,
		Render:      true,
		SettleDelay: 2500 * time.Millisecond,
		MaxProducts: 42,
		Rules: domain.ExtractionRules{
			Container:   "article.product-tile",
			Name:        ".product-tile__name",
			Price:       ".product-tile__price",
			Image:       "img.product-tile__image",
			Link:        "a.product-tile__link",
			Description: ".product-tile__subtitle",
			LoadMore:    "button.search-results__load-more",
		},
	},
	{
		ID:          "mclarenstore",
		Name:        "McLaren Store",
		BaseURL:     "https://store.mclaren.com",
		SearchPath:  "/en/search?q=",
		Enabled:     true,
		Priority:    6,
		Delay:       300 * time.Millisecond,
		Timeout:     15 * time.Second,
		Render:      false,
		MaxProducts: 10,
		Rules: domain.ExtractionRules{
			Container:    "li.product-item",
			Name:         ".product-item__title",
			Price:        ".price__amount",
			Image:        "img.product-item__image",
			Link:         "a.product-item__link",
			Availability: ".product-item__availability",
		},
	},
	{
		ID:          "ferraristore",
		Name:        "Ferrari Store",
		BaseURL:     "https://store.ferrari.com",
		SearchPath:  "/en-ww/search?text=",
		Enabled:     true,
		Priority:    5,
		Delay:       500 * time.Millisecond,
		Timeout:     30 * time.Second,
		Render:      true,
		SettleDelay: 2 * time.Second,
		MaxProducts: 42,
		Rules: domain.ExtractionRules{
			Container:   "div.productCard",
			Name:        ".productCard__name",
			Price:       ".productCard__price",
			Image:       "img.productCard__img",
			Link:        "a.productCard__anchor",
			Description: ".productCard__category",
			LoadMore:    "button.showMore",
		},
	},
	{
		// Disabled: the site moved to a bot-gated storefront; keeping the
		// entry so re-enabling is a one-line change.
		ID:          "gplegends",
		Name:        "Grand Prix Legends",
		BaseURL:     "https://www.grandprixlegends.com",
		SearchPath:  "/en/search?q=",
		Enabled:     false,
		Priority:    3,
		Delay:       300 * time.Millisecond,
		Timeout:     15 * time.Second,
		Render:      false,
		MaxProducts: 10,
		Rules: domain.ExtractionRules{
			Container: "div.product-box",
			Name:      ".product-name",
			Price:     ".product-price",
			Image:     "img",
			Link:      "a",
		},
	},
}
