package models

import "time"

// SearchSpec is one configured marketplace query. Immutable, loaded from the
// specs file at startup.
type SearchSpec struct {
	Name        string   `json:"name"`
	MaxFloat    float64  `json:"max_float"`
	MaxPriceINR float64  `json:"max_price_inr"`
	Qualities   []string `json:"qualities"`
}

// RawListing mirrors one entry of the cs.money sell-orders response. Only the
// fields the pipeline consumes are mapped.
type RawListing struct {
	ID    int64 `json:"id"`
	Asset struct {
		Names struct {
			Full string `json:"full"`
		} `json:"names"`
		Float float64 `json:"float"`
	} `json:"asset"`
	Pricing struct {
		Computed float64 `json:"computed"`
	} `json:"pricing"`
	Seller struct {
		SteamID64 string `json:"steamId64"`
		Delivery  struct {
			MedianTime  float64 `json:"medianTime"`
			SuccessRate float64 `json:"successRate"`
		} `json:"delivery"`
	} `json:"seller"`
	Stickers []*RawSticker `json:"stickers"`
}

// RawSticker is one sticker entry on a raw listing. Entries in the source
// list may be null.
type RawSticker struct {
	Name    string `json:"name"`
	Pricing struct {
		Default float64 `json:"default"`
	} `json:"pricing"`
}

// Sticker is the display-ready form of a sticker on a canonical item.
type Sticker struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// CanonicalItem is the normalized, currency-converted representation of a
// listing. ID is the durable identity used for deduplication; everything else
// is display-only and recomputed each run.
type CanonicalItem struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Float     float64    `json:"float"`
	Price     string     `json:"price"`
	SellerURL string     `json:"seller"`
	Delivery  *[2]string `json:"delivery,omitempty"`
	Stickers  []Sticker  `json:"stickers,omitempty"`
}

// ExchangeRate is the persisted USD-per-INR conversion factor, valid for the
// calendar day it was recorded.
type ExchangeRate struct {
	AsOf time.Time
	Rate float64
}
