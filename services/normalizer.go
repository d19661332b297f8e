package services

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"csmoney-watcher/models"
)

const sellerProfileURL = "https://steamcommunity.com/profiles/"

// RateSource yields the USD-per-INR factor used for price conversion.
type RateSource interface {
	Rate(ctx context.Context) (float64, error)
}

// Normalizer converts raw sell orders into display-ready canonical items.
type Normalizer struct {
	rates RateSource
}

// NewNormalizer creates a Normalizer over the given rate source.
func NewNormalizer(rates RateSource) *Normalizer {
	return &Normalizer{rates: rates}
}

// Normalize maps one raw listing onto the canonical representation. Pure
// aside from the rate lookup, which may refresh the day cache.
func (n *Normalizer) Normalize(ctx context.Context, raw *models.RawListing) (*models.CanonicalItem, error) {
	rate, err := n.rates.Rate(ctx)
	if err != nil {
		return nil, err
	}

	item := &models.CanonicalItem{
		ID:        strconv.FormatInt(raw.ID, 10),
		Name:      raw.Asset.Names.Full,
		Float:     round4(raw.Asset.Float),
		Price:     formatINR(raw.Pricing.Computed, rate),
		SellerURL: sellerProfileURL + raw.Seller.SteamID64,
	}

	// Delivery stats only when both are reported and non-zero.
	if d := raw.Seller.Delivery; d.MedianTime > 0 && d.SuccessRate > 0 {
		item.Delivery = &[2]string{
			fmt.Sprintf("%v mins", d.MedianTime),
			fmt.Sprintf("%v %%", d.SuccessRate),
		}
	}

	for _, st := range raw.Stickers {
		if st == nil {
			continue
		}
		item.Stickers = append(item.Stickers, models.Sticker{
			Name:  st.Name,
			Price: formatINR(st.Pricing.Default, rate),
		})
	}

	return item, nil
}

// formatINR divides a USD amount by the USD-per-INR factor and truncates to
// whole rupees.
func formatINR(usd, rate float64) string {
	return fmt.Sprintf("%d INR", int64(usd/rate))
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
