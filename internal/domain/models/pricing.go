package models

import "time"

// PricingEntry is one row of the packaging price table.
type PricingEntry struct {
	Package   Packaging `bson:"package" json:"package"`
	Rate      float64   `bson:"rate" json:"rate"`
	UpdatedOn time.Time `bson:"updated_on" json:"updated_on"`
}

// PriceList is a point-in-time snapshot of the pricing table. Records copy
// the rate at creation, so later price changes never touch history.
type PriceList map[Packaging]float64

// DefaultPriceList returns the configured launch prices per packet size.
func DefaultPriceList() PriceList {
	return PriceList{
		Pack100g: 60,
		Pack250g: 140,
		Pack500g: 270,
		Pack1kg:  520,
	}
}

// Rate looks up the current price for a packet size.
func (p PriceList) Rate(pkg Packaging) (float64, bool) {
	rate, ok := p[pkg]
	return rate, ok
}
