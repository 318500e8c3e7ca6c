package strategy

import (
	"fmt"
	"strings"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/indicator"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/signal"
)

// Fields a Threshold strategy can watch.
const (
	FieldPrice     = "price"
	FieldVolume    = "volume"
	FieldSentiment = "sentiment"
)

// Threshold is a generic band strategy: Buy when the watched value falls below BuyBelow,
// Sell when it rises above SellAbove.
type Threshold struct {
	base
	field     string
	buyBelow  float64
	sellAbove float64
}

// NewThreshold builds a threshold strategy on field. buyBelow must not exceed sellAbove.
func NewThreshold(field string, buyBelow, sellAbove float64, size Bounds, sizer Sizer) (*Threshold, error) {
	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" {
		field = FieldPrice
	}
	switch field {
	case FieldPrice, FieldVolume, FieldSentiment:
	default:
		return nil, fmt.Errorf("threshold: unknown field %q", field)
	}
	if buyBelow > sellAbove {
		return nil, fmt.Errorf("threshold: buy_below %.4f above sell_above %.4f", buyBelow, sellAbove)
	}
	return &Threshold{
		base:      newBase("threshold_"+field, size, Bounds{0.5, 1.5}, sizer),
		field:     field,
		buyBelow:  buyBelow,
		sellAbove: sellAbove,
	}, nil
}

// Inputs declares the dependency implied by the watched field.
func (t *Threshold) Inputs() Inputs {
	switch t.field {
	case FieldVolume:
		return NeedsVolume
	case FieldSentiment:
		return NeedsSentiment
	}
	return 0
}

// Evaluate compares the watched value with the band.
func (t *Threshold) Evaluate(s signal.Sample) signal.Signal {
	var value float64
	switch t.field {
	case FieldVolume:
		if s.Volume == nil {
			return t.hold(s, "%s: volume missing", indicator.ErrInsufficientData)
		}
		value = float64(*s.Volume)
	case FieldSentiment:
		if s.Sentiment == nil {
			return t.hold(s, "%s: sentiment missing", indicator.ErrInsufficientData)
		}
		value = *s.Sentiment
	default:
		value = s.Price
	}

	switch {
	case value < t.buyBelow:
		return t.trade(signal.Buy, s, "%s %.4f below %.4f", t.field, value, t.buyBelow)
	case value > t.sellAbove:
		return t.trade(signal.Sell, s, "%s %.4f above %.4f", t.field, value, t.sellAbove)
	default:
		return t.hold(s, "%s %.4f inside [%.4f, %.4f]", t.field, value, t.buyBelow, t.sellAbove)
	}
}
