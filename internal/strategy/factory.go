package strategy

import (
	"fmt"
	"strings"
)

// Kinds accepted by Build.
const (
	KindBreakout      = "breakout"
	KindGrid          = "grid"
	KindMeanReversion = "mean_reversion"
	KindMomentum      = "momentum"
	KindReversal      = "reversal"
	KindScalping      = "scalping"
	KindVolumeSpike   = "volume_spike"
	KindPairTrading   = "pair_trading"
	KindNewsSentiment = "news_sentiment"
	KindArbitrage     = "arbitrage"
	KindThreshold     = "threshold"
)

// Kinds lists every buildable strategy kind.
func Kinds() []string {
	return []string{
		KindBreakout, KindGrid, KindMeanReversion, KindMomentum, KindReversal, KindScalping,
		KindVolumeSpike, KindPairTrading, KindNewsSentiment, KindArbitrage, KindThreshold,
	}
}

// Params expresses tunable knobs required by strategy constructors. Zero values select the
// defaults of each variant.
type Params struct {
	Lookback   int     `yaml:"lookback"`
	Threshold  float64 `yaml:"threshold"`
	GridSize   float64 `yaml:"grid_size"`
	GridLevels int     `yaml:"grid_levels"`
	BasePrice  float64 `yaml:"base_price"`
	RSIPeriod  int     `yaml:"rsi_period"`
	BandPeriod int     `yaml:"band_period"`
	BandWidth  float64 `yaml:"band_width"`
	Oversold   float64 `yaml:"oversold"`
	Overbought float64 `yaml:"overbought"`
	Field      string  `yaml:"field"`
	BuyBelow   float64 `yaml:"buy_below"`
	SellAbove  float64 `yaml:"sell_above"`
	Size       Bounds  `yaml:"size"`
}

// Build returns a strategy implementation matching kind.
func Build(kind string, p Params, sizer Sizer) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindBreakout:
		return NewBreakout(p.Lookback, p.Threshold, p.Size, sizer), nil
	case KindGrid:
		return NewGrid(p.GridSize, p.GridLevels, p.BasePrice, p.Size, sizer), nil
	case KindMeanReversion:
		return NewMeanReversion(p.Lookback, p.Threshold, p.Size, sizer), nil
	case KindMomentum:
		return NewMomentum(p.Lookback, p.Size, sizer), nil
	case KindReversal:
		return NewReversal(ReversalParams{
			History:    p.Lookback,
			RSIPeriod:  p.RSIPeriod,
			BandPeriod: p.BandPeriod,
			BandWidth:  p.BandWidth,
			Oversold:   p.Oversold,
			Overbought: p.Overbought,
		}, p.Size, sizer), nil
	case KindScalping:
		return NewScalping(p.Threshold, p.Size, sizer), nil
	case KindVolumeSpike:
		return NewVolumeSpike(p.Threshold, p.Lookback, p.Size, sizer), nil
	case KindPairTrading:
		return NewPairTrading(p.Lookback, p.Threshold, p.Size, sizer), nil
	case KindNewsSentiment:
		return NewNewsSentiment(p.Threshold, p.Size, sizer), nil
	case KindArbitrage:
		return NewArbitrage(p.Threshold, p.Size, sizer), nil
	case KindThreshold:
		t, err := NewThreshold(p.Field, p.BuyBelow, p.SellAbove, p.Size, sizer)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown strategy kind %q", kind)
	}
}
