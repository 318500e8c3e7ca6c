package strategy

import (
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/indicator"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/signal"
)

// NewsSentiment maps a headline sentiment score in [-1, 1] to a decision.
type NewsSentiment struct {
	base
	threshold float64
}

// NewNewsSentiment builds a sentiment strategy triggering beyond ±threshold.
func NewNewsSentiment(threshold float64, size Bounds, sizer Sizer) *NewsSentiment {
	if threshold <= 0 {
		threshold = 0.5
	}
	return &NewsSentiment{
		base:      newBase("news_sentiment", size, Bounds{1, 3}, sizer),
		threshold: threshold,
	}
}

// Inputs declares the sentiment dependency.
func (n *NewsSentiment) Inputs() Inputs { return NeedsSentiment }

// Evaluate buys on positive news and sells on negative news.
func (n *NewsSentiment) Evaluate(s signal.Sample) signal.Signal {
	if s.Sentiment == nil {
		return n.hold(s, "%s: sentiment missing", indicator.ErrInsufficientData)
	}
	score := *s.Sentiment
	switch {
	case score > n.threshold:
		return n.trade(signal.Buy, s, "positive sentiment %.2f: %s", score, s.Headline)
	case score < -n.threshold:
		return n.trade(signal.Sell, s, "negative sentiment %.2f: %s", score, s.Headline)
	default:
		return n.hold(s, "neutral sentiment %.2f", score)
	}
}
