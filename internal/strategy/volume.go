package strategy

import (
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/indicator"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/signal"
)

// VolumeSpike buys into unusually heavy volume and sells when activity dries up.
type VolumeSpike struct {
	base
	threshold float64
	volumes   *indicator.Window
}

// NewVolumeSpike builds a volume spike strategy keeping history volume samples.
func NewVolumeSpike(threshold float64, history int, size Bounds, sizer Sizer) *VolumeSpike {
	if threshold <= 0 {
		threshold = 10000
	}
	if history <= 0 {
		history = 100
	}
	return &VolumeSpike{
		base:      newBase("volume_spike", size, Bounds{1, 3}, sizer),
		threshold: threshold,
		volumes:   indicator.NewWindow(history),
	}
}

// Inputs declares the volume dependency.
func (v *VolumeSpike) Inputs() Inputs { return NeedsVolume }

// Evaluate buys above the threshold and sells below half of it.
func (v *VolumeSpike) Evaluate(s signal.Sample) signal.Signal {
	if s.Volume == nil {
		return v.hold(s, "%s: volume missing", indicator.ErrInsufficientData)
	}
	vol := float64(*s.Volume)
	v.volumes.Push(vol)

	switch {
	case vol > v.threshold:
		return v.trade(signal.Buy, s, "volume %.0f above %.0f", vol, v.threshold)
	case vol < v.threshold/2:
		return v.trade(signal.Sell, s, "volume %.0f below %.0f", vol, v.threshold/2)
	default:
		return v.hold(s, "volume %.0f normal", vol)
	}
}

// AverageVolume reports the mean of the retained volume history.
func (v *VolumeSpike) AverageVolume() (float64, bool) { return v.volumes.Mean() }
