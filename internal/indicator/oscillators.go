package indicator

import "math"

// SMA calculates the simple moving average of the last period values.
func SMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), true
}

// RSI computes the Relative Strength Index over the last period price changes using simple
// (non-exponential) averages. It needs period+1 values and is 100 when there were no losses.
func RSI(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period+1 {
		return 0, false
	}
	gain, loss := 0.0, 0.0
	for i := len(values) - period; i < len(values); i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gain += change
		} else {
			loss -= change
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs)), true
}

// Bands holds a Bollinger envelope.
type Bands struct {
	Middle float64
	Upper  float64
	Lower  float64
}

// Bollinger returns SMA(period) ± k population standard deviations of the last period values.
func Bollinger(values []float64, period int, k float64) (Bands, bool) {
	mid, ok := SMA(values, period)
	if !ok {
		return Bands{}, false
	}
	variance := 0.0
	for _, v := range values[len(values)-period:] {
		d := v - mid
		variance += d * d
	}
	sd := math.Sqrt(variance / float64(period))
	return Bands{Middle: mid, Upper: mid + k*sd, Lower: mid - k*sd}, true
}
