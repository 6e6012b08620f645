package marketdata

import "math"

// Series is a time-ordered price/volume series, oldest bar first.
type Series []Bar

// tradingDaysPerYear annualizes daily return volatility.
const tradingDaysPerYear = 252

// Closes returns the valid closing prices in order. Bars with a missing
// close (zero or NaN) are skipped.
func (s Series) Closes() []float64 {
	closes := make([]float64, 0, len(s))
	for _, b := range s {
		if b.Close > 0 && !math.IsNaN(b.Close) {
			closes = append(closes, b.Close)
		}
	}
	return closes
}

// Volumes returns volumes aligned with Closes.
func (s Series) Volumes() []float64 {
	volumes := make([]float64, 0, len(s))
	for _, b := range s {
		if b.Close > 0 && !math.IsNaN(b.Close) {
			volumes = append(volumes, b.Volume)
		}
	}
	return volumes
}

// Days is the number of valid observations.
func (s Series) Days() int {
	return len(s.Closes())
}

// Last returns the most recent valid close, or 0 for an empty series.
func (s Series) Last() float64 {
	closes := s.Closes()
	if len(closes) == 0 {
		return 0
	}
	return closes[len(closes)-1]
}

// SMA returns the simple moving average of the last n closes.
// ok is false when fewer than n observations exist.
func (s Series) SMA(n int) (float64, bool) {
	closes := s.Closes()
	if n <= 0 || len(closes) < n {
		return 0, false
	}
	var sum float64
	for _, c := range closes[len(closes)-n:] {
		sum += c
	}
	return sum / float64(n), true
}

// Momentum is the percent change of the last close versus the close n
// trading days prior, as a fraction.
func (s Series) Momentum(n int) (float64, bool) {
	closes := s.Closes()
	if n <= 0 || len(closes) < n {
		return 0, false
	}
	base := closes[len(closes)-n]
	if base == 0 {
		return 0, false
	}
	return (closes[len(closes)-1] - base) / base, true
}

// VolumeRatio is the mean volume of the last recent bars over the mean
// volume of the last base bars, defaulting to 1 when the denominator is
// zero or there is not enough data.
func (s Series) VolumeRatio(recent, base int) float64 {
	volumes := s.Volumes()
	if recent <= 0 || base <= 0 || len(volumes) < base || len(volumes) < recent {
		return 1
	}
	baseMean := mean(volumes[len(volumes)-base:])
	if baseMean <= 0 {
		return 1
	}
	return mean(volumes[len(volumes)-recent:]) / baseMean
}

// DailyReturns are the day-over-day percent changes of the valid closes.
func (s Series) DailyReturns() []float64 {
	closes := s.Closes()
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
	}
	return returns
}

// Volatility is the annualized standard deviation of daily returns.
func (s Series) Volatility() float64 {
	returns := s.DailyReturns()
	if len(returns) < 2 {
		return 0
	}
	return stddev(returns) * math.Sqrt(tradingDaysPerYear)
}

// MaxDrawdown is the largest peak-to-trough decline over the series,
// expressed as a non-positive fraction.
func (s Series) MaxDrawdown() float64 {
	closes := s.Closes()
	var worst, peak float64
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			dd := (c - peak) / peak
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

// TrendStrength is the total return over the series window as a fraction.
func (s Series) TrendStrength() float64 {
	closes := s.Closes()
	if len(closes) < 2 || closes[0] == 0 {
		return 0
	}
	return (closes[len(closes)-1] - closes[0]) / closes[0]
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the sample standard deviation.
func stddev(xs []float64) float64 {
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		sum += (x - m) * (x - m)
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}
