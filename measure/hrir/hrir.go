package hrir

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-binaural/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by HRIR analysis functions.
var (
	ErrEmptyIR           = errors.New("hrir: impulse response is empty")
	ErrInvalidSampleRate = errors.New("hrir: sample rate must be positive")
	ErrLengthMismatch    = errors.New("hrir: ears differ in length")
	ErrSilent            = errors.New("hrir: impulse response is silent")
)

// DefaultOnsetThreshold is the fraction of the peak that marks the onset.
const DefaultOnsetThreshold = 0.1

// MaxITD bounds the cross-correlation search. Human ITDs stay below about
// 0.8 ms.
const MaxITD = 0.001

// EarMetrics describes one ear of an HRIR.
type EarMetrics struct {
	Onset  int     // first sample at or above threshold*peak
	Peak   float64 // absolute maximum
	Energy float64 // sum of squares
}

// Metrics holds the analysis of an HRIR pair.
type Metrics struct {
	Left  EarMetrics
	Right EarMetrics

	// ITD is the onset delay of the right ear relative to the left, in
	// seconds. Positive values mean the sound reaches the left ear first.
	ITD float64
	// XCorrITD is the lag of the interaural cross-correlation maximum, in
	// seconds, with the same sign convention as ITD.
	XCorrITD float64
	// ILD is the left-to-right energy ratio in dB.
	ILD float64
}

// Analyzer computes HRIR metrics.
type Analyzer struct {
	SampleRate     float64
	OnsetThreshold float64
}

// NewAnalyzer creates an analyzer with the given sample rate and the default
// onset threshold.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate, OnsetThreshold: DefaultOnsetThreshold}
}

// Analyze measures the left/right pair. Both ears must have the same length.
func (a *Analyzer) Analyze(left, right []float64) (Metrics, error) {
	if len(left) == 0 || len(right) == 0 {
		return Metrics{}, ErrEmptyIR
	}
	if len(left) != len(right) {
		return Metrics{}, ErrLengthMismatch
	}
	if a.SampleRate <= 0 {
		return Metrics{}, ErrInvalidSampleRate
	}

	m := Metrics{
		Left:  a.ear(left),
		Right: a.ear(right),
	}
	if m.Left.Peak == 0 && m.Right.Peak == 0 {
		return Metrics{}, ErrSilent
	}

	m.ITD = float64(m.Right.Onset-m.Left.Onset) / a.SampleRate
	maxLag := int(math.Ceil(MaxITD * a.SampleRate))
	m.XCorrITD = float64(crossCorrelationLag(left, right, maxLag)) / a.SampleRate
	m.ILD = core.LinearPowerToDB(m.Left.Energy / m.Right.Energy)
	return m, nil
}

// Onset returns the index of the first sample reaching threshold times the
// absolute peak of ir.
func (a *Analyzer) Onset(ir []float64) (int, error) {
	if len(ir) == 0 {
		return 0, ErrEmptyIR
	}
	return onset(ir, vecmath.MaxAbs(ir), a.threshold()), nil
}

func (a *Analyzer) ear(ir []float64) EarMetrics {
	peak := vecmath.MaxAbs(ir)
	return EarMetrics{
		Onset:  onset(ir, peak, a.threshold()),
		Peak:   peak,
		Energy: vecmath.DotProduct(ir, ir),
	}
}

func (a *Analyzer) threshold() float64 {
	if a.OnsetThreshold <= 0 || a.OnsetThreshold > 1 {
		return DefaultOnsetThreshold
	}
	return a.OnsetThreshold
}

func onset(ir []float64, peak, ratio float64) int {
	if peak == 0 {
		return 0
	}
	threshold := peak * ratio
	for i, v := range ir {
		if math.Abs(v) >= threshold {
			return i
		}
	}
	return 0
}

// crossCorrelationLag returns the lag in [-maxLag, maxLag] that maximizes
// sum(left[i] * right[i+lag]). Positive lags mean right trails left.
func crossCorrelationLag(left, right []float64, maxLag int) int {
	n := len(left)
	maxLag = min(maxLag, n-1)

	best := 0
	bestVal := math.Inf(-1)
	for lag := -maxLag; lag <= maxLag; lag++ {
		var v float64
		if lag >= 0 {
			v = vecmath.DotProduct(left[:n-lag], right[lag:])
		} else {
			v = vecmath.DotProduct(left[-lag:], right[:n+lag])
		}
		if v > bestVal || (v == bestVal && abs(lag) < abs(best)) {
			best, bestVal = lag, v
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
