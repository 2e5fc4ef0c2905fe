package hrtf

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-binaural/dsp/conv"
	"github.com/cwbudde/algo-binaural/dsp/fft"
	"github.com/cwbudde/algo-vecmath"
)

// Bank holds the frequency-domain form of an impulse-response set, planned
// for one block size. All spectra live in a single arena laid out as
// [response][ear][bin]. A Bank is never modified after BuildBank returns and
// may be shared freely.
type Bank struct {
	partition conv.Partition
	count     int
	bins      int
	spectra   []complex128
}

// BankFootprint returns the number of values (spectrum bins plus history
// samples) a bank of count responses needs for partition p. It is the
// quantity limited by WithMaxBankBins.
func BankFootprint(p conv.Partition, count int) int {
	return count*numEars*p.Bins() + p.HistoryLen(numEars)
}

// BuildBank plans the partition for blockSize and the common response length
// and transforms every ear of every response into its zero-padded spectrum.
//
// maxBins limits BankFootprint; zero means no limit. ctx is checked between
// responses.
func BuildBank(ctx context.Context, responses []ImpulseResponse, blockSize, maxBins int) (*Bank, error) {
	if err := validateSet(responses); err != nil {
		return nil, err
	}

	p, err := conv.Plan(blockSize, responses[0].Len())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	if maxBins > 0 {
		if need := BankFootprint(p, len(responses)); need > maxBins {
			return nil, fmt.Errorf("%w: %d responses at %v need %d bins, limit %d",
				ErrResourceExhausted, len(responses), p, need, maxBins)
		}
	}

	tr, err := fft.NewRealFFT(p.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	b := &Bank{
		partition: p,
		count:     len(responses),
		bins:      p.Bins(),
	}
	b.spectra = make([]complex128, b.count*numEars*b.bins)

	padded := make([]float64, p.FFTSize)
	for i, r := range responses {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("hrtf: bank build interrupted at response %d: %w", i, err)
		}
		for e := range numEars {
			n := copy(padded, r.Ear(Ear(e)))
			clear(padded[n:])
			if err := tr.Forward(b.spectrum(i, Ear(e)), padded); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
			}
		}
	}

	return b, nil
}

// Len returns the number of responses in the bank.
func (b *Bank) Len() int {
	return b.count
}

// Partition returns the block size, response length, transform size and
// history depth the bank was built for.
func (b *Bank) Partition() conv.Partition {
	return b.partition
}

// Spectrum returns the K/2+1 bins of ear e of response index. The slice
// aliases the bank and must not be modified. Out-of-range requests return nil.
func (b *Bank) Spectrum(index int, e Ear) []complex128 {
	if index < 0 || index >= b.count || e < EarLeft || e > EarRight {
		return nil
	}
	return b.spectrum(index, e)
}

// MagnitudeResponse returns |H(k)| of ear e of response index, for
// inspection. It allocates.
func (b *Bank) MagnitudeResponse(index int, e Ear) []float64 {
	s := b.Spectrum(index, e)
	if s == nil {
		return nil
	}

	re := make([]float64, len(s))
	im := make([]float64, len(s))
	for k, v := range s {
		re[k] = real(v)
		im[k] = imag(v)
	}
	mag := make([]float64, len(s))
	vecmath.Magnitude(mag, re, im)
	return mag
}

func (b *Bank) spectrum(index int, e Ear) []complex128 {
	off := (index*numEars + int(e)) * b.bins
	return b.spectra[off : off+b.bins : off+b.bins]
}
