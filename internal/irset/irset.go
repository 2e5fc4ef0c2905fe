// Package irset loads impulse-response sets from disk: either a directory
// holding one file per direction, named <name>_<azimuth>.<ext>, or a single
// file.
package irset

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-binaural/dsp/hrtf"
	"github.com/cwbudde/algo-binaural/internal/audiofile"
)

var (
	ErrNoResponses        = errors.New("irset: no impulse response files found")
	ErrSampleRateMismatch = errors.New("irset: files differ in sample rate")
	ErrLengthMismatch     = errors.New("irset: files differ in length")
)

var azimuthSuffix = regexp.MustCompile(`_(-?\d+(?:\.\d+)?)$`)

// Set is an impulse-response set ordered by azimuth.
type Set struct {
	SampleRate int
	Names      []string
	Azimuths   []float64
	Responses  []hrtf.ImpulseResponse
}

// Len returns the number of responses.
func (s *Set) Len() int {
	return len(s.Responses)
}

// Load reads path as a directory set or, for a regular file, as a set of one.
func Load(ctx context.Context, path string) (*Set, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("irset: %w", err)
	}
	if info.IsDir() {
		return LoadDir(ctx, path)
	}
	return LoadFile(path)
}

// LoadFile reads a single impulse response. A mono file feeds both ears.
func LoadFile(path string) (*Set, error) {
	clip, err := audiofile.Load(path)
	if err != nil {
		return nil, err
	}
	r, err := Response(clip)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	az, _ := ParseAzimuth(path)
	return &Set{
		SampleRate: clip.SampleRate,
		Names:      []string{filepath.Base(path)},
		Azimuths:   []float64{az},
		Responses:  []hrtf.ImpulseResponse{r},
	}, nil
}

// LoadDir reads every WAV and AIFF file in dir. When every file name ends in
// an azimuth the set is sorted by it; otherwise files are sorted by name and
// spread evenly around the circle.
func LoadDir(ctx context.Context, dir string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("irset: %w", err)
	}

	type item struct {
		name    string
		azimuth float64
		hasAz   bool
	}
	var items []item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch audiofile.FormatFromPath(e.Name()) {
		case audiofile.FormatWAV, audiofile.FormatAIFF:
		default:
			continue
		}
		az, ok := ParseAzimuth(e.Name())
		items = append(items, item{name: e.Name(), azimuth: az, hasAz: ok})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoResponses, dir)
	}

	allAz := true
	for _, it := range items {
		allAz = allAz && it.hasAz
	}
	sort.SliceStable(items, func(i, j int) bool {
		if allAz && items[i].azimuth != items[j].azimuth {
			return items[i].azimuth < items[j].azimuth
		}
		return items[i].name < items[j].name
	})

	set := &Set{}
	for i, it := range items {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("irset: loading %s: %w", dir, err)
		}

		clip, err := audiofile.Load(filepath.Join(dir, it.name))
		if err != nil {
			return nil, err
		}
		r, err := Response(clip)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", it.name, err)
		}

		if i == 0 {
			set.SampleRate = clip.SampleRate
		} else {
			if clip.SampleRate != set.SampleRate {
				return nil, fmt.Errorf("%w: %s is %d Hz, %s is %d Hz",
					ErrSampleRateMismatch, it.name, clip.SampleRate, set.Names[0], set.SampleRate)
			}
			if r.Len() != set.Responses[0].Len() {
				return nil, fmt.Errorf("%w: %s has %d taps, %s has %d",
					ErrLengthMismatch, it.name, r.Len(), set.Names[0], set.Responses[0].Len())
			}
		}

		az := it.azimuth
		if !allAz {
			az = hrtf.IndexAzimuth(i, len(items))
		}
		set.Names = append(set.Names, it.name)
		set.Azimuths = append(set.Azimuths, az)
		set.Responses = append(set.Responses, r)
	}
	return set, nil
}

// Response converts a decoded clip into an impulse response. Mono clips feed
// both ears; channels past the second are ignored.
func Response(clip *audiofile.Clip) (hrtf.ImpulseResponse, error) {
	left, right := clip.Stereo()
	return hrtf.NewImpulseResponse(left, right)
}

// ParseAzimuth extracts the azimuth from a file name like KU100_90.wav,
// normalized to [0, 360).
func ParseAzimuth(path string) (float64, bool) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m := azimuthSuffix.FindStringSubmatch(base)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	v = math.Mod(v, 360)
	if v < 0 {
		v += 360
	}
	return v, true
}

// Nearest returns the index of the response closest to azimuth on the
// circle.
func (s *Set) Nearest(azimuth float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, az := range s.Azimuths {
		d := math.Mod(math.Abs(az-azimuth), 360)
		d = math.Min(d, 360-d)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
