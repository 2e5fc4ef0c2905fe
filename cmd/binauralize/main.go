// Command binauralize renders a mono or stereo source through a set of
// head-related impulse responses.
//
// Usage:
//
//	binauralize -ir <dir|file> [flags]
//
// The impulse-response set is either a directory holding one file per
// direction, named <name>_<azimuth>.wav (e.g. KU100_0.wav, KU100_90.wav),
// or a single WAV/AIFF file.
//
// Examples:
//
//	binauralize -ir KU100 -in sine -azimuth 90 -out tone90.wav
//	binauralize -ir KU100 -in speech.wav -rotate 45 -out orbit.wav
//	binauralize -ir KU100 -in noise:0.1 -play
//	binauralize -ir KU100 -info
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/cwbudde/algo-binaural/dsp/core"
	"github.com/cwbudde/algo-binaural/dsp/hrtf"
	"github.com/cwbudde/algo-binaural/internal/audiofile"
	"github.com/cwbudde/algo-binaural/internal/irset"
)

type options struct {
	irPath     string
	input      string
	output     string
	play       bool
	info       bool
	azimuth    float64
	rotate     float64
	duration   float64
	blockSize  int
	bypass     bool
	bypassMode string
	monoSource bool
	gainDB     float64
	bits       int
	maxBins    int
	seed       int64
	latency    time.Duration
}

func main() {
	var o options
	flag.StringVar(&o.irPath, "ir", "", "impulse-response directory or file (required)")
	flag.StringVar(&o.input, "in", "sine", `source: "sine[:hz]", "noise[:amplitude]" or an audio file`)
	flag.StringVar(&o.output, "out", "", "write the binaural render to this WAV file")
	flag.BoolVar(&o.play, "play", false, "play live on the default audio device with key control")
	flag.BoolVar(&o.info, "info", false, "print per-direction HRIR metrics and exit")
	flag.Float64Var(&o.azimuth, "azimuth", 0, "initial azimuth in degrees")
	flag.Float64Var(&o.rotate, "rotate", 0, "rotation speed in degrees per second")
	flag.Float64Var(&o.duration, "duration", 5, "seconds to render from generated sources")
	flag.IntVar(&o.blockSize, "block", core.DefaultProcessorConfig().BlockSize, "processing block size in frames")
	flag.BoolVar(&o.bypass, "bypass", false, "start with convolution bypassed")
	flag.StringVar(&o.bypassMode, "bypass-mode", "copy", `bypass behavior: "copy" or "transform"`)
	flag.BoolVar(&o.monoSource, "mono-source", false, "feed the left input channel to both ears")
	flag.Float64Var(&o.gainDB, "gain", 0, "output gain in dB")
	flag.IntVar(&o.bits, "bits", 16, "WAV output bit depth (16 or 24)")
	flag.IntVar(&o.maxBins, "max-bins", hrtf.DefaultMaxBankBins, "spectrum memory budget in complex bins (0 = unlimited)")
	flag.Int64Var(&o.seed, "seed", 1, "noise source seed")
	flag.DurationVar(&o.latency, "latency", 50*time.Millisecond, "audio device buffer size")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: binauralize -ir <dir|file> [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders a source through head-related impulse responses.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  binauralize -ir KU100 -in sine -azimuth 90 -out tone90.wav\n")
		fmt.Fprintf(os.Stderr, "  binauralize -ir KU100 -in speech.wav -rotate 45 -out orbit.wav\n")
		fmt.Fprintf(os.Stderr, "  binauralize -ir KU100 -in noise:0.1 -play\n")
	}
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("binauralize: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, o); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, o options) error {
	if o.irPath == "" {
		flag.Usage()
		return errors.New("-ir is required")
	}

	set, err := irset.Load(ctx, o.irPath)
	if err != nil {
		return err
	}
	log.Printf("loaded %d impulse responses (%d taps, %d Hz) from %s",
		set.Len(), set.Responses[0].Len(), set.SampleRate, o.irPath)

	if o.info {
		return printInfo(os.Stdout, set)
	}
	if o.output == "" && !o.play {
		return errors.New("nothing to do: pass -out, -play or -info")
	}

	proc, err := newProcessor(ctx, set, o)
	if err != nil {
		return err
	}

	in, err := openInput(o.input, proc.SampleRate(), o.seed)
	if err != nil {
		return err
	}

	cfg := renderConfig{
		rotate: o.rotate,
		gain:   core.DBToLinear(o.gainDB),
		frames: int(o.duration * proc.SampleRate()),
	}
	rend := newRenderer(proc, set, in, cfg)
	rend.heading.Store(o.azimuth)

	if o.play {
		return runLive(ctx, proc, rend, o)
	}

	clip, err := renderOffline(ctx, rend)
	if err != nil {
		return err
	}
	if err := audiofile.SaveWAV(o.output, clip, o.bits); err != nil {
		return err
	}

	st := proc.Stats()
	log.Printf("wrote %s: %d frames, %d blocks (%d convolved, %d bypassed), peak %.1f dBFS",
		o.output, clip.Frames(), st.Blocks, st.Convolved, st.Bypassed, peakDBFS(clip))
	return nil
}

// peakDBFS returns the largest absolute sample of clip in dB full scale.
func peakDBFS(clip *audiofile.Clip) float64 {
	var peak float64
	for _, ch := range clip.Channels {
		peak = max(peak, core.Peak(ch))
	}
	return core.LinearToDB(peak)
}

func newProcessor(ctx context.Context, set *irset.Set, o options) (*hrtf.Processor, error) {
	mode := hrtf.BypassCopy
	switch o.bypassMode {
	case "copy":
	case "transform":
		mode = hrtf.BypassTransform
	default:
		return nil, fmt.Errorf("unknown -bypass-mode %q", o.bypassMode)
	}
	routing := hrtf.RouteStereo
	if o.monoSource {
		routing = hrtf.RouteMonoSource
	}

	proc, err := hrtf.NewProcessor(
		[]core.ProcessorOption{
			core.WithSampleRate(float64(set.SampleRate)),
			core.WithBlockSize(o.blockSize),
		},
		hrtf.WithBypassMode(mode),
		hrtf.WithRouting(routing),
		hrtf.WithMaxBankBins(o.maxBins),
	)
	if err != nil {
		return nil, err
	}
	if err := proc.LoadImpulseResponseSet(ctx, set.Responses); err != nil {
		return nil, err
	}
	proc.SetConvolutionEnabled(!o.bypass)
	return proc, nil
}

// renderOffline runs the renderer to completion, convolution tail included.
func renderOffline(ctx context.Context, rend *renderer) (*audiofile.Clip, error) {
	n := rend.proc.BlockSize()
	l := make([]float64, n)
	r := make([]float64, n)

	var left, right []float64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		valid, err := rend.next(l, r)
		left = append(left, l[:valid]...)
		right = append(right, r[:valid]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return &audiofile.Clip{
		SampleRate: int(rend.proc.SampleRate()),
		Channels:   [][]float64{left, right},
	}, nil
}
