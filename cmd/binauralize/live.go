package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/cwbudde/algo-binaural/dsp/hrtf"
	"github.com/cwbudde/algo-binaural/internal/console"
	"github.com/cwbudde/algo-binaural/internal/irset"
	"github.com/cwbudde/algo-binaural/internal/playback"
	"github.com/cwbudde/algo-binaural/measure/hrir"
)

const controlInterval = 100 * time.Millisecond

type reloadResult struct {
	set *irset.Set
	err error
}

// runLive plays the render on the audio device. The device pulls blocks on
// its own goroutine; this goroutine handles keys, reloads and reclaiming.
func runLive(ctx context.Context, proc *hrtf.Processor, rend *renderer, o options) error {
	stream, err := playback.NewStream(proc.BlockSize(), func(left, right []float64) error {
		_, err := rend.next(left, right)
		return err
	})
	if err != nil {
		return err
	}

	player, err := playback.NewPlayer(int(proc.SampleRate()), o.latency, stream)
	if err != nil {
		return err
	}
	defer player.Close()

	var keys <-chan console.Key
	con, err := console.Open()
	switch {
	case err == nil:
		defer con.Close()
		keys = con.Keys(ctx)
		con.Printf("%s", console.Help)
	case errors.Is(err, console.ErrNotTerminal):
		log.Printf("stdin is not a terminal; key control disabled")
	default:
		return err
	}

	printf := log.Printf
	if con != nil {
		printf = con.Printf
	}

	player.Start()

	ticker := time.NewTicker(controlInterval)
	defer ticker.Stop()
	reloads := make(chan reloadResult, 1)
	reloading := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case k, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			switch k {
			case console.KeyLeft, console.KeyRight:
				set := rend.set.Load()
				step := 360 / float64(set.Len())
				if k == console.KeyLeft {
					step = -step
				}
				az := rend.heading.Add(step)
				idx := set.Nearest(az)
				printf("azimuth %5.1f deg -> %s", az, set.Names[idx])
			case console.KeyBypass:
				on := !proc.ConvolutionEnabled()
				proc.SetConvolutionEnabled(on)
				if on {
					printf("convolution on")
				} else {
					printf("convolution bypassed")
				}
			case console.KeyReload:
				if reloading {
					printf("reload already running")
					continue
				}
				reloading = true
				printf("reloading %s", o.irPath)
				go func() {
					set, err := reload(ctx, proc, o.irPath)
					reloads <- reloadResult{set: set, err: err}
				}()
			case console.KeyInfo:
				set := rend.set.Load()
				idx := proc.Direction()
				m, err := hrir.NewAnalyzer(proc.SampleRate()).Analyze(set.Responses[idx].Left, set.Responses[idx].Right)
				if err != nil {
					printf("%s: %v", set.Names[idx], err)
					continue
				}
				printf("%s: ITD %.3f ms, ILD %.1f dB, state %s",
					set.Names[idx], m.ITD*1e3, m.ILD, proc.State())
			case console.KeyQuit:
				return nil
			}

		case res := <-reloads:
			reloading = false
			if res.err != nil {
				printf("reload failed, keeping previous set: %v", res.err)
				continue
			}
			rend.set.Store(res.set)
			printf("reloaded %d impulse responses", res.set.Len())

		case <-ticker.C:
			proc.Reclaim()
			if !player.IsPlaying() {
				if err := stream.Err(); err != nil {
					return err
				}
				return player.Err()
			}
		}
	}
}

// reload loads the set at path and publishes it once the render path has
// adopted it.
func reload(ctx context.Context, proc *hrtf.Processor, path string) (*irset.Set, error) {
	set, err := irset.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if float64(set.SampleRate) != proc.SampleRate() {
		return nil, errors.New("sample rate changed; restart to switch rates")
	}
	if err := proc.LoadImpulseResponseSet(ctx, set.Responses); err != nil {
		return nil, err
	}
	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := proc.WaitApplied(waitCtx); err != nil {
		return nil, err
	}
	return set, nil
}
