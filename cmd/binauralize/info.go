package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-binaural/internal/irset"
	"github.com/cwbudde/algo-binaural/measure/hrir"
)

// printInfo writes one row of HRIR metrics per direction.
func printInfo(w io.Writer, set *irset.Set) error {
	a := hrir.NewAnalyzer(float64(set.SampleRate))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File\tAzimuth\tTaps\tOnset L\tOnset R\tITD [ms]\tXCorr ITD [ms]\tILD [dB]\n")
	fmt.Fprintf(tw, "----\t-------\t----\t-------\t-------\t--------\t--------------\t--------\n")

	for i, r := range set.Responses {
		m, err := a.Analyze(r.Left, r.Right)
		if err != nil {
			fmt.Fprintf(tw, "%s\t%.1f\t%d\t-\t-\t-\t-\t%v\n", set.Names[i], set.Azimuths[i], r.Len(), err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%d\t%d\t%d\t%.3f\t%.3f\t%.2f\n",
			set.Names[i],
			set.Azimuths[i],
			r.Len(),
			m.Left.Onset,
			m.Right.Onset,
			m.ITD*1e3,
			m.XCorrITD*1e3,
			m.ILD,
		)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write info: %w", err)
	}
	return nil
}
