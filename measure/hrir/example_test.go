package hrir_test

import (
	"fmt"

	"github.com/cwbudde/algo-binaural/measure/hrir"
)

func ExampleAnalyzer_Analyze() {
	left := make([]float64, 64)
	right := make([]float64, 64)
	left[2] = 1
	right[26] = 0.5 // 0.5 ms later at 48 kHz, half the amplitude

	m, err := hrir.NewAnalyzer(48000).Analyze(left, right)
	if err != nil {
		panic(err)
	}
	fmt.Printf("ITD=%.1f ms ILD=%.1f dB\n", m.ITD*1000, m.ILD)

	// Output:
	// ITD=0.5 ms ILD=6.0 dB
}
