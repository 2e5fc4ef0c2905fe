package conv_test

import (
	"fmt"

	"github.com/cwbudde/algo-binaural/dsp/conv"
)

func ExampleDirect() {
	// Simple moving average filter
	signal := []float64{1, 2, 3, 4, 5, 4, 3, 2, 1}
	kernel := []float64{0.25, 0.5, 0.25}

	result, _ := conv.Direct(signal, kernel)

	fmt.Printf("Output length: %d\n", len(result))
	fmt.Printf("First few values: %.2f, %.2f, %.2f\n", result[0], result[1], result[2])

	// Output:
	// Output length: 11
	// First few values: 0.25, 1.00, 2.00
}

func ExamplePlan() {
	// 128-sample host blocks, 512-tap impulse response
	p, err := conv.Plan(128, 512)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(p)
	fmt.Printf("bins per ear: %d\n", p.Bins())
	fmt.Printf("history samples (stereo): %d\n", p.HistoryLen(2))

	// Output:
	// N=128 M=512 K=1024 MEM=8
	// bins per ear: 513
	// history samples (stereo): 16384
}

func ExampleOverlapHistory() {
	// Time-domain walk-through of the ring: each block's full response is
	// placed in slot 0, the history sums the overlapping parts.
	p, _ := conv.Plan(2, 3)
	h, _ := conv.NewOverlapHistory(p, 1)

	kernel := []float64{1, 1, 1}
	input := [][]float64{{1, 0}, {0, 0}, {0, 0}}
	out := make([]float64, 2)

	for _, block := range input {
		full, _ := conv.Direct(block, kernel)
		copy(h.Slot(0, 0), full)
		h.OverlapAdd(out, 0)
		h.Age()
		fmt.Println(out)
	}

	// Output:
	// [1 1]
	// [1 0]
	// [0 0]
}
