// Package hrir measures the binaural cues carried by a head-related impulse
// response pair.
//
// For each ear it finds the onset (the first sample reaching a fraction of
// the peak), the peak and the energy. From the pair it derives the
// interaural time difference, by onset and by cross-correlation, and the
// interaural level difference.
//
// # Usage
//
//	analyzer := hrir.NewAnalyzer(48000)
//	m, err := analyzer.Analyze(left, right)
//	fmt.Printf("ITD = %.0f µs, ILD = %.1f dB\n", m.ITD*1e6, m.ILD)
package hrir
