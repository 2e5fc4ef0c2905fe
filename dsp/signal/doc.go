// Package signal provides block-wise sample sources: phase-continuous
// oscillators, seeded noise and slice playback. They feed hosts and tests
// with material of arbitrary length without allocating per block.
package signal
