// Package spectrum estimates power and amplitude spectral densities of
// uniformly sampled series.
//
// [Welch] averages modified periodograms of overlapping, windowed blocks.
// The estimate is scaled to a one-sided density in units of x^2/Hz (PSD) or
// x/sqrt(Hz) (ASD, exponent 0.5). [NewSpectrogram] repeats the estimate over
// consecutive time bins. All estimates are deterministic: blocks are
// computed concurrently but reduced in index order, and no zero padding is
// applied.
package spectrum
