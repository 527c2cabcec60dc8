// Package zpk describes linear filters by their zeros, poles and gain and
// applies them in the frequency domain.
//
// A [TransferFunction] is analog and in Hz:
//
//	H(f) = gain * prod(j*f - z) / prod(j*f - p)
//
// Series are filtered by transforming the whole block, multiplying by H and
// transforming back, so there is no start-up transient and no recursive
// realisation to go unstable. Spectra and spectrograms are scaled by |H|
// raised to match their exponent.
//
// Design helpers ([Butterworth], [FromCoefficients]) build transfer
// functions; [TransferFunction.Inverse] turns a whitening filter into the
// matching de-whitening one.
package zpk
