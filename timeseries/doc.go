// Package timeseries holds uniformly sampled, immutable data series.
//
// A [Series] is anchored at an epoch in seconds and sampled every Dt
// seconds. Sample i covers [Epoch+i*Dt, Epoch+(i+1)*Dt). Transformations
// return new series; the sample payload is never shared with callers.
package timeseries
