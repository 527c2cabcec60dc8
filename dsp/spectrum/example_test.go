package spectrum_test

import (
	"fmt"

	"github.com/duncanmmacleod/gwpy-laac/dsp/spectrum"
	"github.com/duncanmmacleod/gwpy-laac/internal/testutil"
	"github.com/duncanmmacleod/gwpy-laac/timeseries"
)

func ExampleASD() {
	s, err := timeseries.FromSampleRate("X1:PEM-ACC", 1126259462, 512,
		testutil.DeterministicSine(60, 512, 2, 512*16))
	if err != nil {
		fmt.Println(err)
		return
	}

	asd, err := spectrum.ASD(s, 4, spectrum.WithOverlap(2))
	if err != nil {
		fmt.Println(err)
		return
	}

	f, _ := asd.Peak()
	power, _ := asd.BandPower(59, 61)

	fmt.Printf("df=%.2f Hz, peak at %.0f Hz, power=%.3f\n", asd.Df, f, power)
	// Output: df=0.25 Hz, peak at 60 Hz, power=2.000
}

func ExampleSpectrum_Crop() {
	s, _ := spectrum.FromValues("X1:TEST", 0, 0.5, 1, []float64{1, 2, 3, 4, 5, 6})

	band, _ := s.Crop(1, 2)
	fmt.Println(band.Frequencies(), band.Values())
	// Output: [1 1.5 2] [3 4 5]
}
