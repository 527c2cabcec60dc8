package frequency_test

import (
	"fmt"

	"github.com/duncanmmacleod/gwpy-laac/dsp/spectrum"
	"github.com/duncanmmacleod/gwpy-laac/stats/frequency"
)

func ExampleCalculate() {
	line, _ := spectrum.FromValues("X1:TEST", 0, 1, 1, []float64{0, 0, 1, 4, 1, 0, 0})

	st, _ := frequency.Calculate(line)
	fmt.Printf("centroid=%.0f Hz rolloff=%.0f Hz bandwidth=%.2f Hz\n", st.Centroid, st.Rolloff, st.Bandwidth)

	// Output:
	// centroid=3 Hz rolloff=4 Hz bandwidth=1.33 Hz
}
