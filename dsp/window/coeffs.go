package window

// Cosine-sum coefficients, evaluated as sum_k c[k] cos(2 pi k x) for
// x in [0, 1].
var (
	hannCoeffs            = []float64{0.5, -0.5}
	hammingCoeffs         = []float64{0.54, -0.46}
	blackmanCoeffs        = []float64{0.42, -0.5, 0.08}
	blackmanHarris4Coeffs = []float64{0.35875, -0.48829, 0.14128, -0.01168}
	// flat-top per ANSI S1.11-2004, also used by flattopwin
	flatTopCoeffs = []float64{0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368}
)

var metadataByType = map[Type]Metadata{
	TypeRectangular:         {Name: "Rectangular", ENBW: 1, HighestSidelobe: -13.3, CoherentGain: 1, RecommendedOverlap: 0},
	TypeHann:                {Name: "Hann", ENBW: 1.5, HighestSidelobe: -31.5, CoherentGain: 0.5, RecommendedOverlap: 0.5},
	TypeHamming:             {Name: "Hamming", ENBW: 1.3628, HighestSidelobe: -42.7, CoherentGain: 0.54, RecommendedOverlap: 0.5},
	TypeBlackman:            {Name: "Blackman", ENBW: 1.7268, HighestSidelobe: -58.1, CoherentGain: 0.42, RecommendedOverlap: 0.5},
	TypeBlackmanHarris4Term: {Name: "Blackman-Harris", ENBW: 2.0044, HighestSidelobe: -92, CoherentGain: 0.35875, RecommendedOverlap: 0.661},
	TypeFlatTop:             {Name: "Flat-top", ENBW: 3.7702, HighestSidelobe: -93, CoherentGain: 0.21557895, RecommendedOverlap: 0.655},
	TypeKaiser:              {Name: "Kaiser", RecommendedOverlap: 0.5, DefaultAlpha: 8.6, Parametric: true},
	TypeTukey:               {Name: "Tukey", RecommendedOverlap: 0.5, DefaultAlpha: 0.5, Parametric: true},
	TypeTriangle:            {Name: "Triangle", ENBW: 1.3333, HighestSidelobe: -26.5, CoherentGain: 0.5, RecommendedOverlap: 0.5},
	TypeCosine:              {Name: "Cosine", ENBW: 1.2337, HighestSidelobe: -23, CoherentGain: 0.6366, RecommendedOverlap: 0.5},
	TypeWelch:               {Name: "Welch", ENBW: 1.2, HighestSidelobe: -21.3, CoherentGain: 0.6667, RecommendedOverlap: 0.293},
	TypeGauss:               {Name: "Gauss", RecommendedOverlap: 0.5, DefaultAlpha: 2.5, Parametric: true},
}

var typeByName = map[string]Type{
	"rectangular":    TypeRectangular,
	"rect":           TypeRectangular,
	"boxcar":         TypeRectangular,
	"hann":           TypeHann,
	"hanning":        TypeHann,
	"hamming":        TypeHamming,
	"blackman":       TypeBlackman,
	"blackmanharris": TypeBlackmanHarris4Term,
	"flattop":        TypeFlatTop,
	"kaiser":         TypeKaiser,
	"tukey":          TypeTukey,
	"triangle":       TypeTriangle,
	"triang":         TypeTriangle,
	"bartlett":       TypeTriangle,
	"cosine":         TypeCosine,
	"welch":          TypeWelch,
	"gauss":          TypeGauss,
	"gaussian":       TypeGauss,
}
