package spectrum

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/RMahshie/specplot/pkg/models"
)

// Reference smoothing parameters for the peak view
const (
	DefaultSmoothWindow = 150
	DefaultSmoothOrder  = 2
)

// Smooth applies a Savitzky-Golay filter: every output point is the value of a
// least-squares polynomial of the given order fitted over a window of samples.
// Points closer than half a window to either end use the first or last full
// window, matching scipy's "interp" mode. Even windows are allowed; the
// evaluated point then sits just left of the window centre.
func Smooth(y []float64, window, order int) ([]float64, error) {
	n := len(y)
	if window < 1 || window > n {
		return nil, fmt.Errorf("%w: window %d for %d samples", ErrInvalidWindow, window, n)
	}
	if order < 0 || order >= window {
		return nil, fmt.Errorf("%w: polynomial order %d must be below window %d", ErrInvalidWindow, order, window)
	}

	hat := hatMatrix(window, order)
	half := (window - 1) / 2

	out := make([]float64, n)
	for i := range y {
		start := i - half
		if start < 0 {
			start = 0
		}
		if start > n-window {
			start = n - window
		}
		out[i] = floats.Dot(hat.RawRowView(i-start), y[start:start+window])
	}
	return out, nil
}

// hatMatrix returns the projection V(VᵀV)⁻¹Vᵀ for a window-by-(order+1)
// Vandermonde matrix V. Row k maps the window samples to the fitted value at
// offset k. Positions are scaled into [-1, 1] to keep the fit well conditioned.
func hatMatrix(window, order int) *mat.Dense {
	center := float64(window-1) / 2
	scale := center
	if scale == 0 {
		scale = 1
	}

	v := mat.NewDense(window, order+1, nil)
	for i := 0; i < window; i++ {
		t := (float64(i) - center) / scale
		p := 1.0
		for j := 0; j <= order; j++ {
			v.Set(i, j, p)
			p *= t
		}
	}

	var qr mat.QR
	qr.Factorize(v)
	var q mat.Dense
	qr.QTo(&q)
	thin := q.Slice(0, window, 0, order+1)

	var hat mat.Dense
	hat.Mul(thin, thin.T())
	return &hat
}

// FindPeak smooths the normalized column of t and reports the wavelength at
// the maximum of the smoothed curve. The result is advisory: noise, multiple
// peaks and maxima at the edge of the range are not handled.
func FindPeak(name string, t models.Table, window, order int) (models.Peak, []float64, error) {
	smoothed, err := Smooth(t.NormalizedValues(), window, order)
	if err != nil {
		return models.Peak{}, nil, fmt.Errorf("%s: %w", name, err)
	}
	idx := floats.MaxIdx(smoothed)
	s := t.Samples[idx]
	return models.Peak{
		Name:       name,
		Index:      idx,
		Wavelength: s.Wavelength,
		Energy:     s.Energy,
		Value:      smoothed[idx],
	}, smoothed, nil
}

// ClampWindow shrinks window to fit n samples while keeping it above order
func ClampWindow(window, order, n int) int {
	if window > n {
		window = n
	}
	if window <= order {
		window = order + 1
	}
	return window
}
