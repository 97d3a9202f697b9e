package measure

import "fmt"

// FormatLength renders a length with a unit suited to its size.
func FormatLength(v float64, sys System) string {
	if sys == Planar {
		return fmt.Sprintf("%.2f u", v)
	}
	if v >= 1000 {
		return fmt.Sprintf("%.3f km", v/1000)
	}
	return fmt.Sprintf("%.2f m", v)
}

// FormatArea renders an area with a unit suited to its size.
func FormatArea(v float64, sys System) string {
	if sys == Planar {
		return fmt.Sprintf("%.2f u²", v)
	}
	if v >= 1e6 {
		return fmt.Sprintf("%.3f km²", v/1e6)
	}
	return fmt.Sprintf("%.2f m²", v)
}
