package analysis

import "github.com/san-kum/episim/internal/models"

// R0 is the basic reproduction number for callers holding only raw rates:
// beta/gamma, or beta/(gamma+mu) when mu > 0.
func R0(beta, gamma, mu float64) float64 {
	return models.ReproductionNumber(beta, gamma, mu)
}
