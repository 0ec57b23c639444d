package match

import "github.com/cwbudde/algo-specmatch/fit"

// Strategy is the behavior shared by both match variants.
type Strategy interface {
	// CreateModel overwrites the current trial model for p.
	CreateModel(p *fit.Parameters) error
	// Objective builds the model for p and scores it.
	Objective(p *fit.Parameters) (fit.Value, error)
	// BestFit runs the minimizer and returns the best chi-square.
	BestFit(p *fit.Parameters) (float64, error)
	// BestResiduals returns the residuals of the last computed model.
	BestResiduals() ([]float64, error)
}

var (
	_ Strategy = (*SingleMatch)(nil)
	_ Strategy = (*LincombMatch)(nil)
)
