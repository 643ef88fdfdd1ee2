package regression

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/arloliu/sbfs/crossval"
	"github.com/arloliu/sbfs/errs"
	"github.com/arloliu/sbfs/score"
)

// Built-in backend names.
const (
	MLR      = "MLR"
	GammaGLM = "GAMMA_GLM"
	ZScore   = "ZSCORE"

	// DefaultName is used when no regressor name is configured.
	DefaultName = MLR
)

// Factory creates a fresh regressor bound to a scorer set and cross-validator.
type Factory func(scorers score.Set, validator crossval.Validator) Regressor

// Backend describes a registered regressor.
type Backend struct {
	Name        string
	Description string
	NaNTolerant bool
	factory     Factory
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Backend{}
)

func init() {
	mustRegister(MLR, "multiple linear regression (ordinary least squares)", false, NewLinear)
	mustRegister(GammaGLM, "Gamma generalized linear model with log link", false, NewGammaGLM)
	mustRegister(ZScore, "Z-score composite regression, tolerates missing values", true, NewZScore)
}

func mustRegister(name, description string, nanTolerant bool, f Factory) {
	if err := Register(name, description, nanTolerant, f); err != nil {
		panic(err)
	}
}

// Register adds a backend under name. Names are case-insensitive and stored
// in upper case.
//
// A NaN-tolerant backend is handed every row of the design, including rows
// with missing predictor values.
func Register(name, description string, nanTolerant bool, f Factory) error {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" || f == nil {
		return fmt.Errorf("%w: %q", errs.ErrUnknownRegressor, name)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, ok := registry[key]; ok {
		return fmt.Errorf("%w: %s", errs.ErrRegressorRegistered, key)
	}
	registry[key] = Backend{Name: key, Description: description, NaNTolerant: nanTolerant, factory: f}

	return nil
}

// Lookup returns the backend registered under name. An empty name resolves to
// DefaultName.
func Lookup(name string) (Backend, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		key = DefaultName
	}

	registryMu.RLock()
	b, ok := registry[key]
	registryMu.RUnlock()
	if !ok {
		return Backend{}, fmt.Errorf("%w: %q", errs.ErrUnknownRegressor, name)
	}

	return b, nil
}

// New creates a regressor by name.
//
// Parameters:
//   - name: registered backend name, empty for DefaultName
//   - scorers: ordered scorer set; nil resolves to ADJ_R2
//   - validator: cross-validator; nil resolves to KFOLD_5
//
// Returns:
//   - Regressor: a fresh, unfitted regressor
//   - error: ErrUnknownRegressor if name is not registered
func New(name string, scorers score.Set, validator crossval.Validator) (Regressor, error) {
	b, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	if len(scorers) == 0 {
		if scorers, err = score.NewSet("ADJ_R2"); err != nil {
			return nil, err
		}
	}

	return b.factory(scorers, validator), nil
}

// NaNTolerant reports whether the named backend handles missing values itself.
// Unknown names are not tolerant.
func NaNTolerant(name string) bool {
	b, err := Lookup(name)
	return err == nil && b.NaNTolerant
}

// Backends returns every registered backend ordered by name.
func Backends() []Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]Backend, 0, len(registry))
	for _, b := range registry {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b Backend) int { return strings.Compare(a.Name, b.Name) })

	return out
}

// Names returns the registered backend names in sorted order.
func Names() []string {
	backends := Backends()
	names := make([]string, len(backends))
	for i, b := range backends {
		names[i] = b.Name
	}

	return names
}

// NewLinear returns a multiple linear regression estimator.
func NewLinear(scorers score.Set, validator crossval.Validator) Regressor {
	return newEstimator(MLR, func() model { return &linearModel{} }, scorers, validator)
}

// NewGammaGLM returns a Gamma GLM estimator with log link. The target must be
// strictly positive.
func NewGammaGLM(scorers score.Set, validator crossval.Validator) Regressor {
	return newEstimator(GammaGLM, func() model { return &gammaModel{} }, scorers, validator)
}

// NewZScore returns a Z-score composite regression estimator.
func NewZScore(scorers score.Set, validator crossval.Validator) Regressor {
	return newEstimator(ZScore, func() model { return &zscoreModel{} }, scorers, validator)
}
