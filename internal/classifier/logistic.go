// Package classifier implements L2-regularized binary logistic regression over sparse vectors.
package classifier

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize"

	"github.com/hyperjump/fakenews/internal/models"
	"github.com/hyperjump/fakenews/internal/vector"
	"github.com/hyperjump/fakenews/pkg/utils"
)

// Config holds solver settings and the ordered class pair.
type Config struct {
	// C is the inverse regularization strength.
	C         float64 `json:"c"`
	MaxIter   int     `json:"max_iter"`
	Tolerance float64 `json:"tolerance"`
	// Classes[1] is the class whose probability grows with the score.
	Classes [2]models.Label `json:"classes"`
}

// DefaultConfig returns C=1, 1000 iterations, tolerance 1e-4, classes (FAKE, REAL).
func DefaultConfig() Config {
	return Config{
		C:         1.0,
		MaxIter:   1000,
		Tolerance: 1e-4,
		Classes:   [2]models.Label{models.LabelFake, models.LabelReal},
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.C <= 0 {
		c.C = d.C
	}
	if c.MaxIter <= 0 {
		c.MaxIter = d.MaxIter
	}
	if c.Tolerance <= 0 {
		c.Tolerance = d.Tolerance
	}
	if c.Classes[0] == "" && c.Classes[1] == "" {
		c.Classes = d.Classes
	}
	return c
}

func (c Config) validateClasses() error {
	for _, l := range c.Classes {
		if _, err := models.ParseLabel(string(l)); err != nil {
			return fmt.Errorf("class pair: %w", err)
		}
	}
	if c.Classes[0] == c.Classes[1] {
		return fmt.Errorf("class pair must be distinct, got %s twice", c.Classes[0])
	}
	return nil
}

// Diagnostics describes how the solver finished.
type Diagnostics struct {
	Converged  bool    `json:"converged"`
	Iterations int     `json:"iterations"`
	Status     string  `json:"status"`
	Objective  float64 `json:"objective"`
}

// State is the serializable form of a fitted model.
type State struct {
	Config      Config      `json:"config"`
	Weights     []float64   `json:"weights"`
	Bias        float64     `json:"bias"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Model is a fitted logistic regression. The zero value is unfitted.
// A fitted Model is immutable and safe for concurrent use.
type Model struct {
	cfg     Config
	weights []float64
	bias    float64
	diag    Diagnostics
}

// Option configures Fit.
type Option func(*fitOptions)

type fitOptions struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for solver diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *fitOptions) {
		o.logger = l
	}
}

// Fit trains the model by minimizing
// ½‖w‖² + C Σ log(1 + exp(−yᵢ(w·xᵢ + b)))
// with L-BFGS from a zero start. The bias is not penalized. When the solver stops
// before reaching the tolerance a warning is logged and the weights are still returned.
func Fit(cfg Config, X []vector.Sparse, y []models.Label, opts ...Option) (*Model, error) {
	o := fitOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	cfg = cfg.withDefaults()
	if err := cfg.validateClasses(); err != nil {
		return nil, err
	}
	if len(X) == 0 {
		return nil, fmt.Errorf("fit classifier: %w", models.ErrEmptyDataset)
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("fit classifier: %d samples but %d labels", len(X), len(y))
	}
	dim := X[0].Dim
	if dim == 0 {
		return nil, errors.New("fit classifier: zero-dimensional features")
	}
	signs := make([]float64, len(y))
	var seen [2]bool
	for i, label := range y {
		if X[i].Dim != dim {
			return nil, fmt.Errorf("fit classifier: sample %d has dimension %d, want %d", i, X[i].Dim, dim)
		}
		switch label {
		case cfg.Classes[0]:
			signs[i] = -1
			seen[0] = true
		case cfg.Classes[1]:
			signs[i] = 1
			seen[1] = true
		default:
			return nil, fmt.Errorf("fit classifier: sample %d has label %q outside (%s, %s)", i, label, cfg.Classes[0], cfg.Classes[1])
		}
	}
	if !seen[0] || !seen[1] {
		return nil, fmt.Errorf("fit classifier: training labels contain a single class: %w", models.ErrEmptyDataset)
	}

	obj := objective{X: X, signs: signs, c: cfg.C, dim: dim}
	problem := optimize.Problem{
		Func: obj.value,
		Grad: obj.gradient,
	}
	settings := &optimize.Settings{
		GradientThreshold: cfg.Tolerance,
		MajorIterations:   cfg.MaxIter,
	}
	x0 := make([]float64, dim+1)
	result, err := optimize.Minimize(problem, x0, settings, &optimize.LBFGS{})
	if result == nil {
		return nil, fmt.Errorf("fit classifier: %w", err)
	}

	diag := Diagnostics{
		Converged:  err == nil && converged(result.Status),
		Iterations: result.Stats.MajorIterations,
		Status:     result.Status.String(),
		Objective:  result.F,
	}
	if !diag.Converged {
		fields := []zap.Field{
			zap.String("status", diag.Status),
			zap.Int("iterations", diag.Iterations),
			zap.Int("max_iter", cfg.MaxIter),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		o.logger.Warn("logistic regression did not converge", fields...)
	} else {
		o.logger.Debug("logistic regression converged",
			zap.String("status", diag.Status),
			zap.Int("iterations", diag.Iterations),
			zap.Float64("objective", diag.Objective))
	}

	weights := make([]float64, dim)
	copy(weights, result.X[:dim])
	return &Model{cfg: cfg, weights: weights, bias: result.X[dim], diag: diag}, nil
}

func converged(s optimize.Status) bool {
	switch s {
	case optimize.Success, optimize.GradientThreshold, optimize.FunctionConvergence,
		optimize.FunctionThreshold, optimize.StepConvergence, optimize.MethodConverge:
		return true
	default:
		return false
	}
}

// objective evaluates the regularized logistic loss over parameters [w..., b].
type objective struct {
	X     []vector.Sparse
	signs []float64
	c     float64
	dim   int
}

func (o objective) margin(i int, x []float64) float64 {
	s := o.X[i]
	z := x[o.dim]
	for k, j := range s.Indices {
		z += s.Values[k] * x[j]
	}
	return o.signs[i] * z
}

func (o objective) value(x []float64) float64 {
	var reg float64
	for _, w := range x[:o.dim] {
		reg += w * w
	}
	var loss float64
	for i := range o.X {
		loss += utils.Log1pExp(-o.margin(i, x))
	}
	return 0.5*reg + o.c*loss
}

func (o objective) gradient(grad, x []float64) {
	copy(grad[:o.dim], x[:o.dim])
	grad[o.dim] = 0
	for i, s := range o.X {
		// d/dz log(1+exp(-y z)) = -y σ(-y z)
		g := -o.c * o.signs[i] * utils.Sigmoid(-o.margin(i, x))
		for k, j := range s.Indices {
			grad[j] += g * s.Values[k]
		}
		grad[o.dim] += g
	}
}

// FromState restores a fitted model.
func FromState(s State) (*Model, error) {
	if len(s.Weights) == 0 {
		return nil, fmt.Errorf("restore classifier: %w", models.ErrNotFitted)
	}
	cfg := s.Config.withDefaults()
	if err := cfg.validateClasses(); err != nil {
		return nil, fmt.Errorf("restore classifier: %w", err)
	}
	return &Model{
		cfg:     cfg,
		weights: append([]float64(nil), s.Weights...),
		bias:    s.Bias,
		diag:    s.Diagnostics,
	}, nil
}

// Fitted reports whether the model has weights.
func (m *Model) Fitted() bool {
	return m != nil && len(m.weights) > 0
}

// Score returns the linear score w·x + b.
func (m *Model) Score(x vector.Sparse) (float64, error) {
	if !m.Fitted() {
		return 0, models.ErrNotFitted
	}
	dot, err := x.Dot(m.weights)
	if err != nil {
		return 0, err
	}
	return dot + m.bias, nil
}

// Predict returns Classes[1] when the score is positive and Classes[0] otherwise.
func (m *Model) Predict(x vector.Sparse) (models.Label, error) {
	score, err := m.Score(x)
	if err != nil {
		return "", err
	}
	return m.labelFor(score), nil
}

// PredictProba returns σ(score) for Classes[1] and its complement for Classes[0].
func (m *Model) PredictProba(x vector.Sparse) (models.Probabilities, error) {
	score, err := m.Score(x)
	if err != nil {
		return models.Probabilities{}, err
	}
	return m.probabilitiesFor(score), nil
}

// Decide returns label, probabilities, and score from a single score evaluation.
func (m *Model) Decide(x vector.Sparse) (models.Label, models.Probabilities, float64, error) {
	score, err := m.Score(x)
	if err != nil {
		return "", models.Probabilities{}, 0, err
	}
	return m.labelFor(score), m.probabilitiesFor(score), score, nil
}

func (m *Model) labelFor(score float64) models.Label {
	if score > 0 {
		return m.cfg.Classes[1]
	}
	return m.cfg.Classes[0]
}

func (m *Model) probabilitiesFor(score float64) models.Probabilities {
	p1 := utils.Sigmoid(score)
	var p models.Probabilities
	set := func(l models.Label, v float64) {
		if l == models.LabelFake {
			p.Fake = v
		} else {
			p.Real = v
		}
	}
	set(m.cfg.Classes[1], p1)
	set(m.cfg.Classes[0], 1-p1)
	return p
}

// DecisionWeights returns a copy of the fitted weights in vocabulary order.
func (m *Model) DecisionWeights() []float64 {
	if m == nil {
		return nil
	}
	return append([]float64(nil), m.weights...)
}

// Weight returns the weight of feature i, or 0 when out of range.
func (m *Model) Weight(i int) float64 {
	if m == nil || i < 0 || i >= len(m.weights) {
		return 0
	}
	return m.weights[i]
}

// Bias returns the intercept.
func (m *Model) Bias() float64 {
	if m == nil {
		return 0
	}
	return m.bias
}

// Classes returns the ordered class pair.
func (m *Model) Classes() [2]models.Label {
	if m == nil {
		return DefaultConfig().Classes
	}
	return m.cfg.Classes
}

// Dim returns the number of weights.
func (m *Model) Dim() int {
	if m == nil {
		return 0
	}
	return len(m.weights)
}

// Diagnostics returns how the solver finished.
func (m *Model) Diagnostics() Diagnostics {
	if m == nil {
		return Diagnostics{}
	}
	return m.diag
}

// State returns the serializable form of the model.
func (m *Model) State() (State, error) {
	if !m.Fitted() {
		return State{}, models.ErrNotFitted
	}
	return State{
		Config:      m.cfg,
		Weights:     m.DecisionWeights(),
		Bias:        m.bias,
		Diagnostics: m.diag,
	}, nil
}
