package layout

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/spatial"
)

// Default parameter values. ForceAtlas and Random defaults follow the
// settings the headless pipeline has always run with; Yifan Hu and OpenOrd
// follow their published defaults.
const (
	DefaultRandomSize = 1000.0

	DefaultRescaleMinEdgeLength = 50.0

	DefaultFARepulsion       = 1000.0
	DefaultFAAttraction      = 10.0
	DefaultFAGravity         = 10.0
	DefaultFAMaxDisplacement = 1000.0
	DefaultFAInertia         = 0.1
	DefaultFASpeed           = 1.0
	DefaultFAFreezeStrength  = 80.0
	DefaultFAFreezeInertia   = 0.2
	DefaultFAMaxIterations   = 100

	DefaultYHOptimalDistance      = 100.0
	DefaultYHRelativeStrength     = 0.2
	DefaultYHStepRatio            = 0.95
	DefaultYHStepDisplacement     = 1.0
	DefaultYHConvergenceThreshold = 1e-4
	DefaultYHTheta                = 1.2
	DefaultYHMaxIterations        = 100

	DefaultOOIterations    = 750
	DefaultOODensityRadius = 10.0
)

// validate is a singleton validator instance.
var validate = validator.New()

// RandomParams configures the Random pass.
type RandomParams struct {
	Size float64 `json:"size" toml:"size" yaml:"size" validate:"gt=0"`
	Seed uint64  `json:"seed" toml:"seed" yaml:"seed"`
}

// SetDefaults fills zero fields.
func (p *RandomParams) SetDefaults() {
	if p.Size == 0 {
		p.Size = DefaultRandomSize
	}
}

// RescaleParams configures the Rescale pass.
type RescaleParams struct {
	MinEdgeLength float64 `json:"min_edge_length" toml:"min_edge_length" yaml:"min_edge_length" validate:"gt=0"`
}

// SetDefaults fills zero fields.
func (p *RescaleParams) SetDefaults() {
	if p.MinEdgeLength == 0 {
		p.MinEdgeLength = DefaultRescaleMinEdgeLength
	}
}

// ForceAtlasParams configures the ForceAtlas pass. Boolean switches and the
// fields for which zero is meaningful are pointers so that configuration
// layers can tell "off" from "unset".
type ForceAtlasParams struct {
	Repulsion       float64 `json:"repulsion" toml:"repulsion" yaml:"repulsion" validate:"gte=0"`
	Attraction      float64 `json:"attraction" toml:"attraction" yaml:"attraction" validate:"gte=0"`
	Gravity         float64 `json:"gravity" toml:"gravity" yaml:"gravity" validate:"gte=0"`
	MaxDisplacement float64 `json:"max_displacement" toml:"max_displacement" yaml:"max_displacement" validate:"gt=0"`
	Speed           float64 `json:"speed" toml:"speed" yaml:"speed" validate:"gt=0"`
	Theta           float64 `json:"theta" toml:"theta" yaml:"theta" validate:"gte=0"`
	MaxIterations   int     `json:"max_iterations" toml:"max_iterations" yaml:"max_iterations" validate:"gt=0"`

	// Inertia, FreezeStrength and FreezeInertia accept zero, so unset is nil.
	Inertia        *float64 `json:"inertia,omitempty" toml:"inertia" yaml:"inertia" validate:"omitempty,gte=0,lt=1"`
	FreezeStrength *float64 `json:"freeze_strength,omitempty" toml:"freeze_strength" yaml:"freeze_strength" validate:"omitempty,gte=0"`
	FreezeInertia  *float64 `json:"freeze_inertia,omitempty" toml:"freeze_inertia" yaml:"freeze_inertia" validate:"omitempty,gte=0,lt=1"`

	AdjustSizes                    *bool `json:"adjust_sizes,omitempty" toml:"adjust_sizes" yaml:"adjust_sizes"`
	OutboundAttractionDistribution *bool `json:"outbound_attraction_distribution,omitempty" toml:"outbound_attraction_distribution" yaml:"outbound_attraction_distribution"`
	FreezeBalance                  *bool `json:"freeze_balance,omitempty" toml:"freeze_balance" yaml:"freeze_balance"`
}

// SetDefaults fills zero and nil fields. Repulsion, attraction and gravity are only
// defaulted when all three are zero, so a caller can switch one law off.
func (p *ForceAtlasParams) SetDefaults() {
	if p.Repulsion == 0 && p.Attraction == 0 && p.Gravity == 0 {
		p.Repulsion, p.Attraction, p.Gravity = DefaultFARepulsion, DefaultFAAttraction, DefaultFAGravity
	}
	if p.MaxDisplacement == 0 {
		p.MaxDisplacement = DefaultFAMaxDisplacement
	}
	p.Inertia = orFloat(p.Inertia, DefaultFAInertia)
	if p.Speed == 0 {
		p.Speed = DefaultFASpeed
	}
	p.FreezeStrength = orFloat(p.FreezeStrength, DefaultFAFreezeStrength)
	p.FreezeInertia = orFloat(p.FreezeInertia, DefaultFAFreezeInertia)
	if p.Theta == 0 {
		p.Theta = spatial.DefaultTheta
	}
	if p.MaxIterations == 0 {
		p.MaxIterations = DefaultFAMaxIterations
	}
	p.AdjustSizes = orTrue(p.AdjustSizes)
	p.OutboundAttractionDistribution = orTrue(p.OutboundAttractionDistribution)
	p.FreezeBalance = orTrue(p.FreezeBalance)
}

// YifanHuParams configures the Yifan Hu pass.
type YifanHuParams struct {
	OptimalDistance      float64 `json:"optimal_distance" toml:"optimal_distance" yaml:"optimal_distance" validate:"gt=0"`
	RelativeStrength     float64 `json:"relative_strength" toml:"relative_strength" yaml:"relative_strength" validate:"gt=0"`
	StepRatio            float64 `json:"step_ratio" toml:"step_ratio" yaml:"step_ratio" validate:"gt=0,lt=1"`
	InitialStep          float64 `json:"initial_step" toml:"initial_step" yaml:"initial_step" validate:"gt=0"`
	StepDisplacement     float64 `json:"step_displacement" toml:"step_displacement" yaml:"step_displacement" validate:"gt=0"`
	ConvergenceThreshold float64 `json:"convergence_threshold" toml:"convergence_threshold" yaml:"convergence_threshold" validate:"gte=0"`
	Theta                float64 `json:"theta" toml:"theta" yaml:"theta" validate:"gte=0"`
	MaxIterations        int     `json:"max_iterations" toml:"max_iterations" yaml:"max_iterations" validate:"gt=0"`
	AdaptiveCooling      *bool   `json:"adaptive_cooling,omitempty" toml:"adaptive_cooling" yaml:"adaptive_cooling"`
}

// SetDefaults fills zero fields. InitialStep defaults to OptimalDistance/5.
func (p *YifanHuParams) SetDefaults() {
	if p.OptimalDistance == 0 {
		p.OptimalDistance = DefaultYHOptimalDistance
	}
	if p.RelativeStrength == 0 {
		p.RelativeStrength = DefaultYHRelativeStrength
	}
	if p.StepRatio == 0 {
		p.StepRatio = DefaultYHStepRatio
	}
	if p.InitialStep == 0 {
		p.InitialStep = p.OptimalDistance / 5
	}
	if p.StepDisplacement == 0 {
		p.StepDisplacement = DefaultYHStepDisplacement
	}
	if p.ConvergenceThreshold == 0 {
		p.ConvergenceThreshold = DefaultYHConvergenceThreshold
	}
	if p.Theta == 0 {
		p.Theta = DefaultYHTheta
	}
	if p.MaxIterations == 0 {
		p.MaxIterations = DefaultYHMaxIterations
	}
	p.AdaptiveCooling = orTrue(p.AdaptiveCooling)
}

// OpenOrdParams configures the staged OpenOrd pass. When every stage length
// is zero the stages are derived from Iterations as 25/25/25/10/15 percent.
type OpenOrdParams struct {
	LiquidStage    int `json:"liquid_stage" toml:"liquid_stage" yaml:"liquid_stage" validate:"gte=0"`
	ExpansionStage int `json:"expansion_stage" toml:"expansion_stage" yaml:"expansion_stage" validate:"gte=0"`
	CooldownStage  int `json:"cooldown_stage" toml:"cooldown_stage" yaml:"cooldown_stage" validate:"gte=0"`
	CrunchStage    int `json:"crunch_stage" toml:"crunch_stage" yaml:"crunch_stage" validate:"gte=0"`
	SimmerStage    int `json:"simmer_stage" toml:"simmer_stage" yaml:"simmer_stage" validate:"gte=0"`

	Iterations    int     `json:"iterations" toml:"iterations" yaml:"iterations" validate:"gte=0"`
	DensityRadius float64 `json:"density_radius" toml:"density_radius" yaml:"density_radius" validate:"gt=0"`
	Seed          uint64  `json:"seed" toml:"seed" yaml:"seed"`
}

// SetDefaults fills zero fields and derives stage lengths when none is set.
func (p *OpenOrdParams) SetDefaults() {
	if p.DensityRadius == 0 {
		p.DensityRadius = DefaultOODensityRadius
	}
	if p.totalStages() > 0 {
		return
	}
	if p.Iterations == 0 {
		p.Iterations = DefaultOOIterations
	}
	n := p.Iterations
	p.LiquidStage = n * 25 / 100
	p.ExpansionStage = n * 25 / 100
	p.CooldownStage = n * 25 / 100
	p.CrunchStage = n * 10 / 100
	p.SimmerStage = n - p.LiquidStage - p.ExpansionStage - p.CooldownStage - p.CrunchStage
}

func (p *OpenOrdParams) totalStages() int {
	return p.LiquidStage + p.ExpansionStage + p.CooldownStage + p.CrunchStage + p.SimmerStage
}

func orTrue(b *bool) *bool {
	if b != nil {
		return b
	}
	t := true
	return &t
}

func isTrue(b *bool) bool { return b != nil && *b }

func orFloat(v *float64, def float64) *float64 {
	if v != nil {
		return v
	}
	return &def
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// validateParams checks struct tags and converts the first failure into an
// INVALID_PARAMS error naming the field.
func validateParams(name string, p any) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidParams, err, "%s parameters", name)
	}
	e := verrs[0]
	return errors.New(errors.ErrCodeInvalidParams, "%s: %s", name, describe(e))
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", e.Field(), e.Param(), e.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", e.Field(), e.Param(), e.Value())
	case "lt":
		return fmt.Sprintf("%s must be less than %s, got %v", e.Field(), e.Param(), e.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", e.Field(), e.Tag())
	}
}
