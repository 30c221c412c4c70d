// Package domain defines the core types and interfaces for the brew companion.
// All other packages depend on domain; domain depends on nothing.
package domain

// StepType tags what a brewing step asks the user to do. Built-in tags are
// listed below; anything else must be registered in the owning recipe's
// CustomStepTypes.
type StepType string

const (
	StepPour         StepType = "pour"
	StepWait         StepType = "wait"
	StepBloom        StepType = "bloom"
	StepSwirl        StepType = "swirl"
	StepStir         StepType = "stir"
	StepFilter       StepType = "filter"
	StepAdd          StepType = "add"
	StepPress        StepType = "press"
	StepPlacePlunger StepType = "place-plunger"
)

// BuiltinStepTypes lists the known tags in editor order.
var BuiltinStepTypes = []StepType{
	StepFilter, StepAdd, StepBloom, StepPour, StepStir, StepSwirl, StepWait, StepPress, StepPlacePlunger,
}

// IsBuiltin reports whether t is one of the known step tags.
func (t StepType) IsBuiltin() bool {
	for _, b := range BuiltinStepTypes {
		if b == t {
			return true
		}
	}
	return false
}

// TempUnit is the unit of the brew water temperature.
type TempUnit string

const (
	Celsius    TempUnit = "C"
	Fahrenheit TempUnit = "F"
)

// Recipe describes a complete brew.
type Recipe struct {
	ID              string           `json:"id" yaml:"id"`
	Name            string           `json:"name" yaml:"name"`
	Title           string           `json:"title" yaml:"title"`
	Method          string           `json:"method,omitempty" yaml:"method,omitempty"`
	Notes           string           `json:"notes,omitempty" yaml:"notes,omitempty"`
	Ingredients     Ingredients      `json:"ingredients" yaml:"ingredients"`
	Steps           []BrewingStep    `json:"steps" yaml:"steps"`
	CustomStepTypes []CustomStepType `json:"customStepTypes,omitempty" yaml:"custom_step_types,omitempty"`
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID        string
	Title     string
	Method    string
	Steps     int
	TotalTime int
}

// Ingredients holds the dose and water parameters of a brew.
type Ingredients struct {
	Coffee   float64  `json:"coffee" yaml:"coffee"` // grams
	Water    float64  `json:"water" yaml:"water"`   // grams
	Grind    float64  `json:"grind" yaml:"grind"`   // grinder-specific scale
	Temp     float64  `json:"temp" yaml:"temp"`
	TempUnit TempUnit `json:"tempUnit,omitempty" yaml:"temp_unit,omitempty"`
	Time     int      `json:"time" yaml:"time"` // derived: sum of step times
}

// BrewingStep is a single step of a recipe. A nil Time makes it a pause
// step that waits for the user instead of counting down.
type BrewingStep struct {
	Type   StepType `json:"type" yaml:"type"`
	Time   *int     `json:"time,omitempty" yaml:"time,omitempty"`     // seconds
	Amount *float64 `json:"amount,omitempty" yaml:"amount,omitempty"` // grams
	Notes  string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// CustomStepType is a user-defined step tag. It only decides which fields
// the editor exposes; the session engine never looks at it.
type CustomStepType struct {
	Name        string `json:"name" yaml:"name"`
	NeedsAmount bool   `json:"needsAmount" yaml:"needs_amount"`
	NeedsTime   bool   `json:"needsTime" yaml:"needs_time"`
}

// Seconds returns a pointer suitable for BrewingStep.Time.
func Seconds(n int) *int { return &n }

// Grams returns a pointer suitable for BrewingStep.Amount.
func Grams(g float64) *float64 { return &g }

// IsPause reports whether the step needs manual confirmation.
func (s BrewingStep) IsPause() bool { return s.Time == nil }

// Duration returns the countdown length in seconds, 0 for pause steps.
func (s BrewingStep) Duration() int {
	if s.Time == nil {
		return 0
	}
	return *s.Time
}

// TotalTime sums the durations of all timed steps.
func (r *Recipe) TotalTime() int {
	total := 0
	for _, s := range r.Steps {
		total += s.Duration()
	}
	return total
}

// CustomType returns the registered custom step type with the given name.
func (r *Recipe) CustomType(name StepType) (CustomStepType, bool) {
	for _, ct := range r.CustomStepTypes {
		if ct.Name == string(name) {
			return ct, true
		}
	}
	return CustomStepType{}, false
}

// Summary returns the listing view of the recipe.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:        r.ID,
		Title:     r.Title,
		Method:    r.Method,
		Steps:     len(r.Steps),
		TotalTime: r.TotalTime(),
	}
}

// Clone returns a deep copy. Sessions brew from a clone so later edits to
// the stored recipe never reach a running brew.
func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	out := *r
	out.Steps = make([]BrewingStep, len(r.Steps))
	for i, s := range r.Steps {
		if s.Time != nil {
			s.Time = Seconds(*s.Time)
		}
		if s.Amount != nil {
			s.Amount = Grams(*s.Amount)
		}
		out.Steps[i] = s
	}
	if r.CustomStepTypes != nil {
		out.CustomStepTypes = append([]CustomStepType(nil), r.CustomStepTypes...)
	}
	return &out
}
