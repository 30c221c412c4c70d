package recipe

import "github.com/hammamikhairi/brewcue/internal/domain"

// CommonMethods lists the brew methods offered by the editor, in display order.
var CommonMethods = []string{
	"V60", "Aeropress", "Inverted Aeropress", "French Press", "Kalita Wave",
	"Chemex", "Switch", "Moka Pot", "Espresso",
}

var pourOver = []domain.StepType{
	domain.StepFilter, domain.StepAdd, domain.StepBloom, domain.StepPour,
	domain.StepStir, domain.StepSwirl, domain.StepWait,
}

// methodActions lists the step types that make sense per method, in
// brewing order.
var methodActions = map[string][]domain.StepType{
	"V60":         pourOver,
	"Kalita Wave": pourOver,
	"Chemex":      pourOver,
	"Switch":      pourOver,
	"Aeropress": {
		domain.StepFilter, domain.StepAdd, domain.StepBloom, domain.StepPour,
		domain.StepStir, domain.StepSwirl, domain.StepWait, domain.StepPress,
	},
	"Inverted Aeropress": {
		domain.StepAdd, domain.StepPour, domain.StepStir, domain.StepSwirl,
		domain.StepWait, domain.StepPlacePlunger, domain.StepPress,
	},
	"French Press": {
		domain.StepAdd, domain.StepBloom, domain.StepPour, domain.StepStir,
		domain.StepSwirl, domain.StepWait, domain.StepPress,
	},
	"Moka Pot": {domain.StepAdd, domain.StepWait},
	"Espresso": {domain.StepAdd, domain.StepWait},
}

var defaultSteps = map[string][]domain.BrewingStep{
	"V60": {
		step(domain.StepFilter, 10, "Rinse filter with hot water"),
		step(domain.StepAdd, 10, "Add coffee grounds, create well in center"),
		{Type: domain.StepBloom, Time: domain.Seconds(45), Amount: domain.Grams(60), Notes: "Pour 2x coffee weight for bloom"},
		pourStep(240, 30, "Pour to 60% total weight"),
		pourStep(200, 30, "Pour to 100% total weight"),
		step(domain.StepSwirl, 5, "Gentle swirl"),
		step(domain.StepWait, 90, "Wait for drawdown"),
	},
	"Aeropress": {
		step(domain.StepFilter, 10, "Rinse filter"),
		step(domain.StepAdd, 10, "Add coffee"),
		pourStep(200, 10, "Add water"),
		step(domain.StepStir, 10, "Stir gently"),
		step(domain.StepWait, 60, "Steep"),
		step(domain.StepPress, 30, "Press slowly"),
	},
	"Inverted Aeropress": {
		step(domain.StepAdd, 10, "Add coffee to inverted Aeropress"),
		pourStep(50, 10, "Add bloom water"),
		step(domain.StepStir, 5, "Stir bloom"),
		pourStep(150, 10, "Add remaining water"),
		step(domain.StepWait, 60, "Steep"),
		{Type: domain.StepPlacePlunger, Notes: "Flip and place plunger"},
		step(domain.StepPress, 30, "Press slowly"),
	},
	"French Press": {
		step(domain.StepAdd, 10, "Add coarse grounds"),
		pourStep(500, 30, "Add hot water"),
		step(domain.StepStir, 10, "Stir gently"),
		step(domain.StepWait, 240, "Steep for 4 minutes"),
		step(domain.StepPress, 20, "Press plunger slowly"),
	},
	"Chemex": {
		step(domain.StepFilter, 15, "Rinse thick filter thoroughly"),
		step(domain.StepAdd, 10, "Add coffee grounds"),
		{Type: domain.StepBloom, Time: domain.Seconds(45), Amount: domain.Grams(80), Notes: "Bloom with 2x coffee weight"},
		pourStep(420, 120, "Slow circular pour"),
		step(domain.StepWait, 60, "Wait for drawdown"),
	},
}

// IsCommonMethod reports whether method is one of CommonMethods.
func IsCommonMethod(method string) bool {
	for _, m := range CommonMethods {
		if m == method {
			return true
		}
	}
	return false
}

// Actions returns the step types offered for method followed by the
// recipe's custom types. Unknown methods get every built-in type.
func Actions(method string, custom []domain.CustomStepType) []domain.StepType {
	base, ok := methodActions[method]
	if !ok {
		base = domain.BuiltinStepTypes
	}
	out := make([]domain.StepType, 0, len(base)+len(custom))
	out = append(out, base...)
	for _, ct := range custom {
		out = append(out, domain.StepType(ct.Name))
	}
	return out
}

// DefaultSteps returns a copy of the starter steps for method.
func DefaultSteps(method string) ([]domain.BrewingStep, bool) {
	steps, ok := defaultSteps[method]
	if !ok {
		return nil, false
	}
	r := &domain.Recipe{Steps: steps}
	return r.Clone().Steps, true
}
