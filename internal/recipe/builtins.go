// Package recipe holds the built-in recipes, the brew-method catalogue,
// recipe editing and validation, and YAML import/export.
package recipe

import "github.com/hammamikhairi/brewcue/internal/domain"

// Builtin recipe IDs.
const (
	HoffmannInvertedAeropressID = "jh-inverted-aeropress"
	CounterCultureChemexID      = "cc-chemex"
)

// Builtins returns fresh copies of the recipes every new library starts with.
func Builtins() []*domain.Recipe {
	list := []*domain.Recipe{
		hoffmannInvertedAeropress(),
		counterCultureChemex(),
	}
	for _, r := range list {
		r.Ingredients.Time = r.TotalTime()
	}
	return list
}

func step(t domain.StepType, secs int, notes string) domain.BrewingStep {
	return domain.BrewingStep{Type: t, Time: domain.Seconds(secs), Notes: notes}
}

func pourStep(grams float64, secs int, notes string) domain.BrewingStep {
	return domain.BrewingStep{Type: domain.StepPour, Time: domain.Seconds(secs), Amount: domain.Grams(grams), Notes: notes}
}

func hoffmannInvertedAeropress() *domain.Recipe {
	return &domain.Recipe{
		ID:     HoffmannInvertedAeropressID,
		Name:   "james-hoffmann-inverted-aeropress",
		Title:  "James Hoffmann Inverted Aeropress",
		Method: "Inverted Aeropress",
		Notes: "Video: https://www.youtube.com/watch?v=AI4ynXzkSQo\n\n" +
			"Grind size (finer than pour-over, coarser than espresso):\n" +
			"• Comandante C40: 11-16 clicks (medium roast)\n" +
			"• Baratza Encore: 12-14\n" +
			"• Timemore C2: 11 clicks (light), 12-14 (medium)\n" +
			"• 1Zpresso JX: 42-48 clicks (1.5 turns)",
		Ingredients: domain.Ingredients{
			Coffee:   18,
			Water:    250,
			Grind:    12,
			Temp:     95,
			TempUnit: domain.Celsius,
		},
		Steps: []domain.BrewingStep{
			step(domain.StepAdd, 10, "Assemble Aeropress inverted. Add coffee grounds. No need to rinse filter or preheat."),
			pourStep(250, 15, "Pour 250g hot water. Light roast: boiling water. Medium roast: 90-95°C. Dark roast: 85°C."),
			step(domain.StepSwirl, 5, "Gently swirl to saturate all grounds. No stirring needed."),
			step(domain.StepWait, 120, "Steep for 2 minutes"),
			step(domain.StepPlacePlunger, 10, "Place filter cap on (dry filter is fine), flip onto cup"),
			step(domain.StepPress, 30, "Press gently for ~30 seconds. Press all the way through the hissing sound."),
		},
	}
}

func counterCultureChemex() *domain.Recipe {
	const drain = "Wait for water to drain about 1cm"
	return &domain.Recipe{
		ID:     CounterCultureChemexID,
		Name:   "counter-culture-chemex",
		Title:  "Counter Culture Chemex",
		Method: "Chemex",
		Notes: "Source: https://counterculturecoffee.com/pages/quick-easy-chemex\n" +
			"Makes two 12oz cups\n\n" +
			"Grind size (medium-coarse, like kosher salt):\n" +
			"• Comandante C40: 20-24 clicks\n" +
			"• Baratza Encore: 20-24\n" +
			"• Timemore C2: 18-20 clicks",
		Ingredients: domain.Ingredients{
			Coffee:   45,
			Water:    750,
			Grind:    22,
			Temp:     93,
			TempUnit: domain.Celsius,
		},
		Steps: []domain.BrewingStep{
			step(domain.StepFilter, 15, "Place filter in Chemex and rinse with hot water. Discard rinse water."),
			step(domain.StepAdd, 10, "Add 45g ground coffee to filter. Shake to level the bed."),
			pourStep(100, 15, "Bloom: Pour 100g water to wet all grounds"),
			step(domain.StepWait, 30, "Wait 30 seconds for bloom"),
			pourStep(100, 15, "Pour to 200g in circular motion"),
			step(domain.StepWait, 15, drain),
			pourStep(100, 15, "Pour to 300g in circular motion"),
			step(domain.StepWait, 15, drain),
			pourStep(150, 20, "Pour to 450g in circular motion"),
			step(domain.StepWait, 15, drain),
			pourStep(150, 20, "Pour to 600g in circular motion"),
			step(domain.StepWait, 15, drain),
			pourStep(150, 20, "Pour to 750g in circular motion"),
			step(domain.StepWait, 90, "Let coffee finish draining. Total brew time: 4:00-5:00"),
		},
	}
}
