package mix

import "github.com/mamadbah2/concreto/internal/domain/models"

var templates = []models.MixTemplate{
	{Name: "Standard Mix", MixComposition: models.MixComposition{Cement: 35, Sand: 45, Water: 20}},
	{Name: "High Strength", MixComposition: models.MixComposition{Cement: 45, Sand: 40, Water: 15}},
	{Name: "Economical", MixComposition: models.MixComposition{Cement: 25, Sand: 50, Water: 25}},
	{Name: "Quick Setting", MixComposition: models.MixComposition{Cement: 40, Sand: 45, Water: 15}},
}

// Templates returns the preset compositions. The slice is a copy.
func Templates() []models.MixTemplate {
	out := make([]models.MixTemplate, len(templates))
	copy(out, templates)
	return out
}
