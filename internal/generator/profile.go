package generator

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rewardsense/synthgen/internal/catalog"
	"github.com/rewardsense/synthgen/internal/models"
	"github.com/rewardsense/synthgen/internal/utils"
)

// ProfileGenerator creates synthetic user profiles. Each profile gets a
// spending archetype, a monthly budget, a card portfolio, a redemption
// preference, and demographic attributes correlated with the archetype.
// Output is fully reproducible for a given seed.
type ProfileGenerator struct {
	rng    *utils.Random
	cat    *catalog.Catalog
	config ProfileGeneratorConfig
	log    *logrus.Logger
}

// ProfileGeneratorConfig holds settings for profile generation
type ProfileGeneratorConfig struct {
	// NumUsers is the number of profiles to generate
	NumUsers int
	// Log receives progress events; defaults to the standard logger
	Log *logrus.Logger
}

// NewProfileGenerator creates a new profile generator
func NewProfileGenerator(rng *utils.Random, cat *catalog.Catalog, config ProfileGeneratorConfig) *ProfileGenerator {
	log := config.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ProfileGenerator{
		rng:    rng,
		cat:    cat,
		config: config,
		log:    log,
	}
}

// Generate creates all user profiles. User IDs are sequential
// (user_0001, user_0002, ...) so re-runs with the same seed produce
// identical output. Returns an error if the population distribution
// references an archetype the catalog does not define.
func (g *ProfileGenerator) Generate() ([]models.UserProfile, error) {
	g.log.WithFields(logrus.Fields{
		"users": g.config.NumUsers,
		"seed":  g.rng.Seed(),
	}).Info("generating user profiles")

	archetypes := g.assignArchetypes()

	profiles := make([]models.UserProfile, 0, g.config.NumUsers)
	seen := make(map[string]bool)

	for i, archName := range archetypes {
		arch, ok := g.cat.Archetype(archName)
		if !ok {
			return nil, fmt.Errorf("population distribution references unknown archetype %q", archName)
		}

		p := models.UserProfile{
			UserID:               fmt.Sprintf("user_%04d", i+1),
			Archetype:            archName,
			MonthlyBudget:        utils.Round2(g.rng.Float64Range(arch.MonthlyBudgetLow, arch.MonthlyBudgetHigh)),
			Cards:                g.pickCardPortfolio(archName),
			RedemptionPreference: g.pickRedemptionPreference(),
			AgeGroup:             g.pickAgeGroup(archName),
			LocationType:         g.pickLocationType(archName),
		}
		profiles = append(profiles, p)
		seen[archName] = true
	}

	g.log.WithFields(logrus.Fields{
		"profiles":   len(profiles),
		"archetypes": len(seen),
	}).Info("user profiles generated")

	return profiles, nil
}

// ExplodeCardMapping flattens profiles into one row per owned card
func ExplodeCardMapping(profiles []models.UserProfile) []models.UserCard {
	rows := make([]models.UserCard, 0, len(profiles)*2)
	for _, p := range profiles {
		for _, card := range p.Cards {
			rows = append(rows, models.UserCard{
				UserID:               p.UserID,
				CardID:               card,
				RedemptionPreference: p.RedemptionPreference,
			})
		}
	}
	return rows
}

// assignArchetypes draws an archetype for every user from the population
// mix, before any per-user attribute sampling.
func (g *ProfileGenerator) assignArchetypes() []string {
	dist := g.cat.Distribution()
	weights := make([]float64, len(dist))
	for i, d := range dist {
		weights[i] = d.Weight
	}

	names := make([]string, g.config.NumUsers)
	for i := range names {
		if idx := g.rng.WeightedIndex(weights); idx >= 0 {
			names[i] = dist[idx].Archetype
		}
	}
	return names
}

// pickCardPortfolio selects a template aligned with the archetype and
// returns a copy of its card list
func (g *ProfileGenerator) pickCardPortfolio(archetype string) []string {
	keys := g.cat.TemplatesFor(archetype)
	key := keys[g.rng.IntN(len(keys))]
	tmpl, ok := g.cat.Template(key)
	if !ok {
		return nil
	}
	cards := make([]string, len(tmpl.Cards))
	copy(cards, tmpl.Cards)
	return cards
}

// pickRedemptionPreference draws from the global redemption mix
func (g *ProfileGenerator) pickRedemptionPreference() models.RedemptionPreference {
	prefs := g.cat.RedemptionPreferences()
	weights := make([]float64, len(prefs))
	for i, p := range prefs {
		weights[i] = p.Weight
	}
	idx := g.rng.WeightedIndex(weights)
	if idx < 0 {
		return ""
	}
	return models.RedemptionPreference(prefs[idx].Key)
}

// pickAgeGroup draws an age group correlated with the archetype
func (g *ProfileGenerator) pickAgeGroup(archetype string) models.AgeGroup {
	bands := g.cat.AgeBandsFor(archetype)
	weights := make([]float64, len(bands))
	for i, b := range bands {
		weights[i] = b.Weight
	}
	idx := g.rng.WeightedIndex(weights)
	if idx < 0 {
		return ""
	}
	return models.AgeGroup(bands[idx].Group)
}

// pickLocationType draws urban/suburban/rural correlated with the archetype
func (g *ProfileGenerator) pickLocationType(archetype string) models.LocationType {
	mix := g.cat.LocationMixFor(archetype)
	weights := make([]float64, len(mix))
	for i, m := range mix {
		weights[i] = m.Weight
	}
	idx := g.rng.WeightedIndex(weights)
	if idx < 0 {
		return ""
	}
	return models.LocationType(mix[idx].Type)
}

// WriteProfilesCSV writes user profiles to user_profiles.csv.
// The cards column joins card names with "|".
func WriteProfilesCSV(profiles []models.UserProfile, outputDir string) error {
	writer, err := NewCSVWriter(CSVWriterConfig{
		OutputDir: outputDir,
		Filename:  "user_profiles",
		Headers: []string{
			"user_id", "archetype", "monthly_budget", "cards",
			"redemption_preference", "age_group", "location_type",
		},
	})
	if err != nil {
		return err
	}
	defer writer.Close()

	for _, p := range profiles {
		row := []string{
			p.UserID,
			p.Archetype,
			formatAmount(p.MonthlyBudget),
			strings.Join(p.Cards, "|"),
			string(p.RedemptionPreference),
			string(p.AgeGroup),
			string(p.LocationType),
		}
		if err := writer.WriteRow(row); err != nil {
			return err
		}
	}

	return writer.Close()
}

// WriteUserCardsCSV writes the exploded user/card ownership table
func WriteUserCardsCSV(cards []models.UserCard, outputDir string) error {
	writer, err := NewCSVWriter(CSVWriterConfig{
		OutputDir: outputDir,
		Filename:  "user_cards",
		Headers:   []string{"user_id", "card_id", "redemption_preference"},
	})
	if err != nil {
		return err
	}
	defer writer.Close()

	for _, c := range cards {
		row := []string{c.UserID, c.CardID, string(c.RedemptionPreference)}
		if err := writer.WriteRow(row); err != nil {
			return err
		}
	}

	return writer.Close()
}
