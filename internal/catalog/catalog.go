package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"
)

//go:embed *.json
var dataFiles embed.FS

// Catalog holds all loaded configuration data for the generators
type Catalog struct {
	Categories   CategoriesData
	Archetypes   ArchetypesData
	Portfolios   PortfoliosData
	Demographics DemographicsData
	Patterns     PatternsData

	// Lookup maps for efficient access
	categoryByKey          map[string]*SpendingCategory
	archetypeByName        map[string]*Archetype
	templateByKey          map[string]*PortfolioTemplate
	templatesByArchetype   map[string][]string
	ageBandsByArchetype    map[string][]AgeBand
	locationMixByArchetype map[string][]LocationWeight
	seasonalByCategory     map[string]map[time.Month]float64
	amountByCategory       map[string]AmountParams
}

// CategoriesData represents the structure of categories.json
type CategoriesData struct {
	Categories []SpendingCategory `json:"categories"`
}

// SpendingCategory is a spend category with its MCC codes and merchant pool
type SpendingCategory struct {
	Key       string   `json:"key"`
	MCCCodes  []int    `json:"mcc_codes"`
	Merchants []string `json:"merchants"`
}

// ArchetypesData represents the structure of archetypes.json
type ArchetypesData struct {
	Archetypes   []Archetype       `json:"archetypes"`
	Distribution []ArchetypeWeight `json:"distribution"`
}

// Archetype describes one spending persona
type Archetype struct {
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	MonthlyBudgetLow  float64            `json:"monthly_budget_low"`
	MonthlyBudgetHigh float64            `json:"monthly_budget_high"`
	CategoryWeights   map[string]float64 `json:"category_weights"`
}

// ArchetypeWeight is one entry in the population mix
type ArchetypeWeight struct {
	Archetype string  `json:"archetype"`
	Weight    float64 `json:"weight"`
}

// PortfoliosData represents the structure of portfolios.json
type PortfoliosData struct {
	Templates  []PortfolioTemplate `json:"templates"`
	Affinities []TemplateAffinity  `json:"affinities"`
}

// PortfolioTemplate is a named bundle of card products
type PortfolioTemplate struct {
	Key   string   `json:"key"`
	Cards []string `json:"cards"`
}

// TemplateAffinity lists the templates an archetype draws from
type TemplateAffinity struct {
	Archetype string   `json:"archetype"`
	Templates []string `json:"templates"`
}

// DemographicsData represents the structure of demographics.json
type DemographicsData struct {
	RedemptionPreferences []RedemptionWeight `json:"redemption_preferences"`
	AgeAffinities         []AgeAffinity      `json:"age_affinities"`
	DefaultAgeBands       []AgeBand          `json:"default_age_bands"`
	LocationAffinities    []LocationAffinity `json:"location_affinities"`
	DefaultLocationMix    []LocationWeight   `json:"default_location_mix"`
}

// RedemptionWeight is one entry in the redemption preference mix
type RedemptionWeight struct {
	Key    string  `json:"key"`
	Weight float64 `json:"weight"`
}

// AgeAffinity maps an archetype to its age band distribution
type AgeAffinity struct {
	Archetype string    `json:"archetype"`
	Bands     []AgeBand `json:"bands"`
}

// AgeBand is one weighted age group
type AgeBand struct {
	Group  string  `json:"group"`
	Weight float64 `json:"weight"`
}

// LocationAffinity maps an archetype to its location distribution
type LocationAffinity struct {
	Archetype string           `json:"archetype"`
	Mix       []LocationWeight `json:"mix"`
}

// LocationWeight is one weighted location type
type LocationWeight struct {
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
}

// PatternsData represents the structure of patterns.json
type PatternsData struct {
	SeasonalMultipliers []SeasonalPattern `json:"seasonal_multipliers"`
	AmountParams        []CategoryAmounts `json:"amount_params"`
}

// SeasonalPattern holds per-month spend multipliers for a category.
// Month keys are "1" through "12"; missing months default to 1.0.
type SeasonalPattern struct {
	Category string             `json:"category"`
	Months   map[string]float64 `json:"months"`
}

// CategoryAmounts holds the normal distribution parameters for
// transaction amounts in a category
type CategoryAmounts struct {
	Category string  `json:"category"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
}

// AmountParams is the resolved (mean, std) pair for amount sampling
type AmountParams struct {
	Mean float64
	Std  float64
}

// Categories without explicit amount parameters fall back to these.
var defaultAmountParams = AmountParams{Mean: 50.0, Std: 25.0}

var (
	instance *Catalog
	once     sync.Once
	loadErr  error
)

// Load loads the catalog from embedded files
// This is thread-safe and will only load data once
func Load() (*Catalog, error) {
	once.Do(func() {
		instance = &Catalog{}
		loadErr = instance.loadAll()
	})

	if loadErr != nil {
		return nil, loadErr
	}
	return instance, nil
}

// loadAll loads and validates all data files
func (c *Catalog) loadAll() error {
	files := []struct {
		name string
		dst  any
	}{
		{"categories.json", &c.Categories},
		{"archetypes.json", &c.Archetypes},
		{"portfolios.json", &c.Portfolios},
		{"demographics.json", &c.Demographics},
		{"patterns.json", &c.Patterns},
	}

	for _, f := range files {
		data, err := dataFiles.ReadFile(f.name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", f.name, err)
		}
		if err := json.Unmarshal(data, f.dst); err != nil {
			return fmt.Errorf("failed to parse %s: %w", f.name, err)
		}
	}

	if err := c.buildLookups(); err != nil {
		return err
	}
	return c.validate()
}

// buildLookups creates efficient lookup structures
func (c *Catalog) buildLookups() error {
	c.categoryByKey = make(map[string]*SpendingCategory)
	for i := range c.Categories.Categories {
		cat := &c.Categories.Categories[i]
		c.categoryByKey[cat.Key] = cat
	}

	c.archetypeByName = make(map[string]*Archetype)
	for i := range c.Archetypes.Archetypes {
		a := &c.Archetypes.Archetypes[i]
		c.archetypeByName[a.Name] = a
	}

	c.templateByKey = make(map[string]*PortfolioTemplate)
	for i := range c.Portfolios.Templates {
		t := &c.Portfolios.Templates[i]
		c.templateByKey[t.Key] = t
	}

	c.templatesByArchetype = make(map[string][]string)
	for _, aff := range c.Portfolios.Affinities {
		c.templatesByArchetype[aff.Archetype] = aff.Templates
	}

	c.ageBandsByArchetype = make(map[string][]AgeBand)
	for _, aff := range c.Demographics.AgeAffinities {
		c.ageBandsByArchetype[aff.Archetype] = aff.Bands
	}

	c.locationMixByArchetype = make(map[string][]LocationWeight)
	for _, aff := range c.Demographics.LocationAffinities {
		c.locationMixByArchetype[aff.Archetype] = aff.Mix
	}

	c.seasonalByCategory = make(map[string]map[time.Month]float64)
	for _, sp := range c.Patterns.SeasonalMultipliers {
		months := make(map[time.Month]float64, len(sp.Months))
		for key, mult := range sp.Months {
			m, err := strconv.Atoi(key)
			if err != nil || m < 1 || m > 12 {
				return fmt.Errorf("seasonal pattern for %q has invalid month key %q", sp.Category, key)
			}
			months[time.Month(m)] = mult
		}
		c.seasonalByCategory[sp.Category] = months
	}

	c.amountByCategory = make(map[string]AmountParams)
	for _, ap := range c.Patterns.AmountParams {
		c.amountByCategory[ap.Category] = AmountParams{Mean: ap.Mean, Std: ap.Std}
	}

	return nil
}

// validate checks referential integrity across the data files so a bad
// edit fails at startup instead of producing skewed output
func (c *Catalog) validate() error {
	if len(c.Categories.Categories) == 0 {
		return fmt.Errorf("categories.json defines no categories")
	}
	if len(c.Archetypes.Archetypes) == 0 {
		return fmt.Errorf("archetypes.json defines no archetypes")
	}
	if len(c.Portfolios.Templates) == 0 {
		return fmt.Errorf("portfolios.json defines no templates")
	}

	for _, cat := range c.Categories.Categories {
		if len(cat.Merchants) == 0 {
			return fmt.Errorf("category %q has no merchants", cat.Key)
		}
		if len(cat.MCCCodes) == 0 {
			return fmt.Errorf("category %q has no MCC codes", cat.Key)
		}
	}

	for _, a := range c.Archetypes.Archetypes {
		if a.MonthlyBudgetLow <= 0 || a.MonthlyBudgetHigh < a.MonthlyBudgetLow {
			return fmt.Errorf("archetype %q has invalid budget range [%.2f, %.2f]",
				a.Name, a.MonthlyBudgetLow, a.MonthlyBudgetHigh)
		}
		for key, w := range a.CategoryWeights {
			if _, ok := c.categoryByKey[key]; !ok {
				return fmt.Errorf("archetype %q references unknown category %q", a.Name, key)
			}
			if w < 0 {
				return fmt.Errorf("archetype %q has negative weight for category %q", a.Name, key)
			}
		}
	}

	total := 0.0
	for _, d := range c.Archetypes.Distribution {
		if _, ok := c.archetypeByName[d.Archetype]; !ok {
			return fmt.Errorf("distribution references unknown archetype %q", d.Archetype)
		}
		if d.Weight < 0 {
			return fmt.Errorf("distribution has negative weight for archetype %q", d.Archetype)
		}
		total += d.Weight
	}
	if total <= 0 {
		return fmt.Errorf("archetype distribution has no positive weights")
	}

	for _, t := range c.Portfolios.Templates {
		if len(t.Cards) == 0 {
			return fmt.Errorf("portfolio template %q has no cards", t.Key)
		}
	}
	for _, aff := range c.Portfolios.Affinities {
		if _, ok := c.archetypeByName[aff.Archetype]; !ok {
			return fmt.Errorf("portfolio affinity references unknown archetype %q", aff.Archetype)
		}
		for _, key := range aff.Templates {
			if _, ok := c.templateByKey[key]; !ok {
				return fmt.Errorf("portfolio affinity for %q references unknown template %q", aff.Archetype, key)
			}
		}
	}

	prefTotal := 0.0
	for _, p := range c.Demographics.RedemptionPreferences {
		if p.Weight < 0 {
			return fmt.Errorf("redemption preference %q has negative weight", p.Key)
		}
		prefTotal += p.Weight
	}
	if prefTotal <= 0 {
		return fmt.Errorf("redemption preferences have no positive weights")
	}

	for _, aff := range c.Demographics.AgeAffinities {
		if _, ok := c.archetypeByName[aff.Archetype]; !ok {
			return fmt.Errorf("age affinity references unknown archetype %q", aff.Archetype)
		}
	}
	for _, aff := range c.Demographics.LocationAffinities {
		if _, ok := c.archetypeByName[aff.Archetype]; !ok {
			return fmt.Errorf("location affinity references unknown archetype %q", aff.Archetype)
		}
	}
	if len(c.Demographics.DefaultAgeBands) == 0 {
		return fmt.Errorf("demographics.json defines no default age bands")
	}
	if len(c.Demographics.DefaultLocationMix) == 0 {
		return fmt.Errorf("demographics.json defines no default location mix")
	}

	for _, sp := range c.Patterns.SeasonalMultipliers {
		if _, ok := c.categoryByKey[sp.Category]; !ok {
			return fmt.Errorf("seasonal pattern references unknown category %q", sp.Category)
		}
	}
	for _, ap := range c.Patterns.AmountParams {
		if _, ok := c.categoryByKey[ap.Category]; !ok {
			return fmt.Errorf("amount params reference unknown category %q", ap.Category)
		}
		if ap.Mean <= 0 || ap.Std < 0 {
			return fmt.Errorf("amount params for %q are invalid (mean=%.2f, std=%.2f)",
				ap.Category, ap.Mean, ap.Std)
		}
	}

	return nil
}

// Category returns category data by key
func (c *Catalog) Category(key string) (*SpendingCategory, bool) {
	cat, ok := c.categoryByKey[key]
	return cat, ok
}

// Archetype returns archetype data by name
func (c *Catalog) Archetype(name string) (*Archetype, bool) {
	a, ok := c.archetypeByName[name]
	return a, ok
}

// Template returns a portfolio template by key
func (c *Catalog) Template(key string) (*PortfolioTemplate, bool) {
	t, ok := c.templateByKey[key]
	return t, ok
}

// AllCategories returns all categories in file order. Iterating this
// slice instead of a map keeps generation order deterministic.
func (c *Catalog) AllCategories() []SpendingCategory {
	return c.Categories.Categories
}

// AllArchetypes returns all archetypes in file order
func (c *Catalog) AllArchetypes() []Archetype {
	return c.Archetypes.Archetypes
}

// AllTemplates returns all portfolio templates in file order
func (c *Catalog) AllTemplates() []PortfolioTemplate {
	return c.Portfolios.Templates
}

// Distribution returns the archetype population mix in file order
func (c *Catalog) Distribution() []ArchetypeWeight {
	return c.Archetypes.Distribution
}

// RedemptionPreferences returns the redemption mix in file order
func (c *Catalog) RedemptionPreferences() []RedemptionWeight {
	return c.Demographics.RedemptionPreferences
}

// TemplatesFor returns the portfolio template keys an archetype draws
// from. Archetypes without an affinity entry draw from all templates.
func (c *Catalog) TemplatesFor(archetype string) []string {
	if keys, ok := c.templatesByArchetype[archetype]; ok && len(keys) > 0 {
		return keys
	}
	keys := make([]string, 0, len(c.Portfolios.Templates))
	for _, t := range c.Portfolios.Templates {
		keys = append(keys, t.Key)
	}
	return keys
}

// AgeBandsFor returns the age band distribution for an archetype,
// falling back to the default bands
func (c *Catalog) AgeBandsFor(archetype string) []AgeBand {
	if bands, ok := c.ageBandsByArchetype[archetype]; ok && len(bands) > 0 {
		return bands
	}
	return c.Demographics.DefaultAgeBands
}

// LocationMixFor returns the location distribution for an archetype,
// falling back to the default mix
func (c *Catalog) LocationMixFor(archetype string) []LocationWeight {
	if mix, ok := c.locationMixByArchetype[archetype]; ok && len(mix) > 0 {
		return mix
	}
	return c.Demographics.DefaultLocationMix
}

// SeasonalMultiplier returns the spend multiplier for a category in a
// given month. Categories or months without a pattern return 1.0.
func (c *Catalog) SeasonalMultiplier(category string, month time.Month) float64 {
	if months, ok := c.seasonalByCategory[category]; ok {
		if mult, ok := months[month]; ok {
			return mult
		}
	}
	return 1.0
}

// AmountParamsFor returns the amount distribution parameters for a
// category, falling back to generic defaults
func (c *Catalog) AmountParamsFor(category string) AmountParams {
	if ap, ok := c.amountByCategory[category]; ok {
		return ap
	}
	return defaultAmountParams
}
