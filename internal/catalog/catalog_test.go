package catalog

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	t.Run("returns same instance", func(t *testing.T) {
		c2, err := Load()
		if err != nil {
			t.Fatalf("second Load() failed: %v", err)
		}
		if c != c2 {
			t.Error("Load() returned different instances")
		}
	})

	t.Run("has categories", func(t *testing.T) {
		if len(c.AllCategories()) == 0 {
			t.Fatal("no categories loaded")
		}
		for _, cat := range c.AllCategories() {
			if len(cat.Merchants) == 0 {
				t.Errorf("category %q has no merchants", cat.Key)
			}
			if len(cat.MCCCodes) == 0 {
				t.Errorf("category %q has no MCC codes", cat.Key)
			}
		}
	})

	t.Run("has archetypes", func(t *testing.T) {
		if len(c.AllArchetypes()) == 0 {
			t.Fatal("no archetypes loaded")
		}
		for _, a := range c.AllArchetypes() {
			if a.MonthlyBudgetLow <= 0 || a.MonthlyBudgetHigh < a.MonthlyBudgetLow {
				t.Errorf("archetype %q has invalid budget range [%.2f, %.2f]",
					a.Name, a.MonthlyBudgetLow, a.MonthlyBudgetHigh)
			}
		}
	})

	t.Run("distribution references known archetypes", func(t *testing.T) {
		total := 0.0
		for _, d := range c.Distribution() {
			if _, ok := c.Archetype(d.Archetype); !ok {
				t.Errorf("distribution references unknown archetype %q", d.Archetype)
			}
			total += d.Weight
		}
		if total < 0.99 || total > 1.01 {
			t.Errorf("distribution weights sum to %.4f, want ~1.0", total)
		}
	})

	t.Run("category weights reference known categories", func(t *testing.T) {
		for _, a := range c.AllArchetypes() {
			for key := range a.CategoryWeights {
				if _, ok := c.Category(key); !ok {
					t.Errorf("archetype %q references unknown category %q", a.Name, key)
				}
			}
		}
	})
}

func TestCategoryLookup(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	cat, ok := c.Category("groceries")
	if !ok {
		t.Fatal("groceries category not found")
	}
	if cat.Key != "groceries" {
		t.Errorf("got key %q, want groceries", cat.Key)
	}

	if _, ok := c.Category("nonexistent"); ok {
		t.Error("lookup of unknown category succeeded")
	}
}

func TestTemplatesFor(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	t.Run("known archetype", func(t *testing.T) {
		keys := c.TemplatesFor("minimal_user")
		if len(keys) != 1 || keys[0] != "starter_cashback" {
			t.Errorf("minimal_user templates = %v, want [starter_cashback]", keys)
		}
	})

	t.Run("templates resolve to cards", func(t *testing.T) {
		for _, a := range c.AllArchetypes() {
			for _, key := range c.TemplatesFor(a.Name) {
				tmpl, ok := c.Template(key)
				if !ok {
					t.Errorf("archetype %q references unknown template %q", a.Name, key)
					continue
				}
				if len(tmpl.Cards) == 0 {
					t.Errorf("template %q has no cards", key)
				}
			}
		}
	})

	t.Run("unknown archetype falls back to all templates", func(t *testing.T) {
		keys := c.TemplatesFor("unknown")
		if len(keys) != len(c.AllTemplates()) {
			t.Errorf("fallback returned %d templates, want %d", len(keys), len(c.AllTemplates()))
		}
	})
}

func TestDemographicFallbacks(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	t.Run("known archetype age bands", func(t *testing.T) {
		bands := c.AgeBandsFor("high_roller")
		if len(bands) == 0 {
			t.Fatal("high_roller has no age bands")
		}
		for _, b := range bands {
			if b.Group == "18-25" {
				t.Error("high_roller should not include 18-25 band")
			}
		}
	})

	t.Run("unknown archetype gets default bands", func(t *testing.T) {
		bands := c.AgeBandsFor("unknown")
		if len(bands) != 2 {
			t.Errorf("got %d default bands, want 2", len(bands))
		}
	})

	t.Run("unknown archetype gets default location mix", func(t *testing.T) {
		mix := c.LocationMixFor("unknown")
		if len(mix) != 3 {
			t.Errorf("got %d default locations, want 3", len(mix))
		}
	})
}

func TestSeasonalMultiplier(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	tests := []struct {
		category string
		month    time.Month
		want     float64
	}{
		{"online_shopping", time.December, 2.0},
		{"online_shopping", time.November, 1.8},
		{"travel", time.July, 1.6},
		{"groceries", time.January, 0.9},
		{"groceries", time.June, 1.0},
		{"gas", time.December, 1.0},
		{"nonexistent", time.December, 1.0},
	}

	for _, tc := range tests {
		got := c.SeasonalMultiplier(tc.category, tc.month)
		if got != tc.want {
			t.Errorf("SeasonalMultiplier(%q, %v) = %v, want %v", tc.category, tc.month, got, tc.want)
		}
	}
}

func TestAmountParamsFor(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	ap := c.AmountParamsFor("groceries")
	if ap.Mean != 65.0 || ap.Std != 30.0 {
		t.Errorf("groceries params = %+v, want {65 30}", ap)
	}

	ap = c.AmountParamsFor("nonexistent")
	if ap.Mean != 50.0 || ap.Std != 25.0 {
		t.Errorf("fallback params = %+v, want {50 25}", ap)
	}
}
