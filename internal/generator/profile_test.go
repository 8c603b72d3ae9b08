package generator

import (
	"io"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/rewardsense/synthgen/internal/catalog"
	"github.com/rewardsense/synthgen/internal/models"
	"github.com/rewardsense/synthgen/internal/utils"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load() failed: %v", err)
	}
	return cat
}

func generateProfiles(t *testing.T, seed int64, numUsers int) []models.UserProfile {
	t.Helper()
	cat := mustCatalog(t)
	gen := NewProfileGenerator(utils.NewRandom(seed), cat, ProfileGeneratorConfig{
		NumUsers: numUsers,
		Log:      testLogger(),
	})
	profiles, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	return profiles
}

func TestProfileGenerator(t *testing.T) {
	profiles := generateProfiles(t, 42, 200)

	if len(profiles) != 200 {
		t.Fatalf("generated %d profiles, want 200", len(profiles))
	}

	cat := mustCatalog(t)

	t.Run("user IDs are unique and sequential", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, p := range profiles {
			if seen[p.UserID] {
				t.Errorf("duplicate user ID %q", p.UserID)
			}
			seen[p.UserID] = true
		}
		if profiles[0].UserID != "user_0001" {
			t.Errorf("first user ID = %q, want user_0001", profiles[0].UserID)
		}
		if profiles[199].UserID != "user_0200" {
			t.Errorf("last user ID = %q, want user_0200", profiles[199].UserID)
		}
	})

	t.Run("budgets fall within archetype range", func(t *testing.T) {
		for _, p := range profiles {
			arch, ok := cat.Archetype(p.Archetype)
			if !ok {
				t.Fatalf("profile %s has unknown archetype %q", p.UserID, p.Archetype)
			}
			if p.MonthlyBudget < arch.MonthlyBudgetLow || p.MonthlyBudget > arch.MonthlyBudgetHigh {
				t.Errorf("profile %s budget %.2f outside [%.2f, %.2f]",
					p.UserID, p.MonthlyBudget, arch.MonthlyBudgetLow, arch.MonthlyBudgetHigh)
			}
		}
	})

	t.Run("cards come from an affinity template", func(t *testing.T) {
		for _, p := range profiles {
			if len(p.Cards) == 0 {
				t.Errorf("profile %s has no cards", p.UserID)
				continue
			}
			matched := false
			for _, key := range cat.TemplatesFor(p.Archetype) {
				tmpl, _ := cat.Template(key)
				if tmpl != nil && reflect.DeepEqual(tmpl.Cards, p.Cards) {
					matched = true
					break
				}
			}
			if !matched {
				t.Errorf("profile %s cards %v match no template for %q",
					p.UserID, p.Cards, p.Archetype)
			}
		}
	})

	t.Run("demographic fields are populated", func(t *testing.T) {
		for _, p := range profiles {
			if p.RedemptionPreference == "" || p.AgeGroup == "" || p.LocationType == "" {
				t.Errorf("profile %s has empty demographic fields: %+v", p.UserID, p)
			}
		}
	})

	t.Run("population covers multiple archetypes", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, p := range profiles {
			seen[p.Archetype] = true
		}
		if len(seen) < 4 {
			t.Errorf("200 users hit only %d archetypes", len(seen))
		}
	})
}

func TestProfileGeneratorReproducibility(t *testing.T) {
	first := generateProfiles(t, 42, 50)
	second := generateProfiles(t, 42, 50)

	if !reflect.DeepEqual(first, second) {
		t.Error("same seed produced different profiles")
	}

	diverged := generateProfiles(t, 43, 50)
	if reflect.DeepEqual(first, diverged) {
		t.Error("different seeds produced identical profiles")
	}
}

func TestProfileGeneratorEmptyInput(t *testing.T) {
	profiles := generateProfiles(t, 42, 0)
	if len(profiles) != 0 {
		t.Errorf("generated %d profiles for zero users", len(profiles))
	}
}

func TestExplodeCardMapping(t *testing.T) {
	profiles := generateProfiles(t, 42, 25)
	mapping := ExplodeCardMapping(profiles)

	wantRows := 0
	for _, p := range profiles {
		wantRows += len(p.Cards)
	}
	if len(mapping) != wantRows {
		t.Fatalf("mapping has %d rows, want %d", len(mapping), wantRows)
	}

	byUser := make(map[string]map[string]bool)
	for _, p := range profiles {
		byUser[p.UserID] = make(map[string]bool)
		for _, c := range p.Cards {
			byUser[p.UserID][c] = true
		}
	}
	for _, row := range mapping {
		cards, ok := byUser[row.UserID]
		if !ok {
			t.Errorf("mapping references unknown user %q", row.UserID)
			continue
		}
		if !cards[row.CardID] {
			t.Errorf("user %s mapping includes unowned card %q", row.UserID, row.CardID)
		}
	}

	if len(mapping) > 0 && mapping[0].RedemptionPreference == "" {
		t.Error("mapping rows missing redemption preference")
	}
}
