package generator

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rewardsense/synthgen/internal/catalog"
	"github.com/rewardsense/synthgen/internal/generator/patterns"
	"github.com/rewardsense/synthgen/internal/models"
	"github.com/rewardsense/synthgen/internal/utils"
)

// MinTransactionAmount is the floor for any single transaction.
// Category budgets below this produce no transactions at all.
const MinTransactionAmount = 1.50

// TransactionGenerator creates synthetic transactions for a set of user
// profiles. For each user it determines monthly spend per category from
// archetype weights, applies seasonal multipliers, and splits the spend
// into individual transactions with realistic amounts, merchants, and
// dates.
type TransactionGenerator struct {
	rng    *utils.Random
	cat    *catalog.Catalog
	config TransactionGeneratorConfig
	log    *logrus.Logger

	start time.Time
	end   time.Time
}

// TransactionGeneratorConfig holds settings for transaction generation
type TransactionGeneratorConfig struct {
	// HistoryMonths is the length of the transaction window in 30-day months
	HistoryMonths int
	// StartDate is the start of the window. Zero value means
	// HistoryMonths*30 days before today at midnight.
	StartDate time.Time
	// Log receives progress events; defaults to the standard logger
	Log *logrus.Logger
}

// NewTransactionGenerator creates a new transaction generator
func NewTransactionGenerator(rng *utils.Random, cat *catalog.Catalog, config TransactionGeneratorConfig) *TransactionGenerator {
	log := config.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	start := config.StartDate
	if start.IsZero() {
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		start = today.AddDate(0, 0, -config.HistoryMonths*30)
	}

	return &TransactionGenerator{
		rng:    rng,
		cat:    cat,
		config: config,
		log:    log,
		start:  start,
		end:    start.AddDate(0, 0, config.HistoryMonths*30),
	}
}

// Window returns the [start, end) date range transactions fall in
func (g *TransactionGenerator) Window() (time.Time, time.Time) {
	return g.start, g.end
}

// Generate creates transactions for every profile. Output is sorted by
// date ascending; ties keep generation order so runs with the same seed
// produce byte-identical output. Returns an error if any profile
// references an archetype the catalog does not define.
func (g *TransactionGenerator) Generate(profiles []models.UserProfile) ([]models.Transaction, error) {
	g.log.WithFields(logrus.Fields{
		"users":  len(profiles),
		"months": g.config.HistoryMonths,
		"seed":   g.rng.Seed(),
	}).Info("generating transactions")

	var txns []models.Transaction
	counter := 0

	for i := range profiles {
		userTxns, err := g.generateUserTransactions(&profiles[i], &counter)
		if err != nil {
			return nil, err
		}
		txns = append(txns, userTxns...)
	}

	slices.SortStableFunc(txns, func(a, b models.Transaction) int {
		return a.Date.Compare(b.Date)
	})

	g.log.WithFields(logrus.Fields{
		"transactions": len(txns),
		"users":        len(profiles),
	}).Info("transactions generated")

	return txns, nil
}

// generateUserTransactions walks the window month by month for one user
func (g *TransactionGenerator) generateUserTransactions(user *models.UserProfile, counter *int) ([]models.Transaction, error) {
	arch, ok := g.cat.Archetype(user.Archetype)
	if !ok {
		return nil, fmt.Errorf("user %s has unknown archetype %q", user.UserID, user.Archetype)
	}

	var txns []models.Transaction

	current := g.start
	for current.Before(g.end) {
		year, month := current.Year(), current.Month()
		daysInMonth := patterns.DaysIn(year, month)

		// Clamp sampled days so dates stay inside the window: the
		// first month starts mid-month and the last ends mid-month.
		minDay := 1
		if year == g.start.Year() && month == g.start.Month() {
			minDay = g.start.Day()
		}
		maxDay := daysInMonth
		if year == g.end.Year() && month == g.end.Month() {
			maxDay = g.end.Day() - 1
		}

		// Iterate categories in catalog order, not map order, so the
		// draw sequence is stable across runs.
		for _, cat := range g.cat.AllCategories() {
			baseWeight, ok := arch.CategoryWeights[cat.Key]
			if !ok || baseWeight <= 0 {
				continue
			}

			seasonal := g.cat.SeasonalMultiplier(cat.Key, month)
			catBudget := user.MonthlyBudget * baseWeight * seasonal

			// per-user noise so users within an archetype differ
			catBudget *= g.rng.Float64Range(0.85, 1.15)

			txns = append(txns, g.splitIntoTransactions(splitParams{
				user:     user,
				category: &cat,
				budget:   catBudget,
				year:     year,
				month:    month,
				minDay:   minDay,
				maxDay:   maxDay,
			}, counter)...)
		}

		// advance to the 1st of the next month
		current = time.Date(year, month+1, 1, 0, 0, 0, 0, current.Location())
	}

	return txns, nil
}

// splitParams bundles the inputs for splitting one category-month budget
type splitParams struct {
	user     *models.UserProfile
	category *catalog.SpendingCategory
	budget   float64
	year     int
	month    time.Month
	minDay   int
	maxDay   int
}

// splitIntoTransactions turns a category's monthly budget into
// individual transactions. Transaction count follows a Poisson around
// budget/mean, amounts follow the category's normal distribution
// clamped to [MinTransactionAmount, remaining budget].
func (g *TransactionGenerator) splitIntoTransactions(p splitParams, counter *int) []models.Transaction {
	if p.budget < MinTransactionAmount {
		return nil
	}

	params := g.cat.AmountParamsFor(p.category.Key)

	estimate := max(1, int(math.Round(p.budget/params.Mean)))
	count := max(1, g.rng.Poisson(float64(estimate)))

	txns := make([]models.Transaction, 0, count)
	remaining := p.budget

	for j := 0; j < count; j++ {
		if remaining < MinTransactionAmount {
			break
		}

		amt := g.rng.NormalFloat64Range(params.Mean, params.Std)
		amt = max(MinTransactionAmount, min(amt, remaining))
		amt = utils.Round2(amt)
		remaining -= amt

		day := patterns.SampleDay(g.rng, p.category.Key, p.minDay, p.maxDay)
		date := time.Date(p.year, p.month, day, 0, 0, 0, 0, time.UTC)

		merchant := g.rng.PickString(p.category.Merchants)
		mcc := g.rng.PickInt(p.category.MCCCodes)
		card := g.rng.PickString(p.user.Cards)

		*counter++
		txns = append(txns, models.Transaction{
			TransactionID: fmt.Sprintf("txn_%07d", *counter),
			UserID:        p.user.UserID,
			Date:          date,
			Category:      p.category.Key,
			Merchant:      merchant,
			MCCCode:       mcc,
			Amount:        amt,
			CardUsed:      card,
		})
	}

	return txns
}

// WriteTransactionsCSV writes transactions to transactions.csv
func WriteTransactionsCSV(txns []models.Transaction, outputDir string) error {
	writer, err := NewCSVWriter(CSVWriterConfig{
		OutputDir: outputDir,
		Filename:  "transactions",
		Headers: []string{
			"transaction_id", "user_id", "date", "category",
			"merchant", "mcc_code", "amount", "card_used",
		},
	})
	if err != nil {
		return err
	}
	defer writer.Close()

	for _, t := range txns {
		row := []string{
			t.TransactionID,
			t.UserID,
			t.Date.Format("2006-01-02"),
			t.Category,
			t.Merchant,
			fmt.Sprintf("%d", t.MCCCode),
			formatAmount(t.Amount),
			t.CardUsed,
		}
		if err := writer.WriteRow(row); err != nil {
			return err
		}
	}

	return writer.Close()
}
