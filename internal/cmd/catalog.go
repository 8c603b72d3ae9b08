package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rewardsense/synthgen/internal/catalog"
	"github.com/rewardsense/synthgen/internal/ui"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog [section]",
	Short: "Inspect the embedded generation catalog",
	Long: `Show the embedded configuration data that drives generation.

Available sections:
  archetypes   Spending archetypes with budgets and population weights
  categories   Spending categories with MCC codes and merchants
  templates    Card portfolio templates

Without a section, a summary of all three is shown.

Examples:
  synthgen catalog
  synthgen catalog archetypes`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"archetypes", "categories", "templates"},
	RunE:      runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	u := ui.New()
	if noColor {
		u.SetNoColor(true)
	}

	cat, err := catalog.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error("catalog: "+err.Error()))
		return err
	}

	section := ""
	if len(args) > 0 {
		section = args[0]
	}

	switch section {
	case "archetypes":
		printArchetypes(u, cat)
	case "categories":
		printCategories(u, cat)
	case "templates":
		printTemplates(u, cat)
	case "":
		fmt.Println(u.Header("Generation Catalog"))
		fmt.Println()
		fmt.Println(u.KeyValue("Archetypes", fmt.Sprintf("%d", len(cat.AllArchetypes()))))
		fmt.Println(u.KeyValue("Categories", fmt.Sprintf("%d", len(cat.AllCategories()))))
		fmt.Println(u.KeyValue("Templates", fmt.Sprintf("%d", len(cat.AllTemplates()))))
		fmt.Println()
		fmt.Println(u.Muted("  use 'synthgen catalog <section>' for details"))
	default:
		return fmt.Errorf("unknown section %q (want archetypes, categories, or templates)", section)
	}

	return nil
}

func printArchetypes(u *ui.UI, cat *catalog.Catalog) {
	fmt.Println(u.Header("Spending Archetypes"))
	fmt.Println()

	weights := make(map[string]float64)
	for _, d := range cat.Distribution() {
		weights[d.Archetype] = d.Weight
	}

	for _, a := range cat.AllArchetypes() {
		fmt.Println(u.Bold(a.Name))
		fmt.Println(u.Muted("  " + a.Description))
		fmt.Println(u.KeyValue("Budget", fmt.Sprintf("$%.0f - $%.0f", a.MonthlyBudgetLow, a.MonthlyBudgetHigh)))
		fmt.Println(u.KeyValue("Share", fmt.Sprintf("%.0f%%", weights[a.Name]*100)))
		fmt.Println(u.KeyValue("Templates", strings.Join(cat.TemplatesFor(a.Name), ", ")))
		fmt.Println()
	}
}

func printCategories(u *ui.UI, cat *catalog.Catalog) {
	fmt.Println(u.Header("Spending Categories"))
	fmt.Println()

	for _, c := range cat.AllCategories() {
		params := cat.AmountParamsFor(c.Key)
		fmt.Println(u.Bold(c.Key))
		fmt.Println(u.KeyValue("Amount", fmt.Sprintf("$%.0f mean / $%.0f std", params.Mean, params.Std)))
		fmt.Println(u.KeyValue("MCC codes", fmt.Sprintf("%v", c.MCCCodes)))
		fmt.Println(u.KeyValue("Merchants", fmt.Sprintf("%d", len(c.Merchants))))
		fmt.Println()
	}
}

func printTemplates(u *ui.UI, cat *catalog.Catalog) {
	fmt.Println(u.Header("Card Portfolio Templates"))
	fmt.Println()

	for _, t := range cat.AllTemplates() {
		fmt.Println(u.Bold(t.Key))
		for _, card := range t.Cards {
			fmt.Println(u.Muted("  - " + card))
		}
		fmt.Println()
	}
}
