package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"rewards/internal/config"
	"rewards/internal/models"
	"rewards/internal/repositories"
	"rewards/internal/services"
	"rewards/internal/services/rewards"

	"github.com/spf13/cobra"
)

const defaultCatalogFile = "data/catalog.yaml"

type demoCard struct {
	input models.CreateCardInput
	rules []models.CreateRuleInput
}

// demoWallet has two catalog cards, which get their rules seeded, and one
// card with hand-written rules.
var demoWallet = []demoCard{
	{input: models.CreateCardInput{Name: "HDFC Infinia", Bank: "HDFC", RewardType: models.RewardTypePoints}},
	{input: models.CreateCardInput{Name: "SBI Cashback", Bank: "SBI", RewardType: models.RewardTypeCashback}},
	{
		input: models.CreateCardInput{Name: "Everyday Rewards", Bank: "Demo Bank", RewardType: models.RewardTypeCashback},
		rules: []models.CreateRuleInput{
			{Category: rewards.CategoryGroceries, EarnRate: 2, CapPeriod: models.CapPeriodMonthly},
			{Category: rewards.CategoryGeneral, EarnRate: 1},
		},
	},
}

var demoOverrides = map[string]string{
	"corner cafe":  rewards.CategoryDining,
	"fresh basket": rewards.CategoryGroceries,
}

func newRootCmd() *cobra.Command {
	var reset bool

	root := &cobra.Command{
		Use:           "rewards_seed",
		Short:         "Seed and inspect rewards reference data",
		SilenceUsage:  true,
	}

	connect := func(cmd *cobra.Command, args []string) error {
		config.LoadEnv()
		if err := repositories.InitDB(); err != nil {
			return err
		}
		if reset {
			log.Println("♻️ Resetting database...")
			if err := repositories.ResetDatabase(); err != nil {
				return fmt.Errorf("failed to reset database: %w", err)
			}
		}
		return nil
	}

	importCmd := &cobra.Command{
		Use:     "import-catalog",
		Short:   "Import the reference card catalog from a YAML or JSON file",
		Args:    cobra.NoArgs,
		PreRunE: connect,
	}
	file := importCmd.Flags().StringP("file", "f", defaultCatalogFile, "Catalog file to import")
	importCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context(), cmd, *file)
	}

	demoCmd := &cobra.Command{
		Use:     "seed-demo",
		Short:   "Create a demo user with a small wallet",
		Args:    cobra.NoArgs,
		PreRunE: connect,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeedDemo(cmd.Context(), cmd)
		},
	}

	for _, c := range []*cobra.Command{importCmd, demoCmd} {
		c.Flags().BoolVar(&reset, "reset", false, "Drop and recreate every table first")
	}

	root.AddCommand(importCmd, demoCmd, newClassifyCmd())
	return root
}

// newClassifyCmd classifies merchant names against the built-in table. It
// needs no database.
func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [merchant...]",
		Short: "Suggest a spending category for merchant names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			classifier := rewards.NewClassifier(rewards.DefaultTables(), nil)
			for _, merchant := range args {
				c := classifier.Classify(cmd.Context(), merchant)
				line := fmt.Sprintf("%s\t%s\t%.2f\t%s", merchant, c.SuggestedCategory, c.Confidence, c.Source)
				if c.MatchedKey != "" {
					line += "\t" + c.MatchedKey
				}
				cmd.Println(line)
			}
			return nil
		},
	}
}

func runImport(ctx context.Context, cmd *cobra.Command, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	svc := services.New(repositories.DB, repositories.CacheService, config.LoadEngine())
	result, err := svc.Catalog.Import(ctx, f)
	if err != nil {
		return err
	}

	cmd.Printf("Imported %d catalog cards (batch %s)\n", result.Imported, result.Batch)
	for _, name := range result.Cards {
		cmd.Println("  " + name)
	}
	return nil
}

func runSeedDemo(ctx context.Context, cmd *cobra.Command) error {
	svc := services.New(repositories.DB, repositories.CacheService, config.LoadEngine())

	user, err := svc.Cards.CreateUser(ctx, models.PreferenceTravel)
	if err != nil {
		return err
	}
	cmd.Printf("Created user %d (%s)\n", user.ID, user.Preference)

	for _, dc := range demoWallet {
		details, err := svc.Cards.AddCard(ctx, user.ID, dc.input)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", dc.input.Name, err)
		}
		for _, r := range dc.rules {
			if _, err := svc.Cards.AddRewardRule(ctx, details.Card.ID, r); err != nil {
				return fmt.Errorf("failed to add %s rule to %s: %w", r.Category, dc.input.Name, err)
			}
		}
		cmd.Printf("  card %d %s (%s), catalog rules: %t\n",
			details.Card.ID, details.Card.Name, details.Card.RewardType, details.SeededFromCatalog)
	}

	for merchant, category := range demoOverrides {
		if _, err := svc.Rewards.SetMerchantOverride(ctx, merchant, category, 1); err != nil {
			return fmt.Errorf("failed to save override for %s: %w", merchant, err)
		}
	}
	cmd.Printf("Saved %d merchant overrides\n", len(demoOverrides))
	return nil
}
