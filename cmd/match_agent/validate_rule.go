package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jharmon/matchengine/internal/observability"
	"github.com/jharmon/matchengine/internal/rules"
)

var validateRuleCmd = &cobra.Command{
	Use:   "validate-rule",
	Short: "Validate a scoring rule definition",
	Long:  "Validates a rule definition's condition and action JSON against their schemas and reports semantic warnings (unknown categories, bad regexes) without touching the database.",
	RunE:  runValidateRule,
}

var validateRuleFile string

func init() {
	validateRuleCmd.Flags().StringVarP(&validateRuleFile, "file", "f", "", "Path to rule definition JSON file (required)")

	if err := validateRuleCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(validateRuleCmd)
}

func runValidateRule(_ *cobra.Command, _ []string) error {
	content, err := os.ReadFile(validateRuleFile)
	if err != nil {
		return fmt.Errorf("failed to read rule file %s: %w", validateRuleFile, err)
	}

	var def rules.Definition
	if err := json.Unmarshal(content, &def); err != nil {
		return fmt.Errorf("failed to parse rule JSON: %w", err)
	}

	result := rules.Validate(def.Conditions, def.Actions)
	observability.NewPrinter(os.Stdout).PrintValidation(&result)

	if !result.Valid {
		return fmt.Errorf("rule definition is invalid")
	}
	return nil
}
