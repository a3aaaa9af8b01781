package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BumpyClock/doublefetch"
	"github.com/BumpyClock/doublefetch/internal/patterns"
)

var (
	patternDir string
	category   string
	query      string
	countryArg string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "doublefetch",
		Short: "doublefetch - pattern-driven search-results telemetry extraction",
		Long:  "doublefetch fetches a page, evaluates a declarative extraction pattern against its DOM, and assembles telemetry messages",
	}

	runCmd := &cobra.Command{
		Use:   "run [url]",
		Short: "Run one extraction job against a fetched URL",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
	runCmd.Flags().StringVar(&patternDir, "patterns", "./patterns", "Directory of <category>.yaml pattern files")
	runCmd.Flags().StringVar(&category, "category", "", "Pattern category to run (required)")
	runCmd.Flags().StringVar(&query, "query", "", "Search query that produced the URL")
	runCmd.Flags().StringVar(&countryArg, "country", "", "Two-letter country code to stamp on context fields")
	_ = runCmd.MarkFlagRequired("category")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and compile a pattern directory, reporting any malformed rule",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
	validateCmd.Flags().StringVar(&patternDir, "patterns", "./patterns", "Directory of <category>.yaml pattern files")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("doublefetch v0.1.0")
		},
	}

	rootCmd.AddCommand(runCmd, validateCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runJob(cmd *cobra.Command, args []string) error {
	rawURL := args[0]

	opts := []doublefetch.Option{doublefetch.WithPatternDir(patternDir)}
	if countryArg != "" {
		opts = append(opts, doublefetch.WithCountryCode(countryArg))
	}

	client := doublefetch.New(opts...)

	messages, err := client.Run(context.Background(), category, query, rawURL)
	if err != nil {
		return err
	}

	if len(messages) == 0 {
		fmt.Println("no messages emitted")
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, m := range messages {
		if err := enc.Encode(m.Body); err != nil {
			return fmt.Errorf("encode message: %w", err)
		}
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	provider := patterns.NewYAMLFileProvider(patternDir)
	ruleSet, err := provider.Snapshot()
	if err != nil {
		return fmt.Errorf("reading pattern directory: %w", err)
	}

	if _, err := patterns.CompileSet(ruleSet); err != nil {
		return fmt.Errorf("pattern validation failed: %w", err)
	}

	fmt.Printf("%d pattern(s) compiled successfully\n", len(ruleSet))
	return nil
}
