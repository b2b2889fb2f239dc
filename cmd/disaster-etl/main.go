package main

import (
	"fmt"
	"os"

	"disaster-etl/etl"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is overridden via ldflags at release time.
var version = "dev"

const usageText = `Please provide the filepaths of the messages and categories datasets as the
first and second argument respectively, as well as the filepath of the
database to save the cleaned data to as the third argument.

Example: disaster-etl disaster_messages.csv disaster_categories.csv DisasterResponse.db`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:          "disaster-etl <messages_csv> <categories_csv> <database>",
		Short:        "Clean disaster response messages into a SQLite database",
		Args:         cobra.ArbitraryArgs,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, debug)
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logs.")
	return cmd
}

// run drives the three stages in order. A wrong argument count is the one
// expected failure: it prints the friendly usage text on stdout and exits
// clean without touching any file. Every other failure aborts the run and
// surfaces the underlying error.
func run(cmd *cobra.Command, args []string, debug bool) error {
	out := cmd.OutOrStdout()
	if len(args) != 3 {
		fmt.Fprintln(out, usageText)
		return nil
	}
	messagesPath, categoriesPath, databasePath := args[0], args[1], args[2]

	logger, err := newLogger(debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	p := etl.New(logger)

	fmt.Fprintf(out, "Loading data...\n    MESSAGES: %s\n    CATEGORIES: %s\n", messagesPath, categoriesPath)
	merged, err := p.Load(messagesPath, categoriesPath)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Cleaning data...")
	cleaned, err := p.Clean(merged)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Saving data...\n    DATABASE: %s\n", databasePath)
	if err := p.Save(cleaned, databasePath); err != nil {
		return err
	}

	fmt.Fprintln(out, "Cleaned data saved to database!")
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
