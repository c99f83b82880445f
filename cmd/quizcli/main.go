package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/interview-prep/backend/internal/catalog"
	"github.com/interview-prep/backend/internal/cli"
	"github.com/interview-prep/backend/internal/config"
	"github.com/interview-prep/backend/internal/evaluator"
	"github.com/interview-prep/backend/internal/logging"
	"github.com/interview-prep/backend/internal/quiz"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "quizcli",
		Short:        "Practice technical interview questions in the terminal",
		SilenceUsage: true,
	}
	root.AddCommand(newCategoriesCmd(), newRunCmd())
	return root
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the available question categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, source, cleanup, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			categories, err := source.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range categories {
				fmt.Fprintf(out, "%4d  %-12s %s\n", c.ID, c.Code, c.Name)
			}
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	var categoryIDs []int64

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Answer up to five random questions and get them evaluated",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			cfg, source, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			eval, err := evaluator.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			engine := quiz.NewEngine(source, eval, quiz.WithEvaluationTimeout(cfg.Evaluator.Timeout))
			_, err = cli.NewRunner(engine, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx, categoryIDs)
			return err
		},
	}
	cmd.Flags().Int64SliceVarP(&categoryIDs, "category", "c", nil, "category ID to draw questions from (repeatable; default all)")
	return cmd
}

func setup(ctx context.Context) (*config.Config, catalog.Source, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if cfg.Source.Driver == config.SourcePostgres {
		db, err := catalog.OpenPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Debug().Msg("using postgres question source")
		return cfg, catalog.NewSQLSource(db), func() { db.Close() }, nil
	}
	source := catalog.NewAPIClient(cfg.Backend.BaseURL, &http.Client{Timeout: cfg.Backend.Timeout})
	return cfg, source, func() {}, nil
}
