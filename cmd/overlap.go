package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Artexxx/pair-overlap/internal/pipeline"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newOverlapCmd() *cobra.Command {
	var (
		dateFormat string
		today      string
	)

	cmd := &cobra.Command{
		Use:   "overlap FILE",
		Short: "Compute pair overlaps for a local CSV file and print them as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clock := time.Now
			if today != "" {
				t, err := time.Parse("2006-01-02", today)
				if err != nil {
					return fmt.Errorf("--today: %w", err)
				}
				clock = func() time.Time { return t }
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("os.Open: %w", err)
			}
			defer func() { _ = f.Close() }()

			svc := pipeline.NewService(pipeline.Deps{
				Clock: clock,
				Log:   zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger(),
			})

			overlaps, err := svc.Process(cmd.Context(), pipeline.Upload{
				ID:         uuid.New(),
				FileName:   filepath.Base(args[0]),
				DateFormat: dateFormat,
				Body:       f,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(overlaps)
		},
	}

	cmd.Flags().StringVar(&dateFormat, "date-format", "yyyy-MM-dd", "date format of DateFrom/DateTo columns")
	cmd.Flags().StringVar(&today, "today", "", "evaluation date for open-ended assignments (YYYY-MM-DD, default: current date)")

	return cmd
}
