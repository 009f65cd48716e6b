package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rawbytedev/epsilon"
	"github.com/rawbytedev/epsilon/internal/stats"
)

// rejected reports whether err comes from a header that was read but not
// accepted, as opposed to a file that could not be read at all.
func rejected(err error) bool {
	return errors.Is(err, epsilon.ErrMagicMismatch) ||
		errors.Is(err, epsilon.ErrUnsupportedVersion) ||
		errors.Is(err, epsilon.ErrPointerWidthMismatch) ||
		errors.Is(err, epsilon.ErrUnexpectedEnd)
}

func (a *app) metricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics [FILE...]",
		Short: "Check the headers of files and print the engine counters",
		Long: `Reads the header of every given file, then prints the counters of
this process in Prometheus text format. Files with a rejected header are
counted, not reported as errors. Files that cannot be read are errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if _, err := inspectFile(path); err != nil {
					if !rejected(err) {
						return err
					}
					a.log.Info("header rejected", slog.String("path", path), slog.Any("err", err))
				}
			}
			stats.WritePrometheus(cmd.OutOrStdout())
			return nil
		},
	}
}
