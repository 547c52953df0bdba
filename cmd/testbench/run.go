package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/aretw0/testbench/internal/presentation/tui"
	"github.com/aretw0/testbench/internal/stand"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *options) *cobra.Command {
	var rounds int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Connect, measure and disconnect",
		Long: `Initializes and connects the bench, takes measurement rounds, prints the
readings and disconnects. A failed connect is followed by a disconnect of
everything already connected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.printStats(cmd)
			if err := s.load(opts.configPath); err != nil {
				return err
			}
			if err := s.connect(); err != nil {
				return err
			}

			var measureErr error
			for range rounds {
				if err := s.stand.Measure(); err != nil {
					s.logger.Warn("measurement round failed", "error", err)
					measureErr = errors.Join(measureErr, err)
				}
			}

			out := cmd.OutOrStdout()
			p := profileOf(cmd)
			tui.RenderReadings(out, readings(s.stand), p)

			if err := s.bench.Disconnect(); err != nil {
				return fmt.Errorf("disconnect failed: %w", err)
			}
			if measureErr != nil {
				return fmt.Errorf("measurement failed: %w", measureErr)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&rounds, "rounds", "n", 1, "Number of measurement rounds")
	return cmd
}

func readings(s *stand.Stand) []tui.Row {
	var rows []tui.Row
	for _, p := range []struct {
		active bool
		row    tui.Row
	}{
		{s.Voltage.Active(), tui.Row{Name: s.Voltage.Name(), Value: formatFloat(s.Voltage.Value()), Units: s.Voltage.Units(), Valid: s.Voltage.Valid()}},
		{s.Current.Active(), tui.Row{Name: s.Current.Name(), Value: formatFloat(s.Current.Value()), Units: s.Current.Units(), Valid: s.Current.Valid()}},
		{s.Errors.Active(), tui.Row{Name: s.Errors.Name(), Value: strconv.FormatUint(s.Errors.Total(), 10), Valid: s.Errors.Valid()}},
	} {
		if p.active {
			rows = append(rows, p.row)
		}
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// profileOf renders colors only when the command writes to a terminal.
func profileOf(cmd *cobra.Command) termenv.Profile {
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return tui.ProfileFor(f)
	}
	return termenv.Ascii
}
