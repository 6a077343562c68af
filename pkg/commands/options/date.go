// Package options defines shared flag helpers for CLI commands.
package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/haru/pkg/timeutil"
)

const (
	layoutISO   = "2006-1-2"
	layoutShort = "1/2"
)

// DateOptions selects the date a command operates on, defaulting to today.
type DateOptions struct {
	OnString string
}

// AddDateArgs wires the --on flag on the provided command.
func AddDateArgs(cmd *cobra.Command, o *DateOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a date, example: --on="2026-3-2" or --on="3/2". Defaults to today.`)
}

// GetOn resolves the flag to a canonical date.
func (o *DateOptions) GetOn() (string, error) {
	if o.OnString == "" {
		return timeutil.Today(), nil
	}
	t, err := time.Parse(layoutISO, o.OnString)
	if err != nil {
		// Month/day shorthand; assume the nearest future occurrence.
		t, err = time.Parse(layoutShort, o.OnString)
		if err != nil {
			return "", err
		}
		t = t.AddDate(time.Now().Year(), 0, 0)
		if t.Before(time.Now()) {
			t = t.AddDate(1, 0, 0)
		}
	}
	return t.Format(timeutil.LayoutISO), nil
}
