package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-clock/internal/geo"
	"github.com/smokyabdulrahman/prayer-clock/internal/method"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Show the calculation method suggested for a location",
		Long: "Suggest a calculation method and high latitude rule from --timezone\n" +
			"and/or --latitude/--longitude. Without either, the location is detected\n" +
			"from your IP address.",
		Args: cobra.NoArgs,
		RunE: runResolve,
	}
}

// resolveJSON is the --json shape of `resolve`.
type resolveJSON struct {
	Timezone           string         `json:"timezone,omitempty"`
	Method             *method.Method `json:"method,omitempty"`
	LatitudeAdjustment *int           `json:"latitudeAdjustmentMethod,omitempty"`
	Country            string         `json:"country,omitempty"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	a, err := newApp(logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	tz := cfg.Timezone
	var coords *geo.Coordinates
	if cfg.HasCoordinates() {
		coords = &geo.Coordinates{Lat: cfg.Latitude, Lng: cfg.Longitude}
	}
	if tz == "" && coords == nil {
		detected, err := a.ip.DetectLocation(ctx)
		if err != nil {
			return fmt.Errorf("no location specified and auto-detection failed: %w", err)
		}
		tz = detected.Timezone
		c := detected.Coordinates()
		coords = &c
	}

	hint := a.resolver.Resolve(ctx, tz, coords)

	payload := resolveJSON{Timezone: tz, Country: hint.Country}
	if hint.Method != nil {
		if m, ok := method.Lookup(*hint.Method); ok {
			payload.Method = &m
		}
	}
	if hint.LatitudeAdjustment != nil {
		adj := int(*hint.LatitudeAdjustment)
		payload.LatitudeAdjustment = &adj
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(out, payload)
	}

	fmt.Fprintf(out, "  %-20s %s\n", "timezone", orNotSet(tz))
	fmt.Fprintf(out, "  %-20s %s\n", "country", orNotSet(hint.Country))
	if payload.Method != nil {
		fmt.Fprintf(out, "  %-20s %d (%s)\n", "method", payload.Method.ID, payload.Method.Name)
	} else {
		fmt.Fprintf(out, "  %-20s %s\n", "method", "(API default)")
	}
	if hint.LatitudeAdjustment != nil {
		fmt.Fprintf(out, "  %-20s %d (%s)\n", "latitude_adjustment", int(*hint.LatitudeAdjustment), *hint.LatitudeAdjustment)
	}
	return nil
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
