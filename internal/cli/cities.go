package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-clock/internal/display"
	"github.com/smokyabdulrahman/prayer-clock/internal/geo"
)

var flagCitiesLimit int

func newCitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cities <query>",
		Short: "Search cities for manual location selection",
		Long:  "Search OpenStreetMap for cities matching <query>, optionally restricted\nto an ISO country code with --country. Use a result with\n'config set latitude/longitude' or --latitude/--longitude.",
		Args:  cobra.ExactArgs(1),
		RunE:  runCities,
	}

	cmd.Flags().IntVar(&flagCitiesLimit, "limit", geo.DefaultCityLimit, "Maximum number of results")

	return cmd
}

func runCities(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)
	// Only an explicit --country filters; the configured one may be a name.
	var country string
	if flagWasSet(cmd.Flags(), cmd.Root().PersistentFlags(), "country") {
		country = strings.ToUpper(strings.TrimSpace(FlagCountry))
	}

	query := strings.TrimSpace(args[0])
	if query == "" {
		return fmt.Errorf("query must not be empty")
	}
	limit := flagCitiesLimit
	if limit <= 0 || limit > geo.MaxCityLimit {
		return fmt.Errorf("--limit must be between 1 and %d", geo.MaxCityLimit)
	}

	a, err := newApp(logger)
	if err != nil {
		return err
	}

	cities, err := a.nominatim.SearchCities(cmd.Context(), query, country, cfg.Locale, limit)
	if err != nil {
		return fmt.Errorf("searching cities: %w", err)
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(out, cities)
	}
	if len(cities) == 0 {
		fmt.Fprintf(out, "No cities found for %q.\n", query)
		return nil
	}

	tbl := display.NewTable([]string{"City", "Country", "Latitude", "Longitude"})
	for _, c := range cities {
		tbl.AddRow([]string{
			c.Name,
			c.Country,
			strconv.FormatFloat(c.Lat, 'f', 4, 64),
			strconv.FormatFloat(c.Lng, 'f', 4, 64),
		})
	}
	fmt.Fprint(out, tbl.Render())
	return nil
}
