package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/ukydev/yatra-planner/internal/geo"
	"github.com/ukydev/yatra-planner/internal/models"
	"github.com/ukydev/yatra-planner/internal/search"
)

func (a *app) destinationsCmd() *cobra.Command {
	var locale string
	cmd := &cobra.Command{
		Use:   "destinations",
		Short: "List the destination catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			dests, err := cat.ListDestinations(cmd.Context(), locale)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tDAYS\tCOST")
			for _, d := range dests {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.0f\n", d.ID, d.Name, d.Location, d.EstimatedDays, d.EstimatedCost)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "", "Display names in this locale, e.g. hi")
	return cmd
}

func (a *app) searchCmd() *cobra.Command {
	var (
		maxDistance int
		fields      []string
		locale      string
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy search destinations by name and location",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxDistance < 0 {
				return fmt.Errorf("--max-distance must not be negative")
			}
			keys, err := search.DestinationKeys(fields...)
			if err != nil {
				return err
			}
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			dests, err := cat.ListDestinations(cmd.Context(), locale)
			if err != nil {
				return err
			}
			matches := search.FuzzySearch(dests, strings.Join(args, " "), keys, maxDistance)
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No destinations found.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SCORE\tID\tNAME\tLOCATION")
			for _, m := range matches {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.Score, m.Item.ID, m.Item.Name, m.Item.Location)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&maxDistance, "max-distance", search.DefaultMaxDistance, "Largest edit distance counted as a match")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Fields to search: name, location, description")
	cmd.Flags().StringVar(&locale, "locale", "", "Search and display names in this locale")
	return cmd
}

func (a *app) nearbyCmd() *cobra.Command {
	var (
		lat, lng float64
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "List destinations closest to a point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			origin := models.Location{Lat: lat, Lng: lng}
			if !origin.Valid() {
				return fmt.Errorf("coordinates %v,%v are out of range", lat, lng)
			}
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			dests, err := cat.ListDestinations(cmd.Context(), "")
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KM\tID\tNAME")
			for _, n := range geo.Nearby(origin, dests, limit) {
				fmt.Fprintf(tw, "%.1f\t%s\t%s\n", n.DistanceKm, n.Destination.ID, n.Destination.Name)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of destinations to show; 0 shows all")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	return cmd
}
