package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/ukydev/yatra-planner/internal/export"
	"github.com/ukydev/yatra-planner/internal/models"
	"github.com/ukydev/yatra-planner/internal/planner"
)

func (a *app) planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show and edit the yatra plan",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show planned destinations in the order they were added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(_ context.Context, s *planner.Store) error {
				return printItems(cmd.OutOrStdout(), s.Items())
			})
		},
	}

	var pdfPath string
	itinerary := &cobra.Command{
		Use:   "itinerary",
		Short: "Show the plan ordered by priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(_ context.Context, s *planner.Store) error {
				items := s.SortedByPriority()
				if pdfPath == "" {
					return printItems(cmd.OutOrStdout(), items)
				}
				f, err := os.Create(pdfPath)
				if err != nil {
					return err
				}
				if err := export.ItineraryPDF(f, items, s.Settings(), s.Cost()); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Itinerary written to %s\n", pdfPath)
				return nil
			})
		},
	}
	itinerary.Flags().StringVar(&pdfPath, "pdf", "", "Write the itinerary to this PDF file")

	toggle := &cobra.Command{
		Use:   "toggle <destination-id>",
		Short: "Add a catalog destination to the plan, or remove it if already planned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(ctx context.Context, s *planner.Store) error {
				d := models.Destination{ID: args[0]}
				if !s.IsInPlan(args[0]) {
					if d, err = cat.Destination(ctx, args[0], ""); err != nil {
						return err
					}
				}
				if s.Toggle(ctx, d) {
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s to the plan.\n", d.Name)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from the plan.\n", args[0])
				}
				return nil
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove <destination-id>",
		Short: "Remove a destination from the plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *planner.Store) error {
				if !s.Remove(ctx, args[0]) {
					return fmt.Errorf("%s is not in the plan", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from the plan.\n", args[0])
				return nil
			})
		},
	}

	clearPlan := &cobra.Command{
		Use:   "clear",
		Short: "Remove every destination; settings are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *planner.Store) error {
				s.Clear(ctx)
				fmt.Fprintln(cmd.OutOrStdout(), "Plan cleared.")
				return nil
			})
		},
	}

	priority := a.itemUpdateCmd("priority <destination-id> <High|Medium|Low>", "Set a destination's priority",
		func(v string) models.PlanItemUpdate {
			p := models.Priority(v)
			return models.PlanItemUpdate{Priority: &p}
		})
	date := a.itemUpdateCmd("date <destination-id> <yyyy-mm-dd>", "Set a destination's visit date",
		func(v string) models.PlanItemUpdate { return models.PlanItemUpdate{VisitDate: &v} })
	mode := a.itemUpdateCmd("mode <destination-id> <Car|SharedACCoach|EV|PrivateSUV|OwnCar>", "Set a destination's travel mode",
		func(v string) models.PlanItemUpdate {
			m := models.TravelMode(v)
			return models.PlanItemUpdate{TravelMode: &m}
		})

	cost := &cobra.Command{
		Use:   "cost",
		Short: "Estimate the cost of the plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(_ context.Context, s *planner.Store) error {
				printCost(cmd.OutOrStdout(), s.Cost())
				return nil
			})
		},
	}

	budget := &cobra.Command{
		Use:   "budget",
		Short: "Compare the plan cost with the budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(_ context.Context, s *planner.Store) error {
				printBudget(cmd.OutOrStdout(), s.Settings().Budget, s.Cost().TotalCost, s.Budget())
				return nil
			})
		},
	}

	cmd.AddCommand(list, itinerary, toggle, remove, clearPlan, priority, date, mode, cost, budget)
	return cmd
}

func (a *app) itemUpdateCmd(use, short string, build func(string) models.PlanItemUpdate) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := build(args[1])
			if err := u.Validate(); err != nil {
				return err
			}
			return a.withStore(cmd, func(ctx context.Context, s *planner.Store) error {
				if !s.Update(ctx, args[0], u) {
					return fmt.Errorf("%s is not in the plan", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s.\n", args[0])
				return nil
			})
		},
	}
}

func (a *app) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change trip settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show trip settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(_ context.Context, s *planner.Store) error {
				printSettings(cmd.OutOrStdout(), s.Settings())
				return nil
			})
		},
	}

	var (
		persons                      int
		tier, transport, food, start string
		budget                       float64
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Change trip settings; only the flags given are changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var u models.SettingsUpdate
			flags := cmd.Flags()
			if flags.Changed("persons") {
				u.NumberOfPersons = &persons
			}
			if flags.Changed("tier") {
				t := models.AccommodationTier(tier)
				u.AccommodationTier = &t
			}
			if flags.Changed("transport") {
				m := models.TransportMode(transport)
				u.TransportMode = &m
			}
			if flags.Changed("food") {
				f := models.FoodPreference(food)
				u.FoodPreference = &f
			}
			if flags.Changed("start") {
				u.StartDate = &start
			}
			if flags.Changed("budget") {
				u.Budget = &budget
			}
			return a.withStore(cmd, func(ctx context.Context, s *planner.Store) error {
				settings, err := s.UpdateSettings(ctx, u)
				if err != nil {
					return err
				}
				printSettings(cmd.OutOrStdout(), settings)
				return nil
			})
		},
	}
	set.Flags().IntVar(&persons, "persons", 1, "Number of travellers")
	set.Flags().StringVar(&tier, "tier", "", "Accommodation: Standard, Comfort or Luxury")
	set.Flags().StringVar(&transport, "transport", "", "Transport: OwnCar, SharedACCoach, EV or PrivateSUV")
	set.Flags().StringVar(&food, "food", "", "Food: Satvik, Jain or Regular")
	set.Flags().StringVar(&start, "start", "", "Start date, yyyy-mm-dd")
	set.Flags().Float64Var(&budget, "budget", 0, "Budget in INR; 0 clears it")

	cmd.AddCommand(show, set)
	return cmd
}

func (a *app) familyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "family",
		Short: "Manage co-travellers",
	}

	var idProof string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a co-traveller",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *planner.Store) error {
				m, err := s.AddFamilyMember(ctx, strings.Join(args, " "), idProof)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s).\n", m.Name, m.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&idProof, "id-proof", "", "ID proof reference")

	remove := &cobra.Command{
		Use:   "remove <member-id>",
		Short: "Remove a co-traveller",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *planner.Store) error {
				if !s.RemoveFamilyMember(ctx, args[0]) {
					return fmt.Errorf("no family member %s", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

func printItems(w io.Writer, items []models.PlanItem) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "The plan is empty.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDATE\tMODE\tPRIORITY")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			item.Destination.ID, item.Destination.Name, item.VisitDate, item.TravelMode, item.Priority)
	}
	return tw.Flush()
}

func printCost(w io.Writer, c models.CostBreakdown) {
	fmt.Fprintf(w, "Days:           %d\n", c.TotalDays)
	fmt.Fprintf(w, "Accommodation:  %.0f\n", c.AccommodationCost)
	fmt.Fprintf(w, "Transport:      %.0f\n", c.TransportCost)
	fmt.Fprintf(w, "Entry:          %.0f\n", c.DestinationEntryCost)
	fmt.Fprintf(w, "Total (INR):    %.0f\n", c.TotalCost)
	fmt.Fprintf(w, "Carbon (kg):    %.1f\n", c.CarbonFootprint)
}

func printBudget(w io.Writer, budget, total float64, status models.BudgetStatus) {
	switch status.State {
	case models.BudgetUnset:
		fmt.Fprintf(w, "No budget set. Plan cost: %.0f\n", total)
	case models.BudgetOver:
		fmt.Fprintf(w, "Over budget by %.0f (cost %.0f, budget %.0f)\n", status.Amount, total, budget)
	default:
		fmt.Fprintf(w, "Under budget by %.0f (cost %.0f, budget %.0f)\n", status.Amount, total, budget)
	}
}

func printSettings(w io.Writer, s models.PlanSettings) {
	fmt.Fprintf(w, "Persons:        %d\n", s.NumberOfPersons)
	fmt.Fprintf(w, "Accommodation:  %s\n", s.AccommodationTier)
	fmt.Fprintf(w, "Transport:      %s\n", s.TransportMode)
	fmt.Fprintf(w, "Food:           %s\n", s.FoodPreference)
	if s.StartDate != "" {
		fmt.Fprintf(w, "Start date:     %s\n", s.StartDate)
	}
	if s.Budget > 0 {
		fmt.Fprintf(w, "Budget (INR):   %.0f\n", s.Budget)
	}
	for _, m := range s.FamilyMembers {
		fmt.Fprintf(w, "Family member:  %s (%s)\n", m.Name, m.ID)
	}
}
