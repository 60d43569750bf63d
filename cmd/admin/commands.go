package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"go-office-rental/internal/core/database"
	"go-office-rental/internal/domain"
	"go-office-rental/internal/repo"
)

type opener func(cfgPath string) (*repo.Store, func(), error)

type listFlags struct {
	offset int
	limit  int
	json   bool
}

func (f *listFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.offset, "offset", 0, "Rows to skip")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 50, "Maximum rows")
	cmd.Flags().BoolVarP(&f.json, "json", "j", false, "Output as JSON")
}

func newRootCmd(open opener) *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "office-admin",
		Short:         "Operator tooling for the office rental service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Config file (default $CONFIG_PATH or ./configs/config.local.yaml)")

	// 子命令执行时才连库
	withStore := func(fn func(cmd *cobra.Command, s *repo.Store) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			s, closeFn, err := open(cfgPath)
			if err != nil {
				return err
			}
			defer closeFn()
			return fn(cmd, s)
		}
	}

	root.AddCommand(
		migrateCmd(withStore),
		usersCmd(withStore),
		officesCmd(withStore),
		paymentsCmd(withStore),
	)
	return root
}

type runner func(fn func(cmd *cobra.Command, s *repo.Store) error) func(*cobra.Command, []string) error

func migrateCmd(with runner) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update all tables",
		Args:  cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, s *repo.Store) error {
			if err := database.Migrate(s.DB()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrated", len(domain.Models()), "tables")
			return nil
		}),
	}
}

func usersCmd(with runner) *cobra.Command {
	users := &cobra.Command{Use: "users", Short: "Inspect user accounts"}
	var f listFlags
	var q string
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, s *repo.Store) error {
			items, total, err := s.Users.Search(cmd.Context(), q, f.offset, f.limit)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), f.json, total, items, "ID\tEMAIL\tNAME\tROLE\tCREATED", func(u domain.User) []any {
				return []any{u.ID, u.Email, u.Name, u.Role, u.CreatedAt.Format("2006-01-02")}
			})
		}),
	}
	f.bind(list)
	list.Flags().StringVarP(&q, "query", "q", "", "Filter by email or name")
	users.AddCommand(list)
	return users
}

func officesCmd(with runner) *cobra.Command {
	offices := &cobra.Command{Use: "offices", Short: "Inspect office listings"}
	var f listFlags
	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List offices",
		Args:  cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, s *repo.Store) error {
			conds := map[string]any{}
			switch status {
			case "":
			case domain.StatusAvailable, domain.StatusRented:
				conds["rental_status"] = status
			default:
				return fmt.Errorf("--status must be %s or %s", domain.StatusAvailable, domain.StatusRented)
			}
			items, total, err := s.Offices.List(cmd.Context(), conds, f.offset, f.limit)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), f.json, total, items, "ID\tNAME\tOWNER\tSTATUS\tRENTER\tRATE", func(o domain.Office) []any {
				renter := "-"
				if o.RenterID != nil {
					renter = *o.RenterID
				}
				return []any{o.ID, o.BuildingName, o.OwnerID, o.RentalStatus, renter, fmt.Sprintf("%.2f", o.MonthlyRate)}
			})
		}),
	}
	f.bind(list)
	list.Flags().StringVar(&status, "status", "", "Filter by rental status (available|rented)")
	offices.AddCommand(list)
	return offices
}

func paymentsCmd(with runner) *cobra.Command {
	payments := &cobra.Command{Use: "payments", Short: "Inspect recorded rental payments"}
	var f listFlags
	var userID string
	list := &cobra.Command{
		Use:   "list",
		Short: "List payments, newest first",
		Args:  cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, s *repo.Store) error {
			conds := map[string]any{}
			if userID != "" {
				conds["user_id"] = userID
			}
			items, total, err := s.Payments.List(cmd.Context(), conds, f.offset, f.limit)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), f.json, total, items, "ID\tUSER\tOFFICE\tAMOUNT\tINTENT\tCREATED", func(p domain.Payment) []any {
				return []any{p.ID, p.UserID, p.OfficeID, fmt.Sprintf("%d %s", p.Amount, p.Currency), p.IntentID,
					p.CreatedAt.Format("2006-01-02 15:04")}
			})
		}),
	}
	f.bind(list)
	list.Flags().StringVar(&userID, "user", "", "Only payments made by this user id")
	payments.AddCommand(list)
	return payments
}

func render[T any](w io.Writer, asJSON bool, total int64, items []T, header string, row func(T) []any) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"total": total, "list": items})
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, it := range items {
		cols := row(it)
		for i, c := range cols {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, c)
		}
		fmt.Fprintln(tw)
	}
	fmt.Fprintf(tw, "total: %d\n", total)
	return tw.Flush()
}
