package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/grintel/grconsole/internal/config"
	"github.com/grintel/grconsole/internal/database"
	"github.com/grintel/grconsole/internal/fixtures"
	"github.com/grintel/grconsole/internal/search"
	"github.com/grintel/grconsole/internal/tableview"
)

func newSeedCmd(a *app) *cobra.Command {
	var (
		reset bool
		seed  int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo fixtures into the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, repos, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			if reset {
				if err := fixtures.Reset(db); err != nil {
					return fmt.Errorf("reset: %w", err)
				}
				a.log.Info("demo store cleared")
			}
			n, err := fixtures.Seed(cmd.Context(), repos, rand.New(rand.NewSource(seed)))
			if err != nil {
				return err
			}
			a.log.Info("demo store seeded", zap.Int("companies", n.Companies), zap.Int("users", n.Users), zap.Int("tickets", n.Tickets))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "companies:    %d\n", n.Companies)
			fmt.Fprintf(out, "users:        %d\n", n.Users)
			fmt.Fprintf(out, "tickets:      %d\n", n.Tickets)
			fmt.Fprintf(out, "stakeholders: %d\n", n.Stakeholders)
			fmt.Fprintf(out, "audit:        %d\n", n.Audit)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "delete every record before seeding")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for generated values")
	return cmd
}

func newMigrateCmd(a *app) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if reset {
				if err := database.ResetSchema(a.cfg.Database.Path); err != nil {
					return err
				}
				a.log.Info("schema recreated", zap.String("db", a.cfg.Database.Path))
				fmt.Fprintln(cmd.OutOrStdout(), "schema recreated")
				return nil
			}
			db, _, err := a.openStore()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return db.Close()
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "roll every migration back and apply again (drops data)")
	return cmd
}

type listFlags struct {
	sort     string
	page     int
	pageSize int
	query    string
	width    int
	format   string
}

func newListCmd(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list <screen>",
		Short: "Print one page of a screen",
		Long: `Print one page of a screen as a table.

Screens: companies, users, tickets, stakeholders, audit.

Example:
  grconsole list tickets --sort updatedAt:desc --search "status:open"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, repos, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			if err := a.seedIfEmpty(ctx, repos); err != nil {
				return err
			}

			if f.pageSize != 0 {
				a.cfg.Table.PageSize = f.pageSize
			}
			ws := a.workspace(repos)
			screen, err := ws.Screen(args[0])
			if err != nil {
				return err
			}
			rows, err := ws.Load(ctx, screen)
			if err != nil {
				return err
			}
			if q := search.Parse(f.query); !q.Empty() {
				rows = search.Apply(rows, q, screen.Search)
			}
			v, err := ws.NewView(screen, rows, nil)
			if err != nil {
				return err
			}
			if err := applySort(v, f.sort); err != nil {
				return err
			}
			if f.page != 1 && !v.SetPage(f.page) {
				return fmt.Errorf("page %d out of range (1-%d)", f.page, v.TotalPages())
			}
			switch f.format {
			case "view":
				fmt.Fprintln(cmd.OutOrStdout(), v.Render(tableview.RenderOptions{Width: f.width}))
				return nil
			case "grid":
				return writeGrid(cmd.OutOrStdout(), v)
			default:
				return fmt.Errorf("format %q: want view or grid", f.format)
			}
		},
	}
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort key, optionally suffixed with :asc or :desc")
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "rows per page (default from config)")
	cmd.Flags().StringVar(&f.query, "search", "", "search query: terms and field:value filters")
	cmd.Flags().IntVar(&f.width, "width", 0, "maximum line width, 0 for unbounded")
	cmd.Flags().StringVar(&f.format, "format", "view", "output format: view or grid")
	return cmd
}

// writeGrid prints the visible page as a bordered grid of plain cell text.
func writeGrid(w io.Writer, v *tableview.View) error {
	if v.Len() == 0 {
		_, err := fmt.Fprintln(w, v.EmptyMessage())
		return err
	}
	cols := v.Columns()
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.Title
	}
	table := tablewriter.NewWriter(w)
	table.Header(header...)

	page := v.Visible()
	for _, row := range page.Rows {
		cells := make([]any, len(cols))
		for i, c := range cols {
			cells[i] = c.Cell(row).Text
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d-%d of %d, page %d/%d\n", page.StartIndex+1, page.EndIndex, v.Len(), v.Page(), page.TotalPages)
	return err
}

// applySort parses "key", "key:asc" or "key:desc" and toggles v into that state.
func applySort(v *tableview.View, arg string) error {
	if arg == "" {
		return nil
	}
	key, dir, _ := strings.Cut(arg, ":")
	toggles := 1
	switch strings.ToLower(dir) {
	case "", "asc":
	case "desc":
		toggles = 2
	default:
		return fmt.Errorf("sort direction %q: want asc or desc", dir)
	}
	for _, c := range v.Columns() {
		if c.Key == key && !c.Sortable {
			return fmt.Errorf("column %q is not sortable", key)
		}
	}
	for range toggles {
		if err := v.ToggleSort(key); err != nil {
			return err
		}
	}
	return nil
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.Save(a.cfg, path); err != nil {
				return err
			}
			a.log.Info("config written", zap.String("path", path))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}
