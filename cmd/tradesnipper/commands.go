package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/tradesnipper/internal/config"
	"github.com/jask/tradesnipper/internal/extract"
	"github.com/jask/tradesnipper/internal/paste"
	"github.com/jask/tradesnipper/internal/prefs"
	"github.com/jask/tradesnipper/internal/service"
	"github.com/jask/tradesnipper/internal/trade"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tradesnipper %s\n", version)
	},
}

var extractCmd = &cobra.Command{
	Use:       "extract fx|swap",
	Short:     "Extract one trade from a file or stdin and print it",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"fx", "swap"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := trade.ParseKind(args[0])
		if err != nil {
			return err
		}
		c, err := readContent(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := loadCLI(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.prefs.Load(ctx)
		if err != nil {
			return err
		}
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			return writeRaw(cmd, a, kind, c, p)
		}
		v, err := a.extract.Extract(ctx, kind, c, p)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if showProse, _ := cmd.Flags().GetBool("prose"); showProse {
			fmt.Fprintln(out, prose(v, p.Entity))
		}
		if flows, _ := cmd.Flags().GetBool("cashflows"); flows {
			sw, ok := v.(trade.SwapTrade)
			if !ok {
				return errors.New("--cashflows only applies to swaps")
			}
			return writeCashflows(out, sw)
		}
		if save, _ := cmd.Flags().GetBool("save"); save {
			path, err := a.export.Export(v)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "saved %s\n", path)
			return nil
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		if path, _ := cmd.Flags().GetString("out"); path != "" {
			return os.WriteFile(path, append(data, '\n'), 0o644)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	},
}

func init() {
	extractCmd.Flags().String("file", "", "read the trade from a text or image file")
	extractCmd.Flags().String("image", "", "read the trade from an image file")
	extractCmd.Flags().String("out", "", "write the extracted JSON to this path")
	extractCmd.Flags().Bool("save", false, "save the JSON to the export directory")
	extractCmd.Flags().Bool("prose", false, "print the trade read from your entity's side")
	extractCmd.Flags().Bool("raw", false, "print the backend response body as received")
	extractCmd.Flags().Bool("cashflows", false, "print every swap cashflow instead of the JSON")
	extractCmd.MarkFlagsMutuallyExclusive("file", "image")
	extractCmd.MarkFlagsMutuallyExclusive("out", "save")
	extractCmd.MarkFlagsMutuallyExclusive("raw", "prose")
	extractCmd.MarkFlagsMutuallyExclusive("raw", "save")
	extractCmd.MarkFlagsMutuallyExclusive("raw", "cashflows")
	extractCmd.MarkFlagsMutuallyExclusive("cashflows", "out")
	extractCmd.MarkFlagsMutuallyExclusive("cashflows", "save")
}

// writeRaw skips decoding so a backend that answers with an unexpected shape
// can still be inspected.
func writeRaw(cmd *cobra.Command, a *app, kind trade.Kind, c paste.Content, p prefs.Preferences) error {
	req, err := extract.NewRequest(c, p)
	if err != nil {
		return err
	}
	data, err := a.client.Raw(cmd.Context(), kind, req)
	if err != nil {
		return err
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		return os.WriteFile(path, data, 0o644)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func writeCashflows(out io.Writer, sw trade.SwapTrade) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEG\tSTART\tEND\tRATE\tSPREAD\tREMAINING\tAMORTIZATION\tINTEREST")
	for _, cf := range sw.AllCashflows() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			cf.Leg, cf.StartDate, cf.EndDate,
			trade.FormatRate(cf.Rate), trade.FormatRate(cf.Spread),
			trade.FormatAmount(cf.RemainingCapital), trade.FormatAmount(cf.Amortization),
			trade.FormatAmount(cf.Interest))
	}
	return w.Flush()
}

func readContent(cmd *cobra.Command) (paste.Content, error) {
	if path, _ := cmd.Flags().GetString("image"); path != "" {
		c, err := paste.FromFile(path)
		if err != nil {
			return paste.Content{}, err
		}
		if c.Kind != paste.KindImage {
			return paste.Content{}, fmt.Errorf("%s is not an image", path)
		}
		return c, nil
	}
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		return paste.FromFile(path)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return paste.Content{}, fmt.Errorf("read stdin: %w", err)
	}
	return paste.FromPaste(string(data))
}

func prose(v any, entity string) string {
	switch t := v.(type) {
	case trade.FXTrade:
		return trade.FXProse(t, entity)
	case trade.SwapTrade:
		return trade.SwapProse(t, entity)
	}
	return ""
}

var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Manage person/company pairs",
}

var pairsImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import pairs from a two-column person,company CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modeFlag, _ := cmd.Flags().GetString("mode")
		mode, err := prefs.ParseImportMode(modeFlag)
		if err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		ctx := cmd.Context()
		a, err := loadCLI(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		p, res, err := a.prefs.ImportPairs(ctx, f, mode)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d pairs (%s, %d rows skipped), %d stored\n",
			len(res.Pairs), mode, res.Skipped, len(p.Pairs))
		return nil
	},
}

var pairsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored pairs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := loadCLI(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.prefs.Load(ctx)
		if err != nil {
			return err
		}
		term, _ := cmd.Flags().GetString("search")
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, m := range prefs.Search(p.Pairs, term) {
			fmt.Fprintf(w, "%d\t%s\t%s\n", m.Index+1, m.Pair.Person, m.Pair.Company)
		}
		return w.Flush()
	},
}

var pairsExportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write stored pairs as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := loadCLI(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.prefs.Load(ctx)
		if err != nil {
			return err
		}
		if err := prefs.WritePairsCSV(args[0], p.Pairs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d pairs to %s\n", len(p.Pairs), args[0])
		return nil
	},
}

func init() {
	pairsImportCmd.Flags().String("mode", "append", "append or overwrite")
	pairsListCmd.Flags().String("search", "", "filter by person or company, tolerating typos")
	pairsCmd.AddCommand(pairsImportCmd, pairsListCmd, pairsExportCmd)
}

var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "Show trades sent to booking",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := loadCLI(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		list, err := a.bookings.Recent(ctx, limit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, b := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				b.BookedAt.Local().Format(time.DateTime), b.Kind, b.Target, b.ID, b.Summary)
		}
		return w.Flush()
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete stored preferences and the booking log",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("reset deletes all settings and bookings; pass --yes to confirm")
		}
		ctx := cmd.Context()
		a, err := loadCLI(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		m := &service.MaintenanceService{DB: a.db}
		if err := m.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "reset complete")
		return nil
	},
}

func init() {
	bookingsCmd.Flags().Int("limit", 20, "how many bookings to show (0 for all)")
	resetCmd.Flags().Bool("yes", false, "confirm the reset")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and write the config file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.Path())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration (defaults, file and env) to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Path()
		if force, _ := cmd.Flags().GetBool("force"); !force {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists; pass --force to overwrite", path)
			}
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")
	configCmd.AddCommand(configPathCmd, configInitCmd)
}
