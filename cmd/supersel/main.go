package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/umarmehmood-wq/superset/internal/api"
	"github.com/umarmehmood-wq/superset/internal/auth"
	"github.com/umarmehmood-wq/superset/internal/domain"
	"github.com/umarmehmood-wq/superset/internal/history"
	"github.com/umarmehmood-wq/superset/internal/selector"
	"github.com/umarmehmood-wq/superset/internal/tui"
)

var (
	// CLI flags
	urlFlag     string
	datasetFlag int
	chartFlag   string
	searchFlag  string
	limitFlag   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "supersel",
		Short: "Terminal pickers for Superset charts, datasets and columns",
		Long: `supersel browses a Superset server from the terminal.

Interactive flow: pick a dataset, pick its columns, pick a chart scoped to
that dataset. Search is debounced and paginated server-side.

Authentication:
  1. Environment variable: set SUPERSET_TOKEN
  2. Config file: token in ~/.config/supersel/config.yaml`,
		RunE: runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&urlFlag, "url", "", "Server base URL. Overrides the config file.")
	rootCmd.Flags().IntVar(&datasetFlag, "dataset", 0, "Dataset ID. Pre-fills the dataset picker.")
	rootCmd.Flags().StringVar(&chartFlag, "chart", "", "Chart ID. Pre-fills the chart picker.")

	chartsCmd := &cobra.Command{
		Use:   "charts",
		Short: "List charts without the TUI",
		RunE:  runCharts,
	}
	datasetsCmd := &cobra.Command{
		Use:   "datasets",
		Short: "List datasets without the TUI",
		RunE:  runDatasets,
	}
	for _, c := range []*cobra.Command{chartsCmd, datasetsCmd} {
		c.Flags().StringVar(&searchFlag, "search", "", "Substring filter on the name.")
		c.Flags().IntVar(&limitFlag, "limit", 25, "Maximum rows to print.")
	}
	rootCmd.AddCommand(chartsCmd, datasetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newClient builds the API client from config, flags and environment.
func newClient() (*api.Client, Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, Config{}, err
	}
	if urlFlag != "" {
		cfg.BaseURL = urlFlag
	}

	token, err := auth.GetToken(cfg.BaseURL, cfg.Token)
	if err != nil {
		return nil, Config{}, err
	}
	cfg.Token = token

	client, err := api.New(cfg.BaseURL, cfg.Token)
	if err != nil {
		return nil, Config{}, err
	}
	return client, cfg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}

	// History is optional: the pickers work without it.
	hist, err := history.Open(cfg.HistoryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: selection history unavailable: %v\n", err)
		hist = nil
	}
	if hist != nil {
		defer hist.Close()
	}

	ctx := context.Background()
	app := tui.NewAppModel(ctx, client, hist, datasetFlag, chartFlag, cfg.PageSize, cfg.Debounce)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

// listRequest builds a one-page list query from the shared flags.
func listRequest(searchField string) selector.QueryRequest {
	var filters []selector.Filter
	if searchFlag != "" {
		filters = append(filters, selector.Filter{Field: searchField, Op: selector.OpContains, Value: searchFlag})
	}
	return selector.QueryRequest{
		SearchText:  searchFlag,
		PageIndex:   0,
		PageSize:    limitFlag,
		Filters:     filters,
		OrderColumn: searchField,
	}
}

func runCharts(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	charts, total, err := client.ListCharts(cmd.Context(), listRequest(domain.FieldChartName))
	if err != nil {
		return err
	}

	fmt.Printf("Charts (%d of %d):\n", len(charts), total)
	for _, c := range charts {
		fmt.Printf("  #%d: %s (%s)\n", c.ID, c.Name, c.Type)
	}
	return nil
}

func runDatasets(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	datasets, total, err := client.ListDatasets(cmd.Context(), listRequest(domain.FieldDatasetName))
	if err != nil {
		return err
	}

	fmt.Printf("Datasets (%d of %d):\n", len(datasets), total)
	for _, d := range datasets {
		name := d.Name
		if d.Schema != "" {
			name = d.Schema + "." + d.Name
		}
		fmt.Printf("  #%d: %s\n", d.ID, name)
	}
	return nil
}
