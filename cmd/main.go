package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"povlens/viewer/helper"
	"povlens/viewer/internal/browser"
	"povlens/viewer/internal/cache"
	"povlens/viewer/internal/config"
	"povlens/viewer/internal/handler"
	applog "povlens/viewer/internal/log"
	"povlens/viewer/internal/model"
	"povlens/viewer/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var envFile string

func main() {
	root := &cobra.Command{
		Use:          "povlens",
		Short:        "Browse the poverty data API",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVar(&envFile, "env", ".env", "env file to load before the environment")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE:  runServe,
		},
		newFetchCmd(),
		newExportCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	logger, err := applog.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := newPageStore(cfg)
	if err != nil {
		return err
	}

	handler.RequestTimeout = cfg.RequestTimeout
	handler.Setup(
		service.NewHTTPClient(cfg.APIURL, cfg.RequestTimeout),
		logger,
		browser.WithCache(store),
		browser.WithPageSize(cfg.DefaultLimit),
	)

	logger.Infow("starting server", "port", cfg.Port, "api", cfg.APIURL)
	return handler.NewRouter().Run(":" + cfg.Port)
}

func newPageStore(cfg *config.Config) (cache.Store, error) {
	if cfg.CacheBackend == "redis" {
		return cache.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL, cfg.RequestTimeout)
	}
	return cache.NewPageCache(cfg.CacheSize, cfg.CacheTTL), nil
}

// queryFlags are shared by fetch and export-url.
type queryFlags struct {
	dataset string
	columns []string
	filters []string
	page    int
	limit   int
}

func (f *queryFlags) register(cmd *cobra.Command, paged bool) {
	cmd.Flags().StringVarP(&f.dataset, "dataset", "d", model.PovertyData.ID, "dataset id (poverty-data, predictions)")
	cmd.Flags().StringSliceVarP(&f.columns, "columns", "c", nil, "columns to show, defaults to the dataset's preferred set")
	cmd.Flags().StringArrayVarP(&f.filters, "filter", "f", nil, "exact-match filter as column=value, repeatable")
	if paged {
		cmd.Flags().IntVarP(&f.page, "page", "p", 1, "page number")
		cmd.Flags().IntVarP(&f.limit, "limit", "l", 0, "page size, defaults to DEFAULT_LIMIT")
	}
}

// build loads the catalog and applies the flags to a fresh query state.
func (f *queryFlags) build(ctx context.Context, api service.DataAPI, defaultLimit int) (model.Dataset, []model.Column, model.QueryState, error) {
	ds, ok := model.LookupDataset(f.dataset)
	if !ok {
		return ds, nil, model.QueryState{}, errors.Errorf("unknown dataset %q", f.dataset)
	}

	catalog, err := api.ListColumns(ctx, ds)
	if err != nil {
		return ds, nil, model.QueryState{}, err
	}

	s := model.NewQueryState(defaultLimit)
	s.SelectedColumns = browser.InitialSelection(catalog, ds.DefaultColumns)
	if len(f.columns) > 0 {
		s = browser.WithSelectedColumns(s, catalog, f.columns)
	}
	for _, kv := range f.filters {
		field, value, found := strings.Cut(kv, "=")
		if !found || !helper.IsValidIdentifier(field) {
			return ds, nil, model.QueryState{}, errors.Errorf("invalid filter %q, want column=value", kv)
		}
		col, ok := model.LookupColumn(catalog, field)
		if !ok {
			return ds, nil, model.QueryState{}, errors.Errorf("unknown column %q", field)
		}
		s = browser.WithFilter(s, field, col.ParseFilterValue(value))
	}
	if f.limit > 0 {
		s = browser.WithLimit(s, f.limit)
	}
	s = browser.WithPage(s, f.page, browser.TotalUnknown)
	return ds, catalog, s, nil
}

func loadClient() (*config.Config, *service.HTTPClient, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, service.NewHTTPClient(cfg.APIURL, cfg.RequestTimeout), nil
}

func newFetchCmd() *cobra.Command {
	f := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch one page and print it as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, api, err := loadClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			ds, catalog, s, err := f.build(ctx, api, cfg.DefaultLimit)
			if err != nil {
				return err
			}
			if len(s.SelectedColumns) == 0 {
				return errors.New("no columns selected")
			}

			page, err := api.FetchPage(ctx, ds, browser.BuildRequest(ds, s, catalog))
			if err != nil {
				return err
			}
			return printPage(cmd, s, page)
		},
	}
	f.register(cmd, true)
	return cmd
}

func newExportCmd() *cobra.Command {
	f := &queryFlags{page: 1}
	cmd := &cobra.Command{
		Use:   "export-url",
		Short: "Print the CSV export link for a selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, api, err := loadClient()
			if err != nil {
				return err
			}
			ds, catalog, s, err := f.build(cmd.Context(), api, cfg.DefaultLimit)
			if err != nil {
				return err
			}
			req := browser.BuildRequest(ds, s, catalog)
			fmt.Fprintln(cmd.OutOrStdout(), api.ExportURL(ds, req.Columns, req.Filters))
			return nil
		},
	}
	f.register(cmd, false)
	return cmd
}

func printPage(cmd *cobra.Command, s model.QueryState, page model.PageResult) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(s.SelectedColumns, "\t"))
	for _, rec := range page.Data {
		cells := make([]string, len(s.SelectedColumns))
		for i, col := range s.SelectedColumns {
			cells[i] = helper.FormatCell(rec[col])
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), browser.Paginate(page.Total, s.Page, s.Limit))
	return nil
}
