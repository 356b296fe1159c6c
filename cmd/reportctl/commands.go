package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/huangang/compliancewatch/internal/config"
	"github.com/huangang/compliancewatch/internal/dataset"
	"github.com/huangang/compliancewatch/internal/models"
	"github.com/huangang/compliancewatch/internal/report"
	"github.com/huangang/compliancewatch/internal/services"
	"github.com/huangang/compliancewatch/pkg/logger"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	useDB      bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "reportctl",
		Short: "Generate compliance reports from the command line",
		Long: `reportctl exports the compliance reports served by the API without a
running server. It reads the built-in demonstration dataset unless --db is
given, in which case the configured database is used.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			logger.Init(cfg.Log.Level)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "config.yaml", "path to the config file")
	root.PersistentFlags().BoolVar(&opts.useDB, "db", false, "read datasets from the configured database")

	root.AddCommand(newTypesCommand())
	root.AddCommand(newPreviewCommand(opts))
	root.AddCommand(newGenerateCommand(opts))
	return root
}

func newTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the available report types",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tLABEL")
			for _, d := range report.Types() {
				fmt.Fprintf(w, "%s\t%s\n", d.ID, d.Label)
			}
			return w.Flush()
		},
	}
}

func newPreviewCommand(opts *rootOptions) *cobra.Command {
	var reportType string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print a report as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, closeSrc, err := opts.source(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSrc()

			tab, err := report.NewProjector(src, config.GlobalConfig.Report.Location()).Project(cmd.Context(), reportType)
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), tab)
		},
	}
	cmd.Flags().StringVarP(&reportType, "type", "t", report.TypeComplianceSummary, "report type id")
	return cmd
}

func newGenerateCommand(opts *rootOptions) *cobra.Command {
	var (
		reportType string
		format     string
		outDir     string
		logo       string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Export a report to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GlobalConfig
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.Report.OutputDir
			}
			if logo == "" {
				logo = cfg.Branding.Logo
			}

			src, closeSrc, err := opts.source(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSrc()

			loc := cfg.Report.Location()
			theme := report.ThemeFromHex(cfg.Branding.ShortName, cfg.Branding.Colors.Primary, cfg.Branding.Colors.Secondary)
			loader := report.NewLogoLoader(logo, cfg.Branding.LogoTimeout(), cfg.Branding.LogoCacheTTL())
			reports := services.NewReportService(report.NewProjector(src, loc),
				report.NewEncoder(report.NewPDFRenderer(theme, loader, loc)), nil, nil)

			result, err := reports.Export(cmd.Context(), reportType, f, services.TriggerManual, report.DirEmitter{Dir: outDir})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes) to %s\n", result.Artifact.Filename, len(result.Artifact.Body), outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&reportType, "type", "t", report.TypeComplianceSummary, "report type id")
	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatPDF), "export format: pdf, csv or json")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (defaults to report.output_dir)")
	cmd.Flags().StringVar(&logo, "logo", "", "logo url or path for pdf exports")
	return cmd
}

// source returns the dataset to report on and a func releasing it.
func (o *rootOptions) source(ctx context.Context) (report.Source, func(), error) {
	if !o.useDB {
		return dataset.NewMock(time.Now()), func() {}, nil
	}

	db, err := models.Open(&config.GlobalConfig.Database)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if err := models.AutoMigrate(db); err != nil {
		closeDB()
		return nil, nil, err
	}
	if err := dataset.Seed(ctx, db, dataset.NewMock(time.Now())); err != nil {
		closeDB()
		return nil, nil, err
	}
	return dataset.NewStore(db), closeDB, nil
}

func printTable(out io.Writer, tab *report.Tabular) error {
	fmt.Fprintln(out, tab.Title)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, h := range tab.Headers {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, h)
	}
	fmt.Fprintln(w)
	for _, row := range tab.Rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, report.FormatCell(cell))
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
