package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"smart-reminder/internal/report"
	"smart-reminder/internal/seed"
	"smart-reminder/internal/store"
	"smart-reminder/internal/subscription"
	"smart-reminder/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportOutDir string

// seedCmd stores the default event catalogue
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Store the default event catalogue when none exists",
	RunE: func(cmd *cobra.Command, _ []string) error {
		conf, err := bootstrap()
		if err != nil {
			return err
		}
		st, err := store.Open(&conf.DB)
		if err != nil {
			return err
		}
		evts, err := seed.EnsureEvents(cmd.Context(), st)
		if err != nil {
			return err
		}
		logger.GetLogger().Info("Event catalogue ready", zap.Int("events", len(evts)))
		return nil
	},
}

// exportCmd writes one of the admin CSV reports
var exportCmd = &cobra.Command{
	Use:       "export [merchants|expired]",
	Short:     "Write an admin CSV report",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"merchants", "expired"},
	RunE:      runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", ".", "directory the report is written to")
}

func runExport(cmd *cobra.Command, args []string) error {
	conf, err := bootstrap()
	if err != nil {
		return err
	}
	st, err := store.Open(&conf.DB)
	if err != nil {
		return err
	}

	now := time.Now()
	name, write, err := reportWriter(cmd.Context(), st, args[0], now, time.Duration(conf.Trial.DefaultHours)*time.Hour)
	if err != nil {
		return err
	}

	path := filepath.Join(exportOutDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.GetLogger().Info("Report written", zap.String("path", path))
	return nil
}

// reportWriter resolves the file name and writer of the named report
func reportWriter(ctx context.Context, st store.Store, kind string, now time.Time, fallbackWindow time.Duration) (string, func(io.Writer) error, error) {
	merchants, err := st.ListMerchants(ctx)
	if err != nil {
		return "", nil, err
	}
	settings, err := st.GetSettings(ctx)
	if err != nil {
		return "", nil, err
	}

	switch kind {
	case "merchants":
		return report.MerchantsFileName(now), func(w io.Writer) error {
			return report.WriteMerchantsCSV(w, merchants, settings.Plans)
		}, nil
	case "expired":
		window := fallbackWindow
		if settings.TrialDurationHours > 0 {
			window = subscription.TrialWindow(settings)
		}
		expired := report.ExpiredMerchants(merchants, now, window)
		return report.ExpiredFileName(now), func(w io.Writer) error {
			return report.WriteExpiredCSV(w, expired)
		}, nil
	}
	return "", nil, fmt.Errorf("unknown report %q", kind)
}
