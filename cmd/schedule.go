package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/troopsched/core/engine"
	"github.com/kilianp07/troopsched/pkg/export"
)

var (
	weekFiles    []string
	outDir       string
	outputFormat string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule one or more weeks in parallel",
	RunE:  scheduleWeeks,
}

func init() {
	scheduleCmd.Flags().StringSliceVarP(&weekFiles, "weeks", "w", nil, "week input files")
	scheduleCmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	scheduleCmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format: json, csv, pdf or xlsx")
	_ = scheduleCmd.MarkFlagRequired("weeks")
	rootCmd.AddCommand(scheduleCmd)
}

func scheduleWeeks(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	format, err := export.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	_, svc, closeFn, err := newService()
	if err != nil {
		return err
	}
	defer closeFn()

	weeks, err := svc.LoadWeeks(weekFiles)
	if err != nil {
		return err
	}
	results, runErr := svc.RunWeeks(ctx, weeks)
	if runErr != nil && errors.Is(runErr, engine.ErrInvariantBreach) {
		return runErr
	}
	out := cmd.OutOrStdout()
	for _, res := range results {
		if res == nil {
			continue
		}
		path := filepath.Join(outDir, fmt.Sprintf("week%d%s", res.Week, format.Ext()))
		if err := writeFile(path, format, export.FromResult(res)); err != nil {
			return err
		}
		fmt.Fprintf(out, "week %d: score %.2f, %d unresolved, %s\n",
			res.Week, res.Report.Score.Total, len(res.Report.Unresolved), path)
		for _, u := range res.Report.Unresolved {
			fmt.Fprintf(out, "  %s %s %s %s\n", u.Kind, u.Troop, u.Activity, u.Detail)
		}
	}
	return runErr
}

func writeFile(path string, f export.Format, snap export.Snapshot) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return export.Write(file, f, snap)
}
