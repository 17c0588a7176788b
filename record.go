package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sensor-readout.klederson.com/internal/export"
	"sensor-readout.klederson.com/internal/readout"
	"sensor-readout.klederson.com/internal/sampling"
)

var (
	flagTicks    int
	flagDuration time.Duration
	flagOut      string
	flagPNG      string
)

var errNoSamples = errors.New("no samples received")

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Sample without a UI and write the session as CSV",
		Long: `Record runs one headless session and writes it in the export format
("<index>, <ch1>, <ch2>, <ch3>" per line) when it ends: after --ticks
samples, after --duration, on Ctrl+C, or when a sample does not fit the
channel layout. A failed session still writes what it recorded and exits
non-zero. An --out path ending in .zst is zstd-compressed.`,
		RunE: runRecord,
	}
	cmd.Flags().IntVar(&flagTicks, "ticks", 0, "Stop after this many samples (0 = until interrupted)")
	cmd.Flags().DurationVar(&flagDuration, "duration", 0, "Stop after this long (0 = until interrupted)")
	cmd.Flags().StringVarP(&flagOut, "out", "o", "", "CSV output path (default stdout)")
	cmd.Flags().StringVar(&flagPNG, "png", "", "Also render the session to this PNG file")
	cmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (default: stderr)")
	return cmd
}

func runRecord(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()
	log := logrus.WithField("component", "record")

	src, err := openSource()
	if err != nil {
		return err
	}
	defer closeSource(src)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if flagDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flagDuration)
		defer cancel()
	}

	exec := sampling.NewSerialExecutor()
	defer exec.Close()

	opts := sessionOptions()
	opts.Limit = flagTicks
	sess := readout.New(src, readout.NewHeadlessSurface(log), opts)
	runErr := sess.Run(ctx, exec)

	st := sess.Store()
	if !st.Configured() {
		if runErr != nil {
			return runErr
		}
		return errNoSamples
	}
	log.WithFields(logrus.Fields{
		"session":  sess.ID.String(),
		"ticks":    st.Tick(),
		"arrivals": sess.Arrivals(),
	}).Info("recording finished")

	if flagOut == "" {
		err = export.WriteCSV(os.Stdout, st.Visible())
	} else {
		err = export.SaveCSV(flagOut, st.Visible())
	}
	if err != nil {
		return err
	}
	if flagPNG != "" {
		if err := export.SavePNG(flagPNG, st.Visible(), st.Title(), st.Unit(), sess.Interval()); err != nil {
			return err
		}
	}
	return runErr
}
