package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/wordchart/internal/server"
	"github.com/cognicore/wordchart/pkg/wordchart"
	"github.com/cognicore/wordchart/pkg/wordchart/chart"
	"github.com/cognicore/wordchart/pkg/wordchart/config"
	"github.com/cognicore/wordchart/pkg/wordchart/logger"
)

// RootCmd returns the wordchart command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wordchart",
		Short:         "Word frequency charts for web documents",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().String("config", "", "YAML config file")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	root.PersistentFlags().Bool("log-json", false, "Log as JSON")

	root.AddCommand(
		AnalyzeCmd(),
		ServeCmd(),
		KindsCmd(),
	)
	return root
}

// setup loads config and builds the logger from persistent flags.
func setup(cmd *cobra.Command) (*config.Config, logger.Logger, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, nil, err
	}
	if level == "" {
		level = cfg.Log.Level
	}
	jsonLogs, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		return nil, nil, err
	}

	log := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(level),
		Output:     cmd.ErrOrStderr(),
		JSON:       jsonLogs || cfg.Log.JSON,
		TimeFormat: "15:04:05",
	})
	return cfg, log, nil
}

// AnalyzeCmd fetches one URL, prints the ranking and writes the chart page.
func AnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze URL",
		Short: "Rank the words of a web page and render a chart",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	cmd.Flags().String("kind", chart.WordCloud.String(), "Chart kind (see `wordchart kinds`)")
	cmd.Flags().Int("min-freq", 0, "Minimum word frequency, 1-100 (default from config)")
	cmd.Flags().StringP("out", "o", "chart.html", "Chart output file; '-' for stdout, empty to skip")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	kindName, _ := cmd.Flags().GetString("kind")
	kind, err := chart.ParseKind(kindName)
	if err != nil {
		return err
	}
	minFreq, _ := cmd.Flags().GetInt("min-freq")
	if minFreq == 0 {
		minFreq = cfg.Pipeline.MinFreq
	}
	out, _ := cmd.Flags().GetString("out")

	engine, err := wordchart.FromConfig(cfg, log)
	if err != nil {
		return err
	}

	res, err := engine.Run(cmd.Context(), wordchart.Request{URL: args[0], Kind: kind, MinFreq: minFreq})
	if err != nil {
		return err
	}
	if !res.Fetched {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not fetch %s (status %d); result is empty\n", res.URL, res.FetchStatus)
	}

	if err := printRanking(cmd.OutOrStdout(), res); err != nil {
		return err
	}

	switch out {
	case "":
		return nil
	case "-":
		return engine.Render(cmd.OutOrStdout(), res)
	default:
		if err := writeChart(out, engine, res); err != nil {
			return err
		}
		log.Info("chart written", "path", out, "kind", res.Kind.String())
		return nil
	}
}

type chartRenderer interface {
	Render(w io.Writer, res wordchart.Result) error
}

// writeChart renders res into path. A failed close is reported as an error.
func writeChart(path string, r chartRenderer, res wordchart.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := r.Render(f, res); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func printRanking(w io.Writer, res wordchart.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Top %d words (min frequency %d, %d tokens, encoding %s)\n",
		len(res.Top), res.MinFreq, res.Tokens, res.Encoding)
	fmt.Fprintln(tw, "RANK\tWORD\tCOUNT")
	for i, e := range res.Top {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", i+1, e.Token, e.Count)
	}
	return tw.Flush()
}

// ServeCmd runs the interactive HTTP control surface.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive chart form over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (default from config)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}

	engine, err := wordchart.FromConfig(cfg, log)
	if err != nil {
		return err
	}
	srv, err := server.New(engine, cfg.Pipeline.MinFreq, log)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return httpSrv.Shutdown(shutdownCtx)
}

// KindsCmd lists the chart kinds.
func KindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List supported chart kinds",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, k := range chart.Kinds() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", k.String(), k.Title())
			}
		},
	}
}
