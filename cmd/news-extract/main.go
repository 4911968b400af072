package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cognicore/wordchart/internal/news"
	"github.com/cognicore/wordchart/pkg/wordchart/fetch"
	"github.com/cognicore/wordchart/pkg/wordchart/logger"
)

func main() {
	if err := RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// RootCmd extracts articles linked from a news list page into text files.
func RootCmd() *cobra.Command {
	def := news.DefaultSelectors()
	cmd := &cobra.Command{
		Use:          "news-extract LIST_URL",
		Short:        "Save the linked articles of a news list page as text files",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}
	cmd.Flags().String("item", def.Item, "CSS selector for list items")
	cmd.Flags().String("title", def.Title, "CSS selector for the title link inside an item")
	cmd.Flags().String("content", def.Content, "CSS selector for the article body")
	cmd.Flags().Int("max", 3, "Maximum articles to extract; 0 for all")
	cmd.Flags().StringP("out", "o", ".", "Output directory")
	cmd.Flags().Duration("timeout", fetch.DefaultTimeout, "Per-request timeout")
	cmd.Flags().String("log-level", "info", "Log level")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	item, _ := flags.GetString("item")
	title, _ := flags.GetString("title")
	content, _ := flags.GetString("content")
	limit, _ := flags.GetInt("max")
	out, _ := flags.GetString("out")
	timeout, _ := flags.GetDuration("timeout")
	level, _ := flags.GetString("log-level")

	if limit < 0 {
		return fmt.Errorf("--max must be >= 0, got %d", limit)
	}

	cfg := logger.DefaultConfig()
	cfg.Level = logger.LogLevel(level)
	cfg.Output = cmd.ErrOrStderr()
	log := logger.NewLogger(cfg)

	ex := news.NewExtractor(
		fetch.NewHTTPFetcher(fetch.WithTimeout(timeout)),
		news.Selectors{Item: item, Title: title, Content: content},
		limit,
		log,
	)
	articles, err := ex.Run(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	paths, err := news.Save(out, articles)
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	if err != nil {
		return err
	}
	log.Info("done", "articles", len(paths), "dir", out)
	return nil
}
