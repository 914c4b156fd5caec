package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gazette "github.com/rcolvin/gazette"
	"github.com/rcolvin/gazette/internal/config"
	"github.com/rcolvin/gazette/internal/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configPath   string
	cfg          *config.Config
	outputFormat string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gazette",
		Short: "News article pipeline - fetch, dedup, summarize, and cluster articles from RSS feeds",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default: ./config/gazette.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "output format: json, text, human (default: json)")

	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(clustersCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(daemonCmd())
	rootCmd.AddCommand(initConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() error {
	if configPath == "" {
		configPath = "./config/gazette.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = config.DefaultConfig()
		return nil
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// newEngine builds an engine from the loaded config.
func newEngine() *gazette.Engine {
	ec := gazette.EngineConfig{
		FeedURLs:        cfg.Fetcher.FeedURLs,
		MinContentWords: cfg.Fetcher.MinContentWords,
		PerFeedLimit:    cfg.Fetcher.PerFeedLimit,
		SummaryMaxWords: cfg.Summarizer.MaxWords,
		QueryTTL:        time.Duration(cfg.Cache.QueryTTL) * time.Second,
		ArticleTTL:      time.Duration(cfg.Cache.ArticleTTL) * time.Second,
		ClustersTTL:     time.Duration(cfg.Cache.ClustersTTL) * time.Second,
		StatsTTL:        time.Duration(cfg.Cache.StatsTTL) * time.Second,
	}
	for _, c := range cfg.Clusters {
		ec.Taxonomy = append(ec.Taxonomy, gazette.TaxonomyEntry{
			ID:       c.ID,
			Label:    c.Label,
			Keywords: c.Keywords,
		})
	}
	return gazette.NewEngine(ec)
}

// runIngest fetches and processes one batch, warning about per-feed
// problems without failing the command.
func runIngest(ctx context.Context, engine *gazette.Engine, formatter *output.Formatter, count int) (*gazette.IngestResult, error) {
	if count <= 0 {
		count = cfg.Ingest.BatchSize
	}
	result, err := engine.Ingest(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("ingest failed: %w", err)
	}
	for _, problem := range result.Errors {
		formatter.Warning("%s", problem)
	}
	return result, nil
}

func ingestCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch articles from configured feeds and run them through the pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(output.Format(outputFormat))
			engine := newEngine()

			result, err := runIngest(cmd.Context(), engine, formatter, count)
			if err != nil {
				return err
			}
			return formatter.OutputIngestResult(result)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "maximum articles to fetch (default: configured batch size)")
	return cmd
}

func listCmd() *cobra.Command {
	var (
		count     int
		source    string
		search    string
		clusterID int
		page      int
		pageSize  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Ingest articles and list them with optional filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(output.Format(outputFormat))
			engine := newEngine()

			if _, err := runIngest(cmd.Context(), engine, formatter, count); err != nil {
				return err
			}

			filters := gazette.QueryFilters{
				Source:   source,
				Search:   search,
				Page:     page,
				PageSize: pageSize,
			}
			if clusterID > 0 {
				filters.ClusterID = &clusterID
			}

			result, err := engine.Query(filters)
			if err != nil {
				return fmt.Errorf("query failed: %w", err)
			}
			return formatter.OutputArticlePage(result)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "maximum articles to fetch first (default: configured batch size)")
	cmd.Flags().StringVar(&source, "source", "", "filter by source name")
	cmd.Flags().StringVar(&search, "search", "", "filter by title substring")
	cmd.Flags().IntVar(&clusterID, "cluster", 0, "filter by cluster ID")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "articles per page")
	return cmd
}

func showCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "show <title-search>",
		Short: "Ingest articles and show the first one whose title matches, with full content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(output.Format(outputFormat))
			engine := newEngine()

			if _, err := runIngest(cmd.Context(), engine, formatter, count); err != nil {
				return err
			}

			page, err := engine.Query(gazette.QueryFilters{Search: args[0], PageSize: 1})
			if err != nil {
				return fmt.Errorf("query failed: %w", err)
			}
			if page.Total == 0 {
				return fmt.Errorf("no article title matches %q", args[0])
			}

			article, err := engine.GetArticle(page.Articles[0].ID)
			if err != nil {
				return fmt.Errorf("loading article: %w", err)
			}
			return formatter.OutputArticle(article)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "maximum articles to fetch first (default: configured batch size)")
	return cmd
}

func clustersCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Ingest articles and show topic clusters with article counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(output.Format(outputFormat))
			engine := newEngine()

			if _, err := runIngest(cmd.Context(), engine, formatter, count); err != nil {
				return err
			}

			clusters, err := engine.Clusters()
			if err != nil {
				return fmt.Errorf("listing clusters failed: %w", err)
			}
			return formatter.OutputClusters(clusters)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "maximum articles to fetch first (default: configured batch size)")
	return cmd
}

func statsCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Ingest articles and show pipeline statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(output.Format(outputFormat))
			engine := newEngine()

			if _, err := runIngest(cmd.Context(), engine, formatter, count); err != nil {
				return err
			}

			stats, err := engine.Stats()
			if err != nil {
				return fmt.Errorf("stats failed: %w", err)
			}
			return formatter.OutputStats(stats)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "maximum articles to fetch first (default: configured batch size)")
	return cmd
}

func initConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Create a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = "./config/gazette.yaml"
			}

			dir := filepath.Dir(configPath)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}

			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("config file already exists: %s", configPath)
			}

			data, err := yaml.Marshal(config.DefaultConfig())
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}

			if err := os.WriteFile(configPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			fmt.Printf("Created default config at %s\n", configPath)
			return nil
		},
	}
}
