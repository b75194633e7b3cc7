package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pressence/frontend/internal/article"
	"github.com/pressence/frontend/internal/backend"
	"github.com/pressence/frontend/internal/config"
	"github.com/pressence/frontend/internal/logging"
	"github.com/pressence/frontend/internal/server"
	"github.com/pressence/frontend/internal/tui"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     = zap.NewNop()
)

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "pressence",
	Short:   "Slovak news front end",
	Long:    "Pressence serves the news site and queries the article backend from the terminal.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(articlesCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(similarCmd)
	rootCmd.AddCommand(scrapeCmd)
}

func newClient() *backend.Client {
	c := backend.New(cfg.API.BaseURL, cfg.API.Timeout, logger)
	c.MinQueryLength = cfg.Search.MinQueryLength
	return c
}

// signalContext is cancelled on Ctrl+C or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("pressence", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/pressence/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Printf("Edit it to point at your backend, or set %s.\n", config.APIURLEnv)
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web front end",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		srv, err := server.New(newClient(), cfg, logger)
		if err != nil {
			return err
		}

		ctx, stop := signalContext(cmd.Context())
		defer stop()

		fmt.Printf("Starting server at http://%s\n", cfg.Server.Addr())
		fmt.Println("Press Ctrl+C to stop")
		return srv.Serve(ctx, cfg.Server.Addr())
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (overrides server.port)")
}

// --- articles command ---

var (
	listLimit  int
	listOffset int
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "List the latest articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		articles, err := newClient().ListArticles(cmd.Context(), backend.Page{Limit: listLimit, Offset: listOffset})
		if err != nil {
			return err
		}
		printArticles(articles)
		return nil
	},
}

func init() {
	articlesCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "Number of articles to fetch")
	articlesCmd.Flags().IntVar(&listOffset, "offset", 0, "Number of articles to skip")
}

// --- show command ---

var showCmd = &cobra.Command{
	Use:   "show [slug]",
	Short: "Show one article with its sources",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		a, pool, err := client.FindArticle(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if a == nil {
			return fmt.Errorf("article %q not found", args[0])
		}
		return printArticle(cmd.Context(), client, a, pool)
	},
}

// --- search command ---

var (
	searchAdvanced    bool
	searchInteractive bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search articles",
	Args: func(cmd *cobra.Command, args []string) error {
		if searchInteractive {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()

		if searchInteractive {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			chosen, err := tui.Run(ctx, client, tui.Options{
				Debounce:       cfg.Search.Debounce,
				MinQueryLength: cfg.Search.MinQueryLength,
				Advanced:       searchAdvanced,
			})
			if err != nil {
				return err
			}
			if chosen == nil {
				return nil
			}
			return printArticle(ctx, client, chosen, nil)
		}

		query := strings.Join(args, " ")
		articles, err := client.SearchArticles(cmd.Context(), query, searchAdvanced)
		if err != nil {
			return err
		}
		if len(articles) == 0 {
			fmt.Printf("No articles found for %q.\n", query)
			return nil
		}
		printArticles(articles)
		return nil
	},
}

func init() {
	searchCmd.Flags().BoolVarP(&searchAdvanced, "advanced", "a", false, "Use AI-backed search")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "Search as you type")
}

// --- similar command ---

var similarCmd = &cobra.Command{
	Use:   "similar [article-id]",
	Short: "List articles similar to the given one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		articles, err := newClient().SimilarArticles(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(articles) == 0 {
			fmt.Println("No similar articles.")
			return nil
		}
		printArticles(articles)
		return nil
	},
}

// --- scrape command ---

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Ask the backend to ingest fresh articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		err := newClient().TriggerScrape(cmd.Context(), backend.ScrapeRequest{
			MaxArticlesPerPage: cfg.Scrape.MaxArticlesPerPage,
			MaxTotalArticles:   cfg.Scrape.MaxTotalArticles,
		})
		var se *backend.StatusError
		if errors.As(err, &se) {
			return fmt.Errorf("backend refused scrape (HTTP %d)", se.Code)
		}
		if err != nil {
			return err
		}
		fmt.Println("Scrape started. New articles appear once the backend finishes.")
		return nil
	},
}

func printArticles(articles []article.Article) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tCATEGORY\tSCRAPED\tTITLE")
	for _, a := range articles {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Slug, a.Category, a.ScrapedAt, a.Title)
	}
	w.Flush()
}
