package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AK067CSE/newsagent/internal/pipeline"
	"github.com/AK067CSE/newsagent/internal/session"
)

var (
	baseURL     string
	verbose     bool
	ciMode      bool
	interactive bool

	daysBack     int
	maxArticles  int
	companies    []string
	minWords     int
	maxWords     int
	exportFormat string
	exportName   string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "newsagent",
	Short: "Control panel for the news-processing pipeline",
	Long: `newsagent drives a backend-hosted news pipeline over HTTP:
discovery, classification, summarization and export, with a retrieval
side channel. Long-running operations are submitted as tasks and polled
until they finish.`,
}

var discoverCmd = &cobra.Command{
	Use:   "discover [query]",
	Short: "Discover recent news for a query",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		obs := newObserver()
		defer obs.Close()
		store := getStore()
		defer store.Close()

		pl, cfg := buildPipeline(obs, store)
		if daysBack == 0 {
			daysBack = cfg.Discovery.DaysBack
		}
		if maxArticles == 0 {
			maxArticles = cfg.Discovery.MaxArticles
		}

		ctx := session.NewContext(context.Background(), session.NewIdentity())
		result, err := pl.Discover(ctx, pipeline.DiscoverRequest{
			Query:       args[0],
			DaysBack:    daysBack,
			MaxArticles: maxArticles,
		})
		if err != nil {
			fail(err)
		}

		fmt.Printf("Found %d articles\n", result.TotalFound)
		for i, a := range result.Articles {
			fmt.Printf("%3d. %s\n     %s\n", i+1, a.Title, a.URL)
		}
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify the last discovered articles by company",
	Run: func(cmd *cobra.Command, args []string) {
		obs := newObserver()
		defer obs.Close()
		store := getStore()
		defer store.Close()

		pl, _ := buildPipeline(obs, store)
		discovery, ok := pl.LatestDiscovery()
		if !ok {
			fmt.Println("No cached discovery. Run `newsagent discover` first.")
			os.Exit(1)
		}

		ctx := session.NewContext(context.Background(), session.NewIdentity())
		result, err := pl.Classify(ctx, pipeline.ClassifyRequest{
			Articles:  discovery.Articles,
			Companies: companies,
		})
		if err != nil {
			fail(err)
		}

		fmt.Printf("Match rate: %.0f%%\n", result.MatchRate()*100)
		for company, bucket := range result.ByCompany {
			fmt.Printf("%s (%d)\n", company, len(bucket))
			for _, a := range bucket {
				fmt.Printf("  - %s\n", a.Title)
			}
		}
		if len(result.Unclassified) > 0 {
			fmt.Printf("Unclassified: %d\n", len(result.Unclassified))
		}
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [url]",
	Short: "Summarize one article URL (defaults to the first cached one)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		obs := newObserver()
		defer obs.Close()
		store := getStore()
		defer store.Close()

		pl, cfg := buildPipeline(obs, store)
		if minWords == 0 {
			minWords = cfg.Summary.MinWords
		}
		if maxWords == 0 {
			maxWords = cfg.Summary.MaxWords
		}

		url := ""
		if len(args) == 1 {
			url = args[0]
		} else if discovery, ok := pl.LatestDiscovery(); ok && len(discovery.Articles) > 0 {
			url = discovery.Articles[0].URL
		}
		if url == "" {
			fmt.Println("No URL given and no cached discovery to take one from.")
			os.Exit(1)
		}

		ctx := session.NewContext(context.Background(), session.NewIdentity())
		result, err := pl.Summarize(ctx, pipeline.SummarizeRequest{
			URL:      url,
			MinWords: minWords,
			MaxWords: maxWords,
		})
		if err != nil {
			fail(err)
		}

		fmt.Printf("%s\n(%d words)\n", result.Summary, result.WordCount)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the last discovered articles",
	Run: func(cmd *cobra.Command, args []string) {
		obs := newObserver()
		defer obs.Close()
		store := getStore()
		defer store.Close()

		pl, _ := buildPipeline(obs, store)
		discovery, ok := pl.LatestDiscovery()
		if !ok {
			fmt.Println("No cached discovery. Run `newsagent discover` first.")
			os.Exit(1)
		}

		ctx := session.NewContext(context.Background(), session.NewIdentity())
		result, err := pl.Export(ctx, pipeline.ExportRequest{
			Articles: discovery.Articles,
			Format:   exportFormat,
			Filename: exportName,
		})
		if err != nil {
			fail(err)
		}

		fmt.Printf("Exported %d articles as %s", result.ExportedCount, result.Format)
		if result.DownloadURL != "" {
			fmt.Printf(" (%s)", result.DownloadURL)
		}
		fmt.Println()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show backend dashboard stats",
	Run: func(cmd *cobra.Command, args []string) {
		obs := newObserver()
		defer obs.Close()
		store := getStore()
		defer store.Close()

		pl, _ := buildPipeline(obs, store)
		ctx := session.NewContext(context.Background(), session.NewIdentity())
		stats, err := pl.Stats(ctx)
		if err != nil {
			fail(err)
		}

		if ciMode {
			out, _ := json.Marshal(stats)
			fmt.Println(string(out))
			return
		}
		fmt.Printf("Articles: %d\nSuccess rate: %.1f%%\nActive tasks: %d\nLast update: %s\n",
			stats.TotalArticles, stats.SuccessRate, stats.ActiveTasks, stats.LastUpdate)
	},
}

func fail(err error) {
	fmt.Println(err)
	os.Exit(1)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Backend base URL (overrides config)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	RootCmd.PersistentFlags().BoolVar(&ciMode, "ci", false, "CI mode: JSON output, non-interactive")

	RootCmd.AddCommand(discoverCmd)
	RootCmd.AddCommand(classifyCmd)
	RootCmd.AddCommand(summarizeCmd)
	RootCmd.AddCommand(exportCmd)
	RootCmd.AddCommand(statsCmd)

	discoverCmd.Flags().IntVar(&daysBack, "days-back", 0, "How many days back to search")
	discoverCmd.Flags().IntVar(&maxArticles, "max-articles", 0, "Maximum articles to fetch")
	classifyCmd.Flags().StringSliceVarP(&companies, "companies", "c", nil, "Companies to classify against")
	summarizeCmd.Flags().IntVar(&minWords, "min-words", 0, "Minimum summary word count")
	summarizeCmd.Flags().IntVar(&maxWords, "max-words", 0, "Maximum summary word count")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Export format (csv, json, pdf)")
	exportCmd.Flags().StringVar(&exportName, "filename", "", "Export file basename")
}
