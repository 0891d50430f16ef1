package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/AK067CSE/newsagent/internal/observe"
	"github.com/AK067CSE/newsagent/internal/pipeline"
	"github.com/AK067CSE/newsagent/internal/session"
	"github.com/AK067CSE/newsagent/internal/ui"
	"github.com/AK067CSE/newsagent/internal/ui/tui"
)

// workflowStages is the number of stages the run command chains.
const workflowStages = 4

var runCmd = &cobra.Command{
	Use:   "run [query]",
	Short: "Run the full pipeline: discover, classify, summarize, export",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWorkflow(args[0])
	},
}

func init() {
	RootCmd.AddCommand(runCmd)
	runCmd.Flags().StringSliceVarP(&companies, "companies", "c", nil, "Companies to classify against")
	runCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Export format (csv, json, pdf)")
	runCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Show progress in a TUI")
}

func runWorkflow(query string) {
	obs := newObserver()
	defer obs.Close()
	store := getStore()
	defer store.Close()

	pl, cfg := buildPipeline(obs, store)

	runner := &Runner{
		Observer:  obs,
		Pipeline:  pl,
		Query:     query,
		Companies: companies,
		Format:    exportFormat,
		DaysBack:  cfg.Discovery.DaysBack,
		MaxItems:  cfg.Discovery.MaxArticles,
		MinWords:  cfg.Summary.MinWords,
		MaxWords:  cfg.Summary.MaxWords,
	}

	if interactive {
		model := tui.NewModel("Pipeline run: "+query, workflowStages)
		program := tea.NewProgram(model)
		runner.UI = tui.NewTUI(program)

		go func() {
			_ = runner.Run(context.Background())
			program.Quit()
		}()

		if _, err := program.Run(); err != nil {
			fmt.Printf("TUI error: %v\n", err)
			os.Exit(1)
		}
	} else {
		runner.UI = ui.SilentUI{}
		if err := runner.Run(context.Background()); err != nil {
			os.Exit(1)
		}
	}
}

// Runner chains the pipeline stages the way the browser panel did, but with
// the hand-off made explicit: discovery publishes the artifact, and the
// later stages read it back rather than holding the result in memory.
type Runner struct {
	Observer  *observe.Observer
	Pipeline  *pipeline.Client
	UI        ui.UI
	Query     string
	Companies []string
	Format    string
	DaysBack  int
	MaxItems  int
	MinWords  int
	MaxWords  int
}

func (r *Runner) Run(ctx context.Context) error {
	id := session.NewIdentity()
	ctx = session.NewContext(ctx, id)
	r.Observer.Log().Info().Str("user_id", id.UserID).Str("session_id", id.SessionID).Msg("pipeline run starting")

	r.Pipeline.Events().Subscribe(func(ev pipeline.Event) {
		switch ev.Type {
		case pipeline.EventStageStart:
			r.UI.UpdateStatus(ev.Stage)
		case pipeline.EventStageFail:
			r.UI.Log(fmt.Sprintf("%s: %v", ev.Stage, ev.Err))
		}
	})

	// Stage 1: discover, or reuse the cached artifact for the same query.
	var articles []pipeline.Article
	if cached, ok := r.Pipeline.LatestDiscovery(); ok && cached.Query == r.Query {
		r.UI.Log(fmt.Sprintf("Reusing cached discovery from %s (%d articles)", cached.RetrievedAt.Format("15:04:05"), len(cached.Articles)))
		articles = cached.Articles
	} else {
		result, err := r.Pipeline.Discover(ctx, pipeline.DiscoverRequest{
			Query:       r.Query,
			DaysBack:    r.DaysBack,
			MaxArticles: r.MaxItems,
		})
		if err != nil {
			r.UI.UpdateStatus("Discovery failed")
			r.Observer.Log().Error().Err(err).Msg("discovery failed")
			return err
		}
		articles = result.Articles
		r.UI.Log(fmt.Sprintf("Discovered %d articles", result.TotalFound))
	}
	r.UI.UpdateStage(1)

	// Stage 2: classify.
	classified, err := r.Pipeline.Classify(ctx, pipeline.ClassifyRequest{
		Articles:  articles,
		Companies: r.Companies,
	})
	if err != nil {
		r.UI.UpdateStatus("Classification failed")
		r.Observer.Log().Error().Err(err).Msg("classification failed")
		return err
	}
	r.UI.Log(fmt.Sprintf("Match rate %.0f%%", classified.MatchRate()*100))
	r.UI.UpdateStage(2)

	// Stage 3: summarize the classified articles, best effort per URL.
	summarized := 0
	for _, bucket := range classified.ByCompany {
		for _, a := range bucket {
			s, err := r.Pipeline.Summarize(ctx, pipeline.SummarizeRequest{
				URL:      a.URL,
				MinWords: r.MinWords,
				MaxWords: r.MaxWords,
			})
			if err != nil {
				r.UI.Log(fmt.Sprintf("Summary skipped for %s: %v", a.URL, err))
				continue
			}
			summarized++
			r.UI.Log(fmt.Sprintf("%s: %s", a.Title, s.Summary))
		}
	}
	r.UI.Log(fmt.Sprintf("Summarized %d articles", summarized))
	r.UI.UpdateStage(3)

	// Stage 4: export everything that was discovered.
	export, err := r.Pipeline.Export(ctx, pipeline.ExportRequest{
		Articles: articles,
		Format:   r.Format,
	})
	if err != nil {
		r.UI.UpdateStatus("Export failed")
		r.Observer.Log().Error().Err(err).Msg("export failed")
		return err
	}
	r.UI.UpdateStage(4)
	r.UI.UpdateStatus("Completed")

	fmt.Printf("Pipeline complete: %d articles exported as %s\n", export.ExportedCount, export.Format)
	return nil
}
