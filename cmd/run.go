package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/recruitsense/li-sourcer/internal/ai"
	"github.com/recruitsense/li-sourcer/internal/ai/gemini"
	"github.com/recruitsense/li-sourcer/internal/keywords"
	"github.com/recruitsense/li-sourcer/internal/logger"
	"github.com/recruitsense/li-sourcer/internal/ranking"
	"github.com/recruitsense/li-sourcer/internal/scoring"
	"github.com/recruitsense/li-sourcer/internal/secrets"
	"github.com/recruitsense/li-sourcer/internal/serpapi"
	"github.com/recruitsense/li-sourcer/internal/sourcing"
	"github.com/recruitsense/li-sourcer/internal/store"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowJSON        = "Show JSON output"
	PromptDumpToFile      = "Dump candidates to file"
	PromptReportByCompany = "Report by company"
	PromptExit            = "Exit"

	strategyGemini = "gemini"
	strategyRubric = "rubric"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptShowJSON, PromptDumpToFile, PromptReportByCompany, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the li-sourcer main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("job-file", "f", "", "file with the job description. Default is stdin.")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask what to do with results, just print JSON")
	runCmd.Flags().IntP("top", "t", 0, "override the number of top candidates to keep")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logging, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logging.Fatal("getting a config", zap.Error(err))
	}

	logging.Info("starting the li-sourcer", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logging.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if top, _ := cmd.Flags().GetInt("top"); top > 0 {
		config.Top = top
	}

	jobDescription, err := readJobDescription(cmd)
	if err != nil {
		logging.Fatal("reading the job description", zap.Error(err))
	}

	if jobDescription == "" {
		logging.Info("exiting", zap.String("reason", "empty job description"))
		return
	}

	// All keys are resolved before any network call is made.
	serpKey, err := secrets.Load(secrets.Source{
		Name:  "serpapi api key",
		Value: viper.GetString("serpapi-api-key"),
	})
	if err != nil {
		logging.Fatal(
			"loading serpapi api key",
			zap.Error(err),
			zap.String("hint", "set the SERPAPI_API_KEY environment variable"),
		)
	}

	matcher, fallback, writer, err := buildScoring(ctx, config.Scoring, logging)
	if err != nil {
		logging.Fatal(
			"configuring the scoring strategy",
			zap.Error(err),
			zap.String("hint", "set the GEMINI_API_KEY environment variable or switch scoring.strategy to rubric"),
		)
	}

	terms := keywords.Extract(jobDescription)
	queries := terms.BuildQueries(config.Search.Site, config.Search.MaxQueries)
	if len(queries) == 0 {
		logging.Info("exiting", zap.String("reason", "no search terms extracted"))
		return
	}

	logging.Info("starting the search",
		zap.Strings("keywords", terms.Keywords()),
		zap.Int("queries", len(queries)),
	)

	serp := serpapi.New(ctx, logging, serpKey)
	if config.UserAgent != "" {
		serp.UserAgent = config.UserAgent
	}
	if config.Search.RatePerSecond > 0 {
		serp.SetRate(config.Search.RatePerSecond, config.Search.Burst)
	}

	candidates := serp.Search(&serpapi.SearchParams{
		Queries: queries,
		Num:     config.Search.Num,
		Domain:  config.Search.Site,
	})

	logging.Info("getting candidates", zap.Int("count", candidates.Len()))

	if candidates.Len() == 0 {
		logging.Info("exiting", zap.String("reason", "no candidates found"))
		return
	}

	jobID := uuid.NewString()

	pool := scoring.NewPool(matcher, fallback, config.Scoring.Workers, logging)

	steps := []ranking.Step{
		ranking.NewDedupe(),
		ranking.NewScore(pool, jobDescription),
		ranking.NewThreshold(config.Scoring.MinimumFitScore),
		ranking.NewTop(config.Top),
	}

	ranked, err := ranking.New(steps, logging).Run(ctx, candidates)
	if err != nil {
		logging.Fatal("ranking failed", zap.Error(err))
	}

	if ranked.Len() == 0 {
		logging.Info("exiting", zap.String("reason", "no candidates left after ranking"))
		return
	}

	if config.Outreach.Enabled {
		composeOutreach(ctx, writer, jobDescription, ranked, config.Outreach.Count, logging)
	}

	saveResults(ctx, config.Store.Path, jobID, ranked, logging)

	for i, candidate := range ranked.Items {
		logging.Info("top candidate",
			zap.Int("rank", i+1),
			zap.String("name", candidate.Name),
			zap.String("url", candidate.URL),
			zap.Float64("score", candidate.Score()),
		)
	}

	if auto, _ := cmd.Flags().GetBool("auto-approve"); auto {
		printJSON(jobID, ranked, logging)
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logging.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, jobID, ranked, logging); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logging.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action, jobID string, candidates *sourcing.Candidates, logging *zap.Logger) error {
	switch action {
	case PromptShowJSON:
		printJSON(jobID, candidates, logging)
		return nil
	case PromptDumpToFile:
		filename, err := candidates.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logging.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(candidates.ReportByCompany(), "", "  ")
		logging.Info(string(pretty), zap.Int("candidates count", candidates.Len()))
		return nil
	case PromptExit:
		logging.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func readJobDescription(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("job-file")
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading job file %q: %w", path, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading job description from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// buildScoring resolves the configured strategy into a matcher, an optional
// per-candidate fallback matcher and an optional outreach writer.
func buildScoring(ctx context.Context, cfg *ScoringConfig, logging *zap.Logger) (ai.Matcher, ai.Matcher, *gemini.Writer, error) {
	rubric := scoring.NewRubric(cfg.MinimumFitScore)

	strategy := strings.TrimSpace(strings.ToLower(cfg.Strategy))
	switch strategy {
	case strategyRubric:
		return rubric, nil, nil, nil
	case strategyGemini:
	default:
		return nil, nil, nil, fmt.Errorf("unsupported scoring strategy: %s", cfg.Strategy)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: viper.GetString("gemini-api-key"),
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, nil, nil, err
	}

	scoped := logger.WithScoringFields(logging, strategy, generator.Model())
	matcher := gemini.NewMatcher(generator, cfg.MinimumFitScore, cfg.Gemini.MaxLogLength, scoped)
	writer := gemini.NewWriter(generator, scoped)

	// A gemini outage on one candidate falls back to the local rubric score
	// instead of dropping the candidate.
	return matcher, rubric, writer, nil
}

func composeOutreach(ctx context.Context, writer *gemini.Writer, jobDescription string, candidates *sourcing.Candidates, count int, logging *zap.Logger) {
	if count <= 0 || count > candidates.Len() {
		count = candidates.Len()
	}

	for _, candidate := range candidates.Items[:count] {
		if candidate.AI == nil {
			continue
		}

		if writer != nil {
			candidate.AI.Message = writer.Compose(ctx, jobDescription, candidate)
		} else {
			candidate.AI.Message = gemini.TemplateMessage(jobDescription, candidate)
		}
	}

	logging.Info("composed outreach messages", zap.Int("count", count))
}

// saveResults persists the candidates. A storage failure is reported but the
// in-memory results are still shown.
func saveResults(ctx context.Context, path, jobID string, candidates *sourcing.Candidates, logging *zap.Logger) {
	db, err := store.Open(path)
	if err != nil {
		logging.Error("opening the result store", zap.String("path", path), zap.Error(err))
		return
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		logging.Error("migrating the result store", zap.Error(err))
		return
	}

	inserted, err := store.InsertCandidates(ctx, db.Pool, jobID, candidates)
	if err != nil {
		logging.Error("saving results", zap.Error(err))
		return
	}

	logging.Info("saved results",
		zap.String("job_id", jobID),
		zap.String("path", path),
		zap.Int("count", inserted),
	)
}

type jsonOutput struct {
	JobID         string           `json:"job_id"`
	TopCandidates []*jsonCandidate `json:"top_candidates"`
}

type jsonCandidate struct {
	Name      string             `json:"name"`
	URL       string             `json:"url"`
	FitScore  float64            `json:"fit_score"`
	Breakdown map[string]float64 `json:"score_breakdown,omitempty"`
	Outreach  string             `json:"outreach_message,omitempty"`
}

func printJSON(jobID string, candidates *sourcing.Candidates, logging *zap.Logger) {
	output := &jsonOutput{JobID: jobID}

	for _, candidate := range candidates.Items {
		entry := &jsonCandidate{
			Name: candidate.Name,
			URL:  candidate.URL,
		}
		if candidate.AI != nil {
			entry.FitScore = candidate.AI.Score
			entry.Breakdown = candidate.AI.Breakdown
			entry.Outreach = candidate.AI.Message
		}
		output.TopCandidates = append(output.TopCandidates, entry)
	}

	pretty, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		logging.Error("marshaling json output", zap.Error(err))
		return
	}

	fmt.Println(string(pretty))
}
