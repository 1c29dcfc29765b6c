package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"meridian/internal/entity"
	"meridian/internal/pipeline/config"
	"meridian/internal/pipeline/dto"
	"meridian/internal/pipeline/repository"
	"meridian/pkg/logger"
	"meridian/pkg/telegram"
)

// Fetcher pulls normalized entries for one source.
type Fetcher interface {
	Fetch(ctx context.Context, source entity.Source) ([]dto.FetchedArticle, error)
}

// ArticleIngestor persists a fetch batch.
type ArticleIngestor interface {
	Ingest(ctx context.Context, fetched []dto.FetchedArticle) (int, error)
}

// ClusterService groups a batch into validated event clusters.
type ClusterService interface {
	Cluster(ctx context.Context, articles []dto.FetchedArticle) []dto.ArticleGroup
}

// SynthesisService turns one cluster into a stored story.
type SynthesisService interface {
	Synthesize(ctx context.Context, group dto.ArticleGroup) (*entity.Story, error)
}

// Orchestrator drives a full pipeline run: fetch every active source,
// ingest, cluster, synthesize. At most one run executes at a time; an
// overlapping trigger returns immediately instead of queueing.
type Orchestrator struct {
	cfg         *config.Config
	logger      *logger.Logger
	sourceRepo  repository.SourceRepository
	fetcher     Fetcher
	ingestor    ArticleIngestor
	clusterer   ClusterService
	synthesizer SynthesisService
	notifier    telegram.Notifier

	running atomic.Bool
}

// NewOrchestrator creates a new instance of Orchestrator. notifier may be
// nil when run reports are disabled.
func NewOrchestrator(
	cfg *config.Config,
	log *logger.Logger,
	sourceRepo repository.SourceRepository,
	fetcher Fetcher,
	ingestor ArticleIngestor,
	clusterer ClusterService,
	synthesizer SynthesisService,
	notifier telegram.Notifier,
) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		logger:      log,
		sourceRepo:  sourceRepo,
		fetcher:     fetcher,
		ingestor:    ingestor,
		clusterer:   clusterer,
		synthesizer: synthesizer,
		notifier:    notifier,
	}
}

// Run executes one pipeline pass and always returns a summary. A failure
// anywhere, panics included, yields a failed-run summary rather than
// crashing the scheduler goroutine that called us.
func (o *Orchestrator) Run(ctx context.Context) (summary *dto.RunSummary) {
	if !o.running.CompareAndSwap(false, true) {
		return &dto.RunSummary{Message: "Pipeline already running"}
	}
	defer o.running.Store(false)

	defer func() {
		if rec := recover(); rec != nil {
			o.logger.Error("Pipeline run panicked",
				logger.Field("panic", rec),
				logger.StringField("stack", string(debug.Stack())),
			)
			summary = &dto.RunSummary{Message: fmt.Sprintf("Pipeline failed: %v", rec)}
		}
	}()

	startedAt := time.Now()
	o.logger.Info("Starting news pipeline")

	sources, err := o.sourceRepo.List(ctx)
	if err != nil {
		o.logger.Error("Failed to list sources", logger.ErrorField(err))
		return &dto.RunSummary{Message: fmt.Sprintf("Pipeline failed: %v", err)}
	}

	var active []entity.Source
	for _, source := range sources {
		if source.Fetchable() {
			active = append(active, source)
		}
	}
	if len(active) == 0 {
		return &dto.RunSummary{Message: "No active sources with RSS feeds"}
	}

	allFetched, sourcesFetched := o.fetchAll(ctx, active)
	o.logger.Info("Fetched total articles", logger.IntField("count", len(allFetched)))

	if len(allFetched) == 0 {
		return &dto.RunSummary{Message: "No new articles found"}
	}

	created, err := o.ingestor.Ingest(ctx, allFetched)
	if err != nil {
		o.logger.Error("Failed to ingest articles", logger.ErrorField(err))
		return &dto.RunSummary{Message: fmt.Sprintf("Pipeline failed: %v", err)}
	}

	groups := o.clusterer.Cluster(ctx, allFetched)
	if len(groups) > o.cfg.Pipeline.MaxStoriesPerRun {
		groups = groups[:o.cfg.Pipeline.MaxStoriesPerRun]
	}

	storiesCreated := 0
	var headlines []string
	for _, group := range groups {
		story, err := o.synthesizer.Synthesize(ctx, group)
		if err != nil {
			o.logger.Error("Failed to synthesize story", logger.ErrorField(err))
			continue
		}
		if story == nil {
			continue
		}
		storiesCreated++
		headlines = append(headlines, story.Headline)
	}

	o.logger.Info("Pipeline complete", logger.IntField("stories_created", storiesCreated))

	o.report(telegram.RunReport{
		StartedAt:       startedAt,
		Duration:        time.Since(startedAt),
		SourcesFetched:  sourcesFetched,
		ArticlesFetched: len(allFetched),
		ArticlesNew:     created,
		StoriesCreated:  storiesCreated,
		Headlines:       headlines,
	})

	return &dto.RunSummary{
		Message:        fmt.Sprintf("Pipeline complete. Created %d stories.", storiesCreated),
		StoriesCreated: storiesCreated,
	}
}

// fetchAll pulls every active source with bounded concurrency. A dead or
// malformed feed is logged and skipped; the rest of the batch proceeds.
func (o *Orchestrator) fetchAll(ctx context.Context, sources []entity.Source) ([]dto.FetchedArticle, int) {
	maxConcurrent := o.cfg.Pipeline.MaxConcurrentFetches
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		sem       = make(chan struct{}, maxConcurrent)
		fetched   []dto.FetchedArticle
		succeeded int
	)

	for _, source := range sources {
		wg.Add(1)
		sem <- struct{}{}
		go func(source entity.Source) {
			defer wg.Done()
			defer func() { <-sem }()

			articles, err := o.fetcher.Fetch(ctx, source)
			if err != nil {
				o.logger.Warn("Failed to fetch RSS feed",
					logger.StringField("source", source.Name),
					logger.ErrorField(err),
				)
				return
			}

			mu.Lock()
			fetched = append(fetched, articles...)
			succeeded++
			mu.Unlock()
		}(source)
	}
	wg.Wait()

	return fetched, succeeded
}

// report sends a run report when a notifier is configured and the run
// produced stories. Reporting is best effort; a delivery failure never
// fails the run.
func (o *Orchestrator) report(report telegram.RunReport) {
	if o.notifier == nil || report.StoriesCreated == 0 {
		return
	}

	if err := o.notifier.SendMessage(telegram.FormatRunReport(report)); err != nil {
		o.logger.Error("Failed to send run report", logger.ErrorField(err))
	}
}
