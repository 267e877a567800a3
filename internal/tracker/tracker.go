package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"prospector/internal/model"
	"prospector/internal/store"
	"prospector/internal/worker"
)

// FetchError reports a failed page fetch for one candidate. Callers
// log and skip it; one broken page never aborts a batch.
type FetchError struct {
	CandidateID int64
	URL         string
	Err         error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch candidate %d (%s): %v", e.CandidateID, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Options configures a Tracker.
type Options struct {
	Timeout           time.Duration
	UserAgent         string
	MaxBodyBytes      int64
	RespectRobots     bool
	RobotsTTL         time.Duration
	Workers           int
	RequestsPerSecond float64
	Burst             int
}

// Tracker monitors approved candidates' webpages for changes. It
// detects changes and returns events; recording them in the changelog
// is the caller's job.
type Tracker struct {
	store   *store.Store
	fetcher *Fetcher
	robots  *RobotsChecker
	limiter *worker.Limiter
	workers int
	logger  *slog.Logger
}

// New creates a Tracker.
func New(st *store.Store, opts Options, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}

	t := &Tracker{
		store:   st,
		fetcher: NewFetcher(opts.Timeout, opts.UserAgent, opts.MaxBodyBytes),
		limiter: worker.NewLimiter(opts.RequestsPerSecond, opts.Burst),
		workers: opts.Workers,
		logger:  logger,
	}
	if opts.RespectRobots {
		t.robots = NewRobotsChecker(opts.UserAgent, opts.Timeout, opts.RobotsTTL)
	}
	return t
}

// Check fetches the candidate's page, compares it against the latest
// stored snapshot and returns the detected change events. On success a
// new snapshot is always persisted, even on the first observation; on
// fetch failure nothing is written and the previous snapshot stays the
// baseline for the next run.
func (t *Tracker) Check(ctx context.Context, candidate *model.Candidate) ([]*model.ChangeEvent, error) {
	if candidate.URL == "" {
		return nil, nil
	}

	if t.robots != nil && !t.robots.IsAllowed(ctx, candidate.URL) {
		return nil, &FetchError{CandidateID: candidate.ID, URL: candidate.URL, Err: fmt.Errorf("disallowed by robots.txt")}
	}

	if err := t.limiter.Wait(ctx, candidate.URL); err != nil {
		return nil, &FetchError{CandidateID: candidate.ID, URL: candidate.URL, Err: err}
	}

	fetched, err := t.fetcher.Fetch(ctx, candidate.URL)
	if err != nil {
		return nil, &FetchError{CandidateID: candidate.ID, URL: candidate.URL, Err: err}
	}

	page, err := ParsePage(fetched.HTML)
	if err != nil {
		return nil, &FetchError{CandidateID: candidate.ID, URL: candidate.URL, Err: err}
	}

	previous, err := t.store.LatestSnapshot(ctx, candidate.ID)
	if err != nil {
		return nil, err
	}

	var events []*model.ChangeEvent
	if previous != nil {
		events = detectChanges(candidate, previous, page)
	}

	snap := &model.Snapshot{
		CandidateID:  candidate.ID,
		URL:          candidate.URL,
		Title:        page.Title,
		ContentHash:  page.ContentHash,
		PricingText:  page.PricingText,
		FeaturesText: page.FeaturesText,
		FetchedAt:    time.Now().UTC(),
	}
	if _, err := t.store.AppendSnapshot(ctx, snap); err != nil {
		return nil, err
	}

	return events, nil
}

// detectChanges compares the prior snapshot with the freshly parsed
// page. A fingerprint change yields specific pricing and feature
// events when those extracts differ, or one generic content_change
// when nothing specific moved. A title difference yields a news event
// independently of the fingerprint outcome.
func detectChanges(candidate *model.Candidate, previous *model.Snapshot, current *Page) []*model.ChangeEvent {
	var events []*model.ChangeEvent

	if previous.ContentHash != "" && previous.ContentHash != current.ContentHash {
		if previous.PricingText != current.PricingText {
			var desc string
			switch {
			case current.PricingText != "" && previous.PricingText == "":
				desc = "Pricing info added: " + truncate(current.PricingText, 100)
			case current.PricingText == "" && previous.PricingText != "":
				desc = "Pricing info removed"
			default:
				desc = "Pricing updated: " + truncate(current.PricingText, 100)
			}
			events = append(events, &model.ChangeEvent{
				CandidateID: candidate.ID,
				Type:        model.ChangePricing,
				Description: desc,
				SourceURL:   candidate.URL,
			})
		}

		if previous.FeaturesText != current.FeaturesText {
			var desc string
			switch {
			case current.FeaturesText != "" && previous.FeaturesText == "":
				desc = "Features section added"
			case current.FeaturesText == "" && previous.FeaturesText != "":
				desc = "Features section changed"
			default:
				desc = "Features updated"
			}
			events = append(events, &model.ChangeEvent{
				CandidateID: candidate.ID,
				Type:        model.ChangeFeatureAdded,
				Description: desc,
				SourceURL:   candidate.URL,
			})
		}

		if len(events) == 0 {
			events = append(events, &model.ChangeEvent{
				CandidateID: candidate.ID,
				Type:        model.ChangeContentUpdate,
				Description: "Website content updated",
				SourceURL:   candidate.URL,
			})
		}
	}

	if previous.Title != current.Title {
		events = append(events, &model.ChangeEvent{
			CandidateID: candidate.ID,
			Type:        model.ChangeNews,
			Description: fmt.Sprintf("Title changed: %q", truncate(current.Title, 50)),
			SourceURL:   candidate.URL,
		})
	}

	return events
}

// truncate cuts s to at most max bytes without splitting a UTF-8 rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// checkJob wraps one candidate check for the worker pool.
type checkJob struct {
	tracker   *Tracker
	candidate *model.Candidate
}

type checkResult struct {
	candidate *model.Candidate
	events    []*model.ChangeEvent
	err       error
}

func (r *checkResult) GetError() error { return r.err }

func (j *checkJob) Execute(ctx context.Context) worker.Result {
	events, err := j.tracker.Check(ctx, j.candidate)
	return &checkResult{candidate: j.candidate, events: events, err: err}
}

// CheckAllApproved checks every approved candidate concurrently.
// Per-candidate fetch failures are logged and counted, never fatal.
func (t *Tracker) CheckAllApproved(ctx context.Context) ([]*model.ChangeEvent, int, int, error) {
	candidates, err := t.store.CandidatesByStatus(ctx, model.StatusApproved)
	if err != nil {
		return nil, 0, 0, err
	}
	if len(candidates) == 0 {
		return nil, 0, 0, nil
	}

	pool := worker.NewPool(t.workers)
	pool.Start()
	for _, candidate := range candidates {
		pool.Submit(&checkJob{tracker: t, candidate: candidate})
	}
	results := pool.Wait()

	var events []*model.ChangeEvent
	failed := 0
	for _, res := range results {
		check, ok := res.(*checkResult)
		if !ok {
			continue
		}
		if err := check.GetError(); err != nil {
			failed++
			t.logger.Warn("check failed",
				"candidate_id", check.candidate.ID,
				"name", check.candidate.Name,
				"error", err)
			continue
		}
		events = append(events, check.events...)
	}

	return events, len(candidates), failed, nil
}

// Summary reports one update-check pass.
type Summary struct {
	Checked int                  `json:"tools_checked"`
	Changes int                  `json:"changes_detected"`
	Failed  int                  `json:"failed"`
	Events  []*model.ChangeEvent `json:"changes,omitempty"`
}

// Run checks all approved candidates and records every detected event
// in the changelog.
func (t *Tracker) Run(ctx context.Context) (*Summary, error) {
	events, checked, failed, err := t.CheckAllApproved(ctx)
	if err != nil {
		return nil, err
	}

	for _, event := range events {
		if _, err := t.store.AppendChangeEvent(ctx, event.CandidateID, event.Type, event.Description, event.SourceURL); err != nil {
			return nil, fmt.Errorf("record change: %w", err)
		}
	}

	t.logger.Info("update check complete",
		"checked", checked,
		"changes", len(events),
		"failed", failed)

	return &Summary{
		Checked: checked,
		Changes: len(events),
		Failed:  failed,
		Events:  events,
	}, nil
}
