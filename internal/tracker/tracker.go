// Package tracker owns the dashboard state: it runs the fetch cycle
// against the proxy, normalizes and scores the results, and publishes
// atomic snapshots for the HTTP layer to read.
package tracker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/leadspark/upwork-radar/internal/fit"
	"github.com/leadspark/upwork-radar/internal/offering"
	"github.com/leadspark/upwork-radar/internal/project"
	"github.com/leadspark/upwork-radar/internal/proposal"
	"github.com/leadspark/upwork-radar/internal/ranking"
	"github.com/leadspark/upwork-radar/internal/store"
	"github.com/leadspark/upwork-radar/internal/upwork"
)

const (
	// fetchLimit caps how many records the proxy returns per keyword.
	fetchLimit = 10

	livenessSpec = "@every 30s"
	refreshSpec  = "@every 5m"
)

// Proxy states reported by Status.
const (
	StateChecking = "checking"
	StateOnline   = "online"
	StateOffline  = "offline"
)

// Status is the connection summary shown in the dashboard header.
type Status struct {
	State       string    `json:"state"`
	LastRefresh time.Time `json:"lastRefresh,omitempty"`
	Projects    int       `json:"projects"`
}

// Tracker is the single-writer controller for the project snapshot and
// the user settings around it.
type Tracker struct {
	logger   *zap.Logger
	client   *upwork.Client
	registry *offering.Registry
	writer   *proposal.Writer
	store    store.Store

	cron *cron.Cron

	// fetchSeq orders concurrent refreshes; a fetch that resolves after
	// a newer one already published is dropped.
	fetchSeq uint64

	mu           sync.RWMutex
	publishedSeq uint64
	projects     []*project.Project
	views        *ranking.Views
	viewsVersion uint64
	state        string
	lastRefresh  time.Time

	saved       map[string]bool
	applied     map[string]bool
	notes       map[string]string
	template    string
	displayName string
	proposals   map[string]*proposal.Proposal
	inflight    map[string]bool
}

func New(log *zap.Logger, client *upwork.Client, registry *offering.Registry, writer *proposal.Writer, settings store.Store) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		logger:    log,
		client:    client,
		registry:  registry,
		writer:    writer,
		store:     settings,
		state:     StateChecking,
		saved:     make(map[string]bool),
		applied:   make(map[string]bool),
		notes:     make(map[string]string),
		proposals: make(map[string]*proposal.Proposal),
		inflight:  make(map[string]bool),
	}
}

// Start restores persisted settings, runs an initial refresh and begins
// the periodic liveness and refetch schedules.
func (t *Tracker) Start(ctx context.Context) {
	t.loadSettings(ctx)

	go t.Refresh(ctx)

	t.cron = cron.New()
	t.cron.AddFunc(livenessSpec, func() { t.checkLiveness(ctx) })
	t.cron.AddFunc(refreshSpec, func() { t.Refresh(ctx) })
	t.cron.Start()

	t.logger.Info("tracker started",
		zap.String("liveness", livenessSpec),
		zap.String("refresh", refreshSpec),
	)
}

// Stop cancels the schedules and waits for running jobs to finish.
func (t *Tracker) Stop() {
	if t.cron == nil {
		return
	}
	<-t.cron.Stop().Done()
	t.logger.Info("tracker stopped")
}

// Refresh runs one full fetch cycle and publishes the result. A refresh
// that loses the race to a newer one publishes nothing.
func (t *Tracker) Refresh(ctx context.Context) {
	seq := atomic.AddUint64(&t.fetchSeq, 1)

	if err := t.client.Ping(ctx); err != nil {
		t.logger.Warn("proxy unreachable", zap.Error(err))
		t.publish(seq, StateOffline, []*project.Project{project.NewOfflineNotice(t.client.APIURL)})
		return
	}

	keywords := t.registry.KeywordPlan()
	offerings := t.registry.All()

	t.logger.Info("fetching projects", zap.Strings("keywords", keywords))

	resp, err := t.client.SearchBatch(ctx, keywords, fetchLimit)
	if err != nil {
		t.logger.Warn("batch fetch failed", zap.Error(err))
		t.publish(seq, StateOnline, []*project.Project{project.NewFetchError(err)})
		return
	}
	if !resp.Success {
		t.logger.Warn("proxy rejected batch", zap.String("error", resp.Error))
		t.publish(seq, StateOnline, []*project.Project{project.NewFetchError(&upwork.StatusError{Status: resp.Error})})
		return
	}

	set := project.NewSet()
	for _, group := range resp.Results {
		for _, raw := range group.Jobs {
			off, _ := project.Attribute(offerings, raw.Title, raw.Description)
			set.Add(project.Normalize(raw, group.Keyword, off))
		}
	}

	if set.Len() == 0 {
		t.publish(seq, StateOnline, []*project.Project{project.NewNoResults(keywords)})
		return
	}

	t.logger.Info("fetched projects", zap.Int("count", set.Len()))
	t.publish(seq, StateOnline, set.Items())
}

// checkLiveness refreshes the online flag without refetching.
func (t *Tracker) checkLiveness(ctx context.Context) {
	state := StateOnline
	if err := t.client.Ping(ctx); err != nil {
		state = StateOffline
	}

	t.mu.Lock()
	t.state = state
	t.mu.Unlock()
}

func (t *Tracker) publish(seq uint64, state string, projects []*project.Project) {
	views := ranking.Build(projects, t.registry.All())
	version := t.registry.Version()

	t.mu.Lock()
	defer t.mu.Unlock()

	if seq < t.publishedSeq {
		t.logger.Debug("dropping stale fetch",
			zap.Uint64("seq", seq),
			zap.Uint64("published", t.publishedSeq),
		)
		return
	}

	t.publishedSeq = seq
	t.projects = projects
	t.views = views
	t.viewsVersion = version
	t.state = state
	t.lastRefresh = time.Now()
}

// Snapshot returns a copy of the currently published projects.
func (t *Tracker) Snapshot() []*project.Project {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]*project.Project(nil), t.projects...)
}

// Views returns the ranked dashboard views, recomputing them when the
// offerings changed since the last publish.
func (t *Tracker) Views() *ranking.Views {
	version := t.registry.Version()

	t.mu.RLock()
	if t.views != nil && t.viewsVersion == version {
		views := t.views
		t.mu.RUnlock()
		return views
	}
	projects := append([]*project.Project(nil), t.projects...)
	t.mu.RUnlock()

	views := ranking.Build(projects, t.registry.All())

	t.mu.Lock()
	if t.viewsVersion != version || t.views == nil {
		t.views = views
		t.viewsVersion = version
	}
	views = t.views
	t.mu.Unlock()
	return views
}

// Status reports the proxy state and last successful publish.
func (t *Tracker) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for _, p := range t.projects {
		if !p.IsInstruction() {
			count++
		}
	}
	return Status{
		State:       t.state,
		LastRefresh: t.lastRefresh,
		Projects:    count,
	}
}

// Project returns the published record with the given id and its fit
// assessment against the current offerings.
func (t *Tracker) Project(id string) (*project.Project, fit.Assessment, bool) {
	t.mu.RLock()
	var found *project.Project
	for _, p := range t.projects {
		if p.ID == id {
			found = p
			break
		}
	}
	t.mu.RUnlock()

	if found == nil {
		return nil, fit.Assessment{}, false
	}
	return found, fit.Analyze(found, t.registry.All()), true
}
