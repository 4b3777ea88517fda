package syncer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/NordCoder/ProjectEye/internal/apiclient"
	"github.com/NordCoder/ProjectEye/internal/domain/financial"
	"github.com/NordCoder/ProjectEye/internal/domain/milestone"
	"github.com/NordCoder/ProjectEye/internal/domain/project"
	"github.com/NordCoder/ProjectEye/internal/domain/snapshot"
	"github.com/NordCoder/ProjectEye/internal/domain/team"
	"github.com/NordCoder/ProjectEye/internal/obs"
	"github.com/NordCoder/ProjectEye/internal/obs/retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxPages bounds project pagination in case the API ignores limit.
const maxPages = 1000

type Sources struct {
	Projects   project.Source
	Milestones milestone.Source
	Team       team.Source
	Financial  financial.Source
}

type Saver interface {
	Save(ctx context.Context, s snapshot.Snapshot) (changed bool, err error)
}

type Config struct {
	Interval    time.Duration
	Concurrency int
	PageLimit   int
}

type Stats struct {
	Projects int
	Saved    int
	Changed  int
	Errors   int
}

type Usecase struct {
	Src   Sources
	Store Saver
	Cfg   Config
	Log   *zap.Logger
	Now   func() time.Time
	Fetch retry.Policy
}

func NewUC(src Sources, store Saver, cfg Config, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = 100
	}
	return &Usecase{
		Src:   src,
		Store: store,
		Cfg:   cfg,
		Log:   log.With(zap.String("component", "syncer")),
		Now:   time.Now,
		Fetch: retry.FetchPolicy(transient),
	}
}

// transient reports errors worth retrying within a tick. An auth failure
// never is.
func transient(err error) bool {
	if apiclient.IsUnauthorized(err) {
		return false
	}
	var ne *apiclient.NetworkError
	if errors.As(err, &ne) {
		return true
	}
	code := apiclient.StatusCode(err)
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}

func fetch[T any](ctx context.Context, pol retry.Policy, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := retry.Do(ctx, func() error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	}, pol)
	return out, err
}

type counters struct {
	saved, changed, errs atomic.Int64
}

// Tick pulls every project and its milestones, team and financial summary,
// storing one snapshot per entity. Per-project failures are counted and
// skipped; an auth failure aborts the tick.
func (u *Usecase) Tick(ctx context.Context) (Stats, error) {
	tr := otel.Tracer("syncer.uc")
	ctxTick, span := tr.Start(ctx, "syncer.tick",
		trace.WithAttributes(attribute.Int("sync.concurrency", u.Cfg.Concurrency)),
	)
	defer span.End()

	projects, err := u.listProjects(ctxTick)
	if err != nil {
		span.RecordError(err)
		return Stats{Errors: 1}, fmt.Errorf("list projects: %w", err)
	}
	span.SetAttributes(attribute.Int("sync.projects", len(projects)))

	var c counters
	g, gctx := errgroup.WithContext(ctxTick)
	g.SetLimit(u.Cfg.Concurrency)
	for _, p := range projects {
		g.Go(func() error { return u.syncProject(gctx, p, &c) })
	}
	err = g.Wait()

	st := Stats{
		Projects: len(projects),
		Saved:    int(c.saved.Load()),
		Changed:  int(c.changed.Load()),
		Errors:   int(c.errs.Load()),
	}
	span.SetAttributes(
		attribute.Int("sync.saved", st.Saved),
		attribute.Int("sync.changed", st.Changed),
		attribute.Int("sync.errors", st.Errors),
	)
	if err != nil {
		span.RecordError(err)
		return st, err
	}
	return st, nil
}

func (u *Usecase) listProjects(ctx context.Context) ([]project.Project, error) {
	var all []project.Project
	for page := 1; page <= maxPages; page++ {
		params := project.ListParams{Page: page, Limit: u.Cfg.PageLimit}
		batch, err := fetch(ctx, u.Fetch, func(ctx context.Context) ([]project.Project, error) {
			return u.Src.Projects.List(ctx, params)
		})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < u.Cfg.PageLimit {
			break
		}
	}
	return all, nil
}

func (u *Usecase) syncProject(ctx context.Context, p project.Project, c *counters) error {
	tr := otel.Tracer("syncer.uc")
	ctx, span := tr.Start(ctx, "syncer.project", trace.WithAttributes(attribute.String("project.id", p.ID)))
	defer span.End()

	steps := []struct {
		kind snapshot.Kind
		get  func(context.Context) (any, error)
	}{
		{snapshot.KindProject, func(context.Context) (any, error) { return p, nil }},
		{snapshot.KindMilestones, func(ctx context.Context) (any, error) {
			return fetch(ctx, u.Fetch, func(ctx context.Context) ([]milestone.Milestone, error) {
				return u.Src.Milestones.List(ctx, p.ID)
			})
		}},
		{snapshot.KindTeam, func(ctx context.Context) (any, error) {
			return fetch(ctx, u.Fetch, func(ctx context.Context) ([]team.Member, error) {
				return u.Src.Team.List(ctx, p.ID)
			})
		}},
		{snapshot.KindFinancial, func(ctx context.Context) (any, error) {
			return fetch(ctx, u.Fetch, func(ctx context.Context) (*financial.Summary, error) {
				return u.Src.Financial.Summary(ctx, p.ID)
			})
		}},
	}

	for _, st := range steps {
		v, err := st.get(ctx)
		if err != nil {
			if apiclient.IsUnauthorized(err) || ctx.Err() != nil {
				span.RecordError(err)
				return fmt.Errorf("project %s %s: %w", p.ID, st.kind, err)
			}
			c.errs.Add(1)
			obs.WithTrace(ctx, u.Log).Warn("fetch failed",
				zap.String("project_id", p.ID), zap.String("kind", string(st.kind)), zap.Error(err))
			continue
		}

		snap, err := snapshot.New(st.kind, p.ID, v, u.Now().UTC())
		if err != nil {
			c.errs.Add(1)
			continue
		}
		changed, err := u.Store.Save(ctx, snap)
		if err != nil {
			c.errs.Add(1)
			obs.WithTrace(ctx, u.Log).Error("save failed", zap.String("key", snap.Key()), zap.Error(err))
			continue
		}
		c.saved.Add(1)
		if changed {
			c.changed.Add(1)
			obs.WithTrace(ctx, u.Log).Debug("snapshot changed", zap.String("key", snap.Key()), zap.String("hash", snap.Hash))
		}
	}
	return nil
}
