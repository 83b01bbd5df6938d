package notes

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/foodnotes/foodnotes/config"
	"github.com/foodnotes/foodnotes/fetch"
)

// Pipeline resolves a note URL end to end: warm the aggregator session,
// fetch the page, follow at most one client-side redirect, classify the
// final source and dispatch its extraction strategy. Each Resolve call uses
// a fresh session; calls within one resolution are strictly sequential.
type Pipeline struct {
	newSession func() *fetch.Client
	registry   *Registry
	logger     *slog.Logger
	baiduHome  string
	timeouts   config.TimeoutConfig
	delays     config.DelayConfig
	sleep      func(time.Duration)
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithSessionFactory replaces the per-resolution session constructor. Used
// by tests to inject stub transports.
func WithSessionFactory(f func() *fetch.Client) PipelineOption {
	return func(p *Pipeline) {
		p.newSession = f
	}
}

// WithSleeper replaces the delay function. Tests pass a no-op.
func WithSleeper(sleep func(time.Duration)) PipelineOption {
	return func(p *Pipeline) {
		p.sleep = sleep
	}
}

// WithRegistry replaces the extraction strategy registry.
func WithRegistry(r *Registry) PipelineOption {
	return func(p *Pipeline) {
		p.registry = r
	}
}

// NewPipeline creates a pipeline with the built-in strategy registry.
func NewPipeline(cfg *config.Config, logger *slog.Logger, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		newSession: func() *fetch.Client { return fetch.NewClient(fetch.WithLogger(logger)) },
		registry:   NewRegistry(),
		logger:     logger,
		baiduHome:  cfg.Upstreams.Baidu,
		timeouts:   cfg.Timeouts,
		delays:     cfg.Delays,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve fetches noteURL and produces a normalized note. Only
// request-level failures (timeout, transport, upstream error status) return
// an error; extraction failures are downgraded into the note itself.
func (p *Pipeline) Resolve(ctx context.Context, noteURL string) (*Note, error) {
	session := p.newSession()

	p.sleep(p.delays.PreWarm)
	session.Warm(ctx, p.baiduHome+"/", fetch.ProfileBaidu, p.timeouts.Warmup)
	p.sleep(p.delays.PostWarm)

	res, err := session.Fetch(ctx, noteURL, fetch.ProfileBaidu, p.timeouts.Primary)
	if err != nil {
		return nil, err
	}

	body := res.Body
	jumpedTo := ""
	if hint := ResolveRedirect(body); hint != nil {
		p.logger.Info("client-side redirect detected",
			"mechanism", hint.Mechanism,
			"target", hint.TargetURL,
		)
		p.sleep(p.delays.Redirect)

		profile := fetch.ProfileGeneric
		if strings.Contains(hint.TargetURL, "baidu.com") {
			profile = fetch.ProfileBaidu
		}
		res, err = session.Fetch(ctx, hint.TargetURL, profile, p.timeouts.Primary)
		if err != nil {
			return nil, err
		}
		body = res.Body
		jumpedTo = hint.TargetURL
	}

	if res.StatusCode >= 400 {
		return nil, &fetch.StatusError{StatusCode: res.StatusCode, URL: noteURL}
	}

	rawURL := jumpedTo
	if rawURL == "" {
		rawURL = noteURL
	}
	note := newNote(rawURL, noteURL)
	ectx := Context{
		FinalURL:       rawURL,
		OriginalURL:    noteURL,
		FromAggregator: FromAggregator(noteURL),
	}

	source := Classify(rawURL)

	// An aggregator result that jumped off-family gets the redirect-only
	// strategy unless the target supports deep extraction.
	if ectx.FromAggregator && jumpedTo != "" && !FromAggregator(jumpedTo) && source != SourceDianping {
		source = SourceAggregatorRedirect
	}

	if source == SourceBaidu {
		var ok bool
		body, ok = p.passChallenge(ctx, session, rawURL, body)
		if !ok {
			note.Type = SourceSecurityCheck
			note.Error = "该笔记需要通过百度安全验证才能查看"
			note.NeedJump = true
			return note, nil
		}
	}

	note.Type = source
	p.registry.Get(source).Extract(body, ectx, note)

	p.logger.Info("note resolved",
		"type", note.Type,
		"has_title", note.Title != "",
		"has_content", note.Content != "",
		"images", len(note.Images),
		"need_jump", note.NeedJump,
	)
	return note, nil
}
