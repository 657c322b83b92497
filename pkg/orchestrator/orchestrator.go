// Package orchestrator exposes wordclaw's two public operations: listing
// conversation targets and delivering a vocabulary card.
//
// Both operations are stateless by design. Every call normalizes the
// supplied token, performs a full platform login, does its work through the
// resulting session, and discards the session before returning. Nothing is
// cached across calls, which trades one extra login round trip per call for
// natural isolation between concurrent callers and immunity to
// stale-session bugs.
package orchestrator

import (
	"context"

	"github.com/tinyland-inc/wordclaw/pkg/delivery"
	"github.com/tinyland-inc/wordclaw/pkg/logger"
	"github.com/tinyland-inc/wordclaw/pkg/media"
	"github.com/tinyland-inc/wordclaw/pkg/platform"
	"github.com/tinyland-inc/wordclaw/pkg/session"
	"github.com/tinyland-inc/wordclaw/pkg/threads"
	"github.com/tinyland-inc/wordclaw/pkg/token"
	"github.com/tinyland-inc/wordclaw/pkg/vocab"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithKindPolicy overrides the group/direct inference rule used during
// delivery.
func WithKindPolicy(policy delivery.KindPolicy) Option {
	return func(o *Orchestrator) { o.kindOf = policy }
}

type Orchestrator struct {
	establisher *session.Establisher
	aggregator  *threads.Aggregator
	fetcher     media.Fetcher
	kindOf      delivery.KindPolicy
}

func New(client platform.Client, fetcher media.Fetcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		establisher: session.NewEstablisher(client),
		aggregator:  threads.NewAggregator(),
		fetcher:     fetcher,
		kindOf:      delivery.DefaultKindPolicy,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ListThreads authenticates tok and returns the caller's conversation
// targets, groups first. Fails with token.ErrInvalidToken or
// *session.AuthError before any listing happens.
func (o *Orchestrator) ListThreads(ctx context.Context, tok token.SessionToken) ([]threads.Thread, error) {
	sess, err := o.login(ctx, tok)
	if err != nil {
		return nil, err
	}
	defer sess.Close(ctx)

	return o.aggregator.List(ctx, sess)
}

// SendVocabulary authenticates tok, composes rec into a styled card, and
// delivers it to targetID. The returned outcome lists every part attempt in
// order; per-part failures live there, never in the error.
func (o *Orchestrator) SendVocabulary(ctx context.Context, tok token.SessionToken, targetID string, rec vocab.Record) (delivery.Outcome, error) {
	sess, err := o.login(ctx, tok)
	if err != nil {
		return nil, err
	}
	defer sess.Close(ctx)

	msg := vocab.Compose(rec)
	pipeline := delivery.NewPipeline(o.fetcher, o.kindOf)

	outcome, err := pipeline.Deliver(ctx, sess, targetID, msg, rec.Media)
	if err != nil {
		return nil, err
	}
	if outcome.Failed() {
		logger.WarnCF("orchestrator", "Card delivered with failures", map[string]any{
			"target": targetID,
			"word":   rec.Word,
		})
	}
	return outcome, nil
}

// login runs the per-call authentication cycle: normalize, then one full
// remote login.
func (o *Orchestrator) login(ctx context.Context, tok token.SessionToken) (platform.Session, error) {
	creds, err := token.Normalize(tok)
	if err != nil {
		return nil, err
	}
	return o.establisher.Establish(ctx, creds)
}
