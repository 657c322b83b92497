// Package threads aggregates the platform's direct contacts and groups into
// one uniform list of conversation targets.
package threads

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/tinyland-inc/wordclaw/pkg/logger"
	"github.com/tinyland-inc/wordclaw/pkg/platform"
)

// hydrateBatchLimit caps how many groups get a metadata hydration call per
// listing. This is a fan-out bound, not a business rule: groups beyond the
// cap are dropped from the result.
const hydrateBatchLimit = 50

// Thread is a conversation target normalized to a common shape. IDs are
// unique within a Kind only; the platform does not guarantee global
// uniqueness across users and groups.
type Thread struct {
	ID     string              `json:"id"`
	Name   string              `json:"name"`
	Avatar string              `json:"avatar"`
	Kind   platform.ThreadKind `json:"type"`
}

// Aggregator builds the unified thread list from a live session.
type Aggregator struct{}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// List returns groups followed by direct contacts. The group-first ordering
// is part of the contract. Contact-list and group-index retrieval failures
// propagate unchanged; a failed group hydration degrades to placeholder
// names instead of failing the listing.
func (a *Aggregator) List(ctx context.Context, sess platform.Session) ([]Thread, error) {
	if sess == nil {
		return nil, platform.ErrUnauthenticated
	}

	var (
		contacts   []platform.Contact
		groupIndex map[string]string
	)

	// The two reads have no ordering dependency on each other.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contacts, err = sess.ListContacts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		groupIndex, err = sess.ListGroupIndex(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	contactThreads := lo.Map(contacts, func(c platform.Contact, _ int) Thread {
		return Thread{
			ID:     c.UserID,
			Name:   contactName(c),
			Avatar: c.Avatar,
			Kind:   platform.ThreadUser,
		}
	})

	// The index arrives as a map, so impose a stable order before capping.
	groupIDs := lo.Keys(groupIndex)
	sort.Strings(groupIDs)
	if len(groupIDs) > hydrateBatchLimit {
		groupIDs = groupIDs[:hydrateBatchLimit]
	}

	groupThreads := a.hydrate(ctx, sess, groupIDs)

	logger.InfoCF("threads", "Aggregated conversation list", map[string]any{
		"groups":   len(groupThreads),
		"contacts": len(contactThreads),
	})

	return append(groupThreads, contactThreads...), nil
}

// hydrate fetches display metadata for the capped id set in one batched
// call. On failure every id still appears, named by its placeholder: the
// read path must never fail solely because hydration failed.
func (a *Aggregator) hydrate(ctx context.Context, sess platform.Session, ids []string) []Thread {
	if len(ids) == 0 {
		return []Thread{}
	}

	infos, err := sess.HydrateGroups(ctx, ids)
	if err != nil {
		logger.WarnCF("threads", "Group hydration failed, using placeholders", map[string]any{
			"groups": len(ids),
			"error":  err.Error(),
		})
		infos = nil
	}

	return lo.Map(ids, func(id string, _ int) Thread {
		th := Thread{
			ID:   id,
			Name: "Group " + id,
			Kind: platform.ThreadGroup,
		}
		if info, ok := infos[id]; ok {
			if info.Name != "" {
				th.Name = info.Name
			}
			th.Avatar = info.Avatar
		}
		return th
	})
}

func contactName(c platform.Contact) string {
	switch {
	case c.DisplayName != "":
		return c.DisplayName
	case c.ZaloName != "":
		return c.ZaloName
	default:
		return "Unknown User"
	}
}
