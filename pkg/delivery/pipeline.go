// Package delivery pushes a composed vocabulary card into a conversation,
// one part at a time, with per-part fallbacks.
package delivery

import (
	"context"
	"strings"

	"github.com/tinyland-inc/wordclaw/pkg/logger"
	"github.com/tinyland-inc/wordclaw/pkg/media"
	"github.com/tinyland-inc/wordclaw/pkg/platform"
	"github.com/tinyland-inc/wordclaw/pkg/vocab"
)

// attachmentFilename is the name the platform shows for card images.
const attachmentFilename = "vocab_image.jpg"

// Outcome is the chronological, append-only log of per-part send attempts.
// Partial success is the expected common case; it stays visible entry by
// entry instead of collapsing into a boolean.
type Outcome []string

// Failed reports whether any attempted part ultimately failed.
func (o Outcome) Failed() bool {
	for _, tag := range o {
		if strings.Contains(tag, "Failed") {
			return true
		}
	}
	return false
}

// KindPolicy infers whether a target id names a group or a direct contact.
// The id scheme is the platform's, not ours, so the rule is injected rather
// than inlined: swapping schemes must not ripple through the pipeline.
type KindPolicy func(targetID string) platform.ThreadKind

// DefaultKindPolicy treats ids with a "g" prefix or at least 19 characters
// as groups; direct-contact ids are shorter in the platform's id scheme.
func DefaultKindPolicy(targetID string) platform.ThreadKind {
	if strings.HasPrefix(targetID, "g") || len(targetID) > 18 {
		return platform.ThreadGroup
	}
	return platform.ThreadUser
}

// Pipeline drives the ordered image, text, voice send sequence.
type Pipeline struct {
	fetcher media.Fetcher
	kindOf  KindPolicy
}

func NewPipeline(fetcher media.Fetcher, kindOf KindPolicy) *Pipeline {
	if kindOf == nil {
		kindOf = DefaultKindPolicy
	}
	return &Pipeline{fetcher: fetcher, kindOf: kindOf}
}

// Deliver sends the applicable parts in image, text, voice order. Each step
// fails independently: a failure appends its tag and the remaining steps
// still run. The target kind is inferred once and reused for every part.
func (p *Pipeline) Deliver(ctx context.Context, sess platform.Session, targetID string, msg platform.StyledMessage, m vocab.Media) (Outcome, error) {
	if sess == nil {
		return nil, platform.ErrUnauthenticated
	}

	kind := p.kindOf(targetID)
	outcome := Outcome{}

	if m.ImageURL != "" {
		outcome = append(outcome, p.sendImage(ctx, sess, targetID, kind, m.ImageURL))
	}

	outcome = append(outcome, p.sendText(ctx, sess, targetID, kind, msg))

	if m.VoiceURL != "" {
		outcome = append(outcome, p.sendVoice(ctx, sess, targetID, kind, m.VoiceURL))
	}

	logger.InfoCF("delivery", "Card delivery finished", map[string]any{
		"target": targetID,
		"kind":   kind.String(),
		"log":    strings.Join(outcome, "; "),
	})

	return outcome, nil
}

// sendImage downloads the image into memory and re-sends it as a binary
// attachment. Sending the bytes rather than the URL keeps delivery working
// when the platform cannot reach the original host. No retry on failure.
func (p *Pipeline) sendImage(ctx context.Context, sess platform.Session, targetID string, kind platform.ThreadKind, url string) string {
	data, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return "Image Failed: " + err.Error()
	}

	err = sess.SendAttachment(ctx, targetID, kind, platform.Attachment{
		Data:     data,
		Filename: attachmentFilename,
		Size:     len(data),
	})
	if err != nil {
		return "Image Failed: " + err.Error()
	}
	return "Image Sent (Buffer)"
}

func (p *Pipeline) sendText(ctx context.Context, sess platform.Session, targetID string, kind platform.ThreadKind, msg platform.StyledMessage) string {
	if err := sess.SendText(ctx, targetID, kind, msg); err != nil {
		logger.WarnCF("delivery", "Text send failed", map[string]any{
			"target": targetID,
			"error":  err.Error(),
		})
		return "Text Failed"
	}
	return "Text Sent"
}

// sendVoice tries the platform's native voice send first and falls back to a
// plain pronunciation link. The failure tag carries the original error, not
// the fallback's.
func (p *Pipeline) sendVoice(ctx context.Context, sess platform.Session, targetID string, kind platform.ThreadKind, url string) string {
	err := sess.SendVoice(ctx, targetID, kind, platform.VoiceRef{VoiceURL: url})
	if err == nil {
		return "Voice Sent (Direct URL)"
	}

	fallback := platform.StyledMessage{Body: "Pronunciation link: " + url}
	if fbErr := sess.SendText(ctx, targetID, kind, fallback); fbErr == nil {
		return "Voice Sent (Link Fallback)"
	}

	return "Voice Failed: " + err.Error()
}
