// Package platform defines the typed contracts for the remote chat platform.
//
// The platform is reached through a bridge sidecar (see pkg/platform/bridge),
// but nothing in this package assumes a transport: Client and Session are the
// whole surface the rest of wordclaw programs against. A Session is a live,
// call-scoped capability; callers obtain one per invocation and discard it
// when the invocation ends.
package platform

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned when an operation is attempted without a
// live session. The public entry points always establish one first, so
// hitting this indicates internal misuse.
var ErrUnauthenticated = errors.New("unauthorized: no active platform session")

// ThreadKind selects between the platform's two send variants.
// The values match the platform wire protocol (0 = user, 1 = group).
type ThreadKind int

const (
	ThreadUser  ThreadKind = 0
	ThreadGroup ThreadKind = 1
)

func (k ThreadKind) String() string {
	if k == ThreadGroup {
		return "group"
	}
	return "user"
}

// Credentials is a normalized session token accepted by Client.Login.
// Cookie is either a raw string or a structured object, exactly as the
// platform captured it.
type Credentials struct {
	Cookie    any    `json:"cookie"`
	IMEI      string `json:"imei"`
	UserAgent string `json:"userAgent"`
}

// Contact is one entry of the platform's direct-contact list.
type Contact struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
	ZaloName    string `json:"zaloName,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

// GroupInfo is the hydrated display metadata for one group.
type GroupInfo struct {
	Name   string `json:"name"`
	Avatar string `json:"avt"`
}

// StyleTag marks a visual emphasis applied to a span of message text.
type StyleTag string

const (
	StyleBold    StyleTag = "b"
	StyleItalic  StyleTag = "i"
	StyleHeading StyleTag = "h1"
)

// StyleRange annotates [Start, Start+Length) of a message body with a style.
// Ranges may overlap; their order is insertion order.
type StyleRange struct {
	Start  int      `json:"start"`
	Length int      `json:"len"`
	Style  StyleTag `json:"st"`
}

// StyledMessage is a text message body plus its inline style annotations.
type StyledMessage struct {
	Body   string       `json:"body"`
	Styles []StyleRange `json:"styles,omitempty"`
}

// Attachment is an in-memory binary payload sent as a file attachment.
type Attachment struct {
	Data     []byte `json:"data"`
	Filename string `json:"filename"`
	Size     int    `json:"totalSize"`
}

// VoiceRef points the platform at an externally hosted voice clip.
type VoiceRef struct {
	VoiceURL string `json:"voiceUrl"`
}

// Client authenticates captured credentials against the platform.
type Client interface {
	// Login performs a full remote login and returns a live session.
	// It makes exactly one attempt; retry policy belongs to callers.
	Login(ctx context.Context, creds Credentials) (Session, error)
}

// Session is a live authenticated handle to the platform. It is owned by a
// single orchestration call and must not be shared or reused across calls.
type Session interface {
	// ListContacts returns the full direct-contact list.
	ListContacts(ctx context.Context) ([]Contact, error)

	// ListGroupIndex returns the group version index keyed by group id.
	ListGroupIndex(ctx context.Context) (map[string]string, error)

	// HydrateGroups fetches display metadata for the given group ids in one
	// batched call. Ids missing from the result were unknown to the platform.
	HydrateGroups(ctx context.Context, ids []string) (map[string]GroupInfo, error)

	// SendText sends a styled text message into the target thread.
	SendText(ctx context.Context, targetID string, kind ThreadKind, msg StyledMessage) error

	// SendAttachment sends an in-memory binary attachment into the target thread.
	SendAttachment(ctx context.Context, targetID string, kind ThreadKind, att Attachment) error

	// SendVoice sends a voice clip by URL into the target thread.
	SendVoice(ctx context.Context, targetID string, kind ThreadKind, voice VoiceRef) error

	// Close releases the remote session. Best effort; safe to defer.
	Close(ctx context.Context) error
}
