// Package platformtest provides configurable in-memory fakes for the
// platform boundary, used by tests across the repository.
package platformtest

import (
	"context"
	"errors"
	"sync"

	"github.com/tinyland-inc/wordclaw/pkg/platform"
)

// FakeClient implements platform.Client. The zero value accepts every login
// and hands out a fresh zero-value FakeSession.
type FakeClient struct {
	LoginErr error
	Session  *FakeSession

	// LoginCalls counts login attempts, letting tests pin down the
	// one-login-per-invocation behavior.
	LoginCalls int
	LastCreds  platform.Credentials
}

func (c *FakeClient) Login(_ context.Context, creds platform.Credentials) (platform.Session, error) {
	c.LoginCalls++
	c.LastCreds = creds
	if c.LoginErr != nil {
		return nil, c.LoginErr
	}
	if c.Session == nil {
		c.Session = &FakeSession{}
	}
	return c.Session, nil
}

// SentText records one SendText call.
type SentText struct {
	TargetID string
	Kind     platform.ThreadKind
	Message  platform.StyledMessage
}

// SentAttachment records one SendAttachment call.
type SentAttachment struct {
	TargetID string
	Kind     platform.ThreadKind
	Att      platform.Attachment
}

// SentVoice records one SendVoice call.
type SentVoice struct {
	TargetID string
	Kind     platform.ThreadKind
	Voice    platform.VoiceRef
}

// FakeSession implements platform.Session. Behavior is steered through the
// exported fields; every send is recorded in call order. Recording is
// mutex-guarded because the aggregator issues its two reads concurrently.
type FakeSession struct {
	mu sync.Mutex

	Contacts    []platform.Contact
	ContactsErr error

	GroupIndex    map[string]string
	GroupIndexErr error

	GroupInfos  map[string]platform.GroupInfo
	HydrateErr  error
	HydratedIDs [][]string

	TextErr       error
	AttachmentErr error
	VoiceErr      error

	Texts       []SentText
	Attachments []SentAttachment
	Voices      []SentVoice

	// Calls lists every operation name in invocation order.
	Calls []string

	Closed bool
}

func (s *FakeSession) record(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, op)
}

func (s *FakeSession) ListContacts(context.Context) ([]platform.Contact, error) {
	s.record("contacts")
	if s.ContactsErr != nil {
		return nil, s.ContactsErr
	}
	return s.Contacts, nil
}

func (s *FakeSession) ListGroupIndex(context.Context) (map[string]string, error) {
	s.record("group-index")
	if s.GroupIndexErr != nil {
		return nil, s.GroupIndexErr
	}
	return s.GroupIndex, nil
}

func (s *FakeSession) HydrateGroups(_ context.Context, ids []string) (map[string]platform.GroupInfo, error) {
	s.record("hydrate")
	s.mu.Lock()
	s.HydratedIDs = append(s.HydratedIDs, ids)
	s.mu.Unlock()
	if s.HydrateErr != nil {
		return nil, s.HydrateErr
	}
	return s.GroupInfos, nil
}

func (s *FakeSession) SendText(_ context.Context, targetID string, kind platform.ThreadKind, msg platform.StyledMessage) error {
	s.record("text")
	s.Texts = append(s.Texts, SentText{TargetID: targetID, Kind: kind, Message: msg})
	return s.TextErr
}

func (s *FakeSession) SendAttachment(_ context.Context, targetID string, kind platform.ThreadKind, att platform.Attachment) error {
	s.record("attachment")
	s.Attachments = append(s.Attachments, SentAttachment{TargetID: targetID, Kind: kind, Att: att})
	return s.AttachmentErr
}

func (s *FakeSession) SendVoice(_ context.Context, targetID string, kind platform.ThreadKind, voice platform.VoiceRef) error {
	s.record("voice")
	s.Voices = append(s.Voices, SentVoice{TargetID: targetID, Kind: kind, Voice: voice})
	return s.VoiceErr
}

func (s *FakeSession) Close(context.Context) error {
	s.record("close")
	if s.Closed {
		return errors.New("session already closed")
	}
	s.Closed = true
	return nil
}
