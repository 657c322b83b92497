// Package bridge implements platform.Client against the zca bridge sidecar.
//
// The sidecar owns the platform wire protocol; wordclaw speaks plain JSON
// over HTTP to it. Every request and response here is a typed contract, so
// protocol drift surfaces as a decode error instead of a silent nil.
package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tinyland-inc/wordclaw/pkg/logger"
	"github.com/tinyland-inc/wordclaw/pkg/platform"
)

// Option configures a Client.
type Option func(*Client)

// WithAPIKey authenticates wordclaw to the bridge itself (not the platform).
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithTimeout caps the duration of each bridge call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// Client talks to the bridge sidecar. It implements platform.Client.
type Client struct {
	http   *resty.Client
	apiKey string
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.apiKey != "" {
		c.http.SetHeader("X-Bridge-Key", c.apiKey)
	}
	return c
}

// errorBody is the bridge's uniform failure shape.
type errorBody struct {
	Error string `json:"error"`
}

func (e errorBody) message() string {
	if e.Error != "" {
		return e.Error
	}
	return "unknown bridge error"
}

type loginRequest struct {
	platform.Credentials
}

type loginResponse struct {
	SessionID string `json:"sessionId"`
}

// Login implements platform.Client. It performs exactly one login attempt
// and wraps the remote rejection reason verbatim.
func (c *Client) Login(ctx context.Context, creds platform.Credentials) (platform.Session, error) {
	var out loginResponse
	if err := c.post(ctx, "/api/login", loginRequest{Credentials: creds}, &out); err != nil {
		return nil, err
	}
	logger.InfoCF("bridge", "Platform login successful", map[string]any{
		"imei": creds.IMEI,
	})
	return &session{client: c, id: out.SessionID}, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var apiErr errorBody
	req := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetError(&apiErr)
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Post(path)
	if err != nil {
		return fmt.Errorf("bridge %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("bridge %s: %s", path, apiErr.message())
	}
	return nil
}

// session is a live bridge-backed platform session.
type session struct {
	client *Client
	id     string
}

type sessionRequest struct {
	SessionID string `json:"sessionId"`
}

type contactsResponse struct {
	Friends []platform.Contact `json:"friends"`
}

func (s *session) ListContacts(ctx context.Context) ([]platform.Contact, error) {
	var out contactsResponse
	if err := s.client.post(ctx, "/api/friends", sessionRequest{SessionID: s.id}, &out); err != nil {
		return nil, err
	}
	return out.Friends, nil
}

type groupIndexResponse struct {
	GridVerMap map[string]string `json:"gridVerMap"`
}

func (s *session) ListGroupIndex(ctx context.Context) (map[string]string, error) {
	var out groupIndexResponse
	if err := s.client.post(ctx, "/api/groups", sessionRequest{SessionID: s.id}, &out); err != nil {
		return nil, err
	}
	return out.GridVerMap, nil
}

type hydrateRequest struct {
	SessionID string   `json:"sessionId"`
	GroupIDs  []string `json:"groupIds"`
}

type hydrateResponse struct {
	GridInfoMap map[string]platform.GroupInfo `json:"gridInfoMap"`
}

func (s *session) HydrateGroups(ctx context.Context, ids []string) (map[string]platform.GroupInfo, error) {
	var out hydrateResponse
	if err := s.client.post(ctx, "/api/group-info", hydrateRequest{SessionID: s.id, GroupIDs: ids}, &out); err != nil {
		return nil, err
	}
	return out.GridInfoMap, nil
}

type sendTextRequest struct {
	SessionID string                 `json:"sessionId"`
	ThreadID  string                 `json:"threadId"`
	Type      platform.ThreadKind    `json:"type"`
	Message   platform.StyledMessage `json:"message"`
}

func (s *session) SendText(ctx context.Context, targetID string, kind platform.ThreadKind, msg platform.StyledMessage) error {
	return s.client.post(ctx, "/api/send-message", sendTextRequest{
		SessionID: s.id,
		ThreadID:  targetID,
		Type:      kind,
		Message:   msg,
	}, nil)
}

type sendAttachmentRequest struct {
	SessionID string              `json:"sessionId"`
	ThreadID  string              `json:"threadId"`
	Type      platform.ThreadKind `json:"type"`
	// Data is base64-encoded by encoding/json ([]byte field).
	Data     []byte `json:"data"`
	Filename string `json:"filename"`
	Size     int    `json:"totalSize"`
}

func (s *session) SendAttachment(ctx context.Context, targetID string, kind platform.ThreadKind, att platform.Attachment) error {
	return s.client.post(ctx, "/api/send-attachment", sendAttachmentRequest{
		SessionID: s.id,
		ThreadID:  targetID,
		Type:      kind,
		Data:      att.Data,
		Filename:  att.Filename,
		Size:      att.Size,
	}, nil)
}

type sendVoiceRequest struct {
	SessionID string              `json:"sessionId"`
	ThreadID  string              `json:"threadId"`
	Type      platform.ThreadKind `json:"type"`
	VoiceURL  string              `json:"voiceUrl"`
}

func (s *session) SendVoice(ctx context.Context, targetID string, kind platform.ThreadKind, voice platform.VoiceRef) error {
	return s.client.post(ctx, "/api/send-voice", sendVoiceRequest{
		SessionID: s.id,
		ThreadID:  targetID,
		Type:      kind,
		VoiceURL:  voice.VoiceURL,
	}, nil)
}

func (s *session) Close(ctx context.Context) error {
	if err := s.client.post(ctx, "/api/logout", sessionRequest{SessionID: s.id}, nil); err != nil {
		logger.WarnCF("bridge", "Session logout failed", map[string]any{"error": err.Error()})
		return err
	}
	return nil
}
