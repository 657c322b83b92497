package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/wordclaw/pkg/platform"
	"github.com/tinyland-inc/wordclaw/pkg/platform/platformtest"
	"github.com/tinyland-inc/wordclaw/pkg/session"
	"github.com/tinyland-inc/wordclaw/pkg/token"
	"github.com/tinyland-inc/wordclaw/pkg/vocab"
)

type stubFetcher struct{}

func (stubFetcher) Fetch(context.Context, string) ([]byte, error) {
	return []byte("imagebytes"), nil
}

func validToken() token.SessionToken {
	return token.SessionToken{Cookie: "zpsid=abc", IMEI: "imei-001"}
}

func sampleRecord() vocab.Record {
	return vocab.Record{
		Word:         "ephemeral",
		PartOfSpeech: "adj",
		Meaning:      "lasting for a very short time",
		Example:      "Joy is ephemeral.",
		Media:        vocab.Media{VoiceURL: "http://voice.mp3"},
	}
}

func TestListThreads_FreshLoginPerCall(t *testing.T) {
	client := &platformtest.FakeClient{Session: &platformtest.FakeSession{
		Contacts:   []platform.Contact{{UserID: "1", DisplayName: "An"}},
		GroupIndex: map[string]string{},
	}}
	o := New(client, stubFetcher{})

	for i := 1; i <= 3; i++ {
		list, err := o.ListThreads(context.Background(), validToken())
		require.NoError(t, err)
		assert.Len(t, list, 1)
		assert.Equal(t, i, client.LoginCalls, "every invocation re-authenticates")
	}
}

func TestListThreads_InvalidToken(t *testing.T) {
	client := &platformtest.FakeClient{}
	o := New(client, stubFetcher{})

	_, err := o.ListThreads(context.Background(), token.SessionToken{IMEI: "only-imei"})
	assert.ErrorIs(t, err, token.ErrInvalidToken)
	assert.Zero(t, client.LoginCalls, "no remote call for malformed tokens")
}

func TestListThreads_AuthRejection(t *testing.T) {
	client := &platformtest.FakeClient{LoginErr: errors.New("cookie expired")}
	o := New(client, stubFetcher{})

	_, err := o.ListThreads(context.Background(), validToken())
	var authErr *session.AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestSendVocabulary_ComposesAndDelivers(t *testing.T) {
	sess := &platformtest.FakeSession{}
	client := &platformtest.FakeClient{Session: sess}
	o := New(client, stubFetcher{})

	out, err := o.SendVocabulary(context.Background(), validToken(), "200", sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, []string{"Text Sent", "Voice Sent (Direct URL)"}, []string(out))

	require.Len(t, sess.Texts, 1)
	sent := sess.Texts[0].Message
	assert.Contains(t, sent.Body, "ephemeral (adj)")
	assert.Len(t, sent.Styles, 4, "headword pair plus example-occurrence pair")
}

func TestSendVocabulary_SessionDiscardedAfterCall(t *testing.T) {
	sess := &platformtest.FakeSession{}
	client := &platformtest.FakeClient{Session: sess}
	o := New(client, stubFetcher{})

	_, err := o.SendVocabulary(context.Background(), validToken(), "200", sampleRecord())
	require.NoError(t, err)
	assert.True(t, sess.Closed)
	assert.Equal(t, "close", sess.Calls[len(sess.Calls)-1])
}

func TestSendVocabulary_PartialFailureIsNotAnError(t *testing.T) {
	sess := &platformtest.FakeSession{TextErr: errors.New("throttled")}
	client := &platformtest.FakeClient{Session: sess}
	o := New(client, stubFetcher{})

	out, err := o.SendVocabulary(context.Background(), validToken(), "200", sampleRecord())
	require.NoError(t, err, "per-part failures are reported in the outcome, never thrown")
	assert.True(t, out.Failed())
	assert.Contains(t, []string(out), "Text Failed")
}

func TestSendVocabulary_CustomKindPolicy(t *testing.T) {
	sess := &platformtest.FakeSession{}
	client := &platformtest.FakeClient{Session: sess}
	o := New(client, stubFetcher{}, WithKindPolicy(func(string) platform.ThreadKind {
		return platform.ThreadGroup
	}))

	rec := sampleRecord()
	rec.Media = vocab.Media{}
	_, err := o.SendVocabulary(context.Background(), validToken(), "short", rec)
	require.NoError(t, err)
	assert.Equal(t, platform.ThreadGroup, sess.Texts[0].Kind)
}
