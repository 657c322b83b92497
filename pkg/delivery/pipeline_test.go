package delivery

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/wordclaw/pkg/platform"
	"github.com/tinyland-inc/wordclaw/pkg/platform/platformtest"
	"github.com/tinyland-inc/wordclaw/pkg/vocab"
)

// fakeFetcher serves canned bytes per URL without touching the network.
type fakeFetcher struct {
	data map[string][]byte
	err  error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.data[url]; ok {
		return b, nil
	}
	return nil, errors.New("failed to fetch media: " + url)
}

var styledMsg = platform.StyledMessage{
	Body:   "ephemeral (adj)\n...",
	Styles: []platform.StyleRange{{Start: 0, Length: 9, Style: platform.StyleBold}},
}

func TestDeliver_AllPartsSucceed(t *testing.T) {
	sess := &platformtest.FakeSession{}
	fetcher := &fakeFetcher{data: map[string][]byte{"http://img": []byte("jpegbytes")}}
	p := NewPipeline(fetcher, nil)

	out, err := p.Deliver(context.Background(), sess, "200", styledMsg, vocab.Media{
		ImageURL: "http://img",
		VoiceURL: "http://voice.mp3",
	})
	require.NoError(t, err)

	assert.Equal(t, Outcome{"Image Sent (Buffer)", "Text Sent", "Voice Sent (Direct URL)"}, out)
	assert.False(t, out.Failed())

	require.Len(t, sess.Attachments, 1)
	att := sess.Attachments[0].Att
	assert.Equal(t, "vocab_image.jpg", att.Filename)
	assert.Equal(t, len("jpegbytes"), att.Size)

	require.Len(t, sess.Texts, 1)
	assert.Equal(t, styledMsg, sess.Texts[0].Message)
}

func TestDeliver_VoiceOnlyNeverAttemptsImage(t *testing.T) {
	sess := &platformtest.FakeSession{}
	p := NewPipeline(&fakeFetcher{}, nil)

	out, err := p.Deliver(context.Background(), sess, "200", styledMsg, vocab.Media{
		VoiceURL: "http://voice.mp3",
	})
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "Text Sent", out[0])
	assert.True(t, strings.HasPrefix(out[1], "Voice Sent"))
	assert.Empty(t, sess.Attachments)
}

func TestDeliver_ImageDownloadFailureDoesNotAbort(t *testing.T) {
	sess := &platformtest.FakeSession{}
	p := NewPipeline(&fakeFetcher{err: errors.New("dns failure")}, nil)

	out, err := p.Deliver(context.Background(), sess, "200", styledMsg, vocab.Media{
		ImageURL: "http://img",
		VoiceURL: "http://voice.mp3",
	})
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.Equal(t, "Image Failed: dns failure", out[0])
	assert.Equal(t, "Text Sent", out[1])
	assert.Equal(t, "Voice Sent (Direct URL)", out[2])
	assert.True(t, out.Failed())
}

func TestDeliver_AttachmentSendFailure(t *testing.T) {
	sess := &platformtest.FakeSession{AttachmentErr: errors.New("upload rejected")}
	p := NewPipeline(&fakeFetcher{data: map[string][]byte{"http://img": []byte("x")}}, nil)

	out, err := p.Deliver(context.Background(), sess, "200", styledMsg, vocab.Media{ImageURL: "http://img"})
	require.NoError(t, err)
	assert.Equal(t, "Image Failed: upload rejected", out[0])
	assert.Equal(t, "Text Sent", out[1])
}

func TestDeliver_TextFailureHasNoFallback(t *testing.T) {
	sess := &platformtest.FakeSession{TextErr: errors.New("throttled")}
	p := NewPipeline(&fakeFetcher{}, nil)

	out, err := p.Deliver(context.Background(), sess, "200", styledMsg, vocab.Media{})
	require.NoError(t, err)
	assert.Equal(t, Outcome{"Text Failed"}, out)
}

func TestDeliver_VoiceFallbackToLink(t *testing.T) {
	sess := &platformtest.FakeSession{VoiceErr: errors.New("voice api down")}
	p := NewPipeline(&fakeFetcher{}, nil)

	out, err := p.Deliver(context.Background(), sess, "200", styledMsg, vocab.Media{VoiceURL: "http://voice.mp3"})
	require.NoError(t, err)

	assert.Equal(t, "Voice Sent (Link Fallback)", out[len(out)-1])

	// The fallback is a plain text message carrying the raw URL.
	require.Len(t, sess.Texts, 2)
	assert.Contains(t, sess.Texts[1].Message.Body, "http://voice.mp3")
	assert.Empty(t, sess.Texts[1].Message.Styles)
}

func TestDeliver_VoiceFailureTagCarriesOriginalError(t *testing.T) {
	sess := &platformtest.FakeSession{
		VoiceErr: errors.New("voice api down"),
		TextErr:  errors.New("text also down"),
	}
	p := NewPipeline(&fakeFetcher{}, nil)

	out, err := p.Deliver(context.Background(), sess, "200", styledMsg, vocab.Media{VoiceURL: "http://voice.mp3"})
	require.NoError(t, err)

	// Fallback was observably attempted before the failure tag was written.
	assert.Equal(t, []string{"text", "voice", "text"}, sess.Calls)
	assert.Equal(t, "Voice Failed: voice api down", out[len(out)-1],
		"tag carries the original voice error, not the fallback's")
}

func TestDeliver_NilSession(t *testing.T) {
	p := NewPipeline(&fakeFetcher{}, nil)
	_, err := p.Deliver(context.Background(), nil, "200", styledMsg, vocab.Media{})
	assert.ErrorIs(t, err, platform.ErrUnauthenticated)
}

func TestDeliver_KindInferredOncePerCall(t *testing.T) {
	sess := &platformtest.FakeSession{}
	calls := 0
	policy := func(string) platform.ThreadKind {
		calls++
		return platform.ThreadGroup
	}
	p := NewPipeline(&fakeFetcher{data: map[string][]byte{"http://img": []byte("x")}}, policy)

	_, err := p.Deliver(context.Background(), sess, "abc", styledMsg, vocab.Media{
		ImageURL: "http://img",
		VoiceURL: "http://v",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, platform.ThreadGroup, sess.Attachments[0].Kind)
	assert.Equal(t, platform.ThreadGroup, sess.Texts[0].Kind)
	assert.Equal(t, platform.ThreadGroup, sess.Voices[0].Kind)
}

func TestDefaultKindPolicy_LengthBoundary(t *testing.T) {
	id18 := strings.Repeat("1", 18)
	id19 := strings.Repeat("1", 19)

	assert.Equal(t, platform.ThreadUser, DefaultKindPolicy(id18))
	assert.Equal(t, platform.ThreadGroup, DefaultKindPolicy(id19))
	assert.Equal(t, platform.ThreadGroup, DefaultKindPolicy("g12345"), "g-prefixed ids are groups regardless of length")
}
