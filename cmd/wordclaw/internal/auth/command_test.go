package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthCommand(t *testing.T) {
	cmd := NewAuthCommand()

	require.NotNil(t, cmd)
	assert.Equal(t, "auth", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Flags().Lookup("output"))
}

func TestPasteToken_ReadsCookieAndIMEI(t *testing.T) {
	input := strings.NewReader("zpsid=abc123; zpw_sek=def\n359881234567890\n")

	tok, err := PasteToken(input)
	require.NoError(t, err)
	assert.Equal(t, "zpsid=abc123; zpw_sek=def", tok.Cookie)
	assert.Equal(t, "359881234567890", tok.IMEI)
}

func TestPasteToken_TrimsWhitespace(t *testing.T) {
	input := strings.NewReader("  cookie-value  \n  imei-1  \n")

	tok, err := PasteToken(input)
	require.NoError(t, err)
	assert.Equal(t, "cookie-value", tok.Cookie)
	assert.Equal(t, "imei-1", tok.IMEI)
}

func TestPasteToken_EmptyCookie(t *testing.T) {
	_, err := PasteToken(strings.NewReader("\nimei\n"))
	assert.ErrorContains(t, err, "cookie cannot be empty")
}

func TestPasteToken_NoInput(t *testing.T) {
	_, err := PasteToken(strings.NewReader(""))
	assert.Error(t, err)
}
