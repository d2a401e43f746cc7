package authflow

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
)

func TestTermAuth_Phone(t *testing.T) {
	t.Run("preset", func(t *testing.T) {
		a := NewTermAuth("+1234567890", strings.NewReader("+000\n"))
		got, err := a.Phone(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "+1234567890", got)
	})
	t.Run("from input", func(t *testing.T) {
		a := NewTermAuth("", strings.NewReader("  +44123\nnext\n"))
		got, err := a.Phone(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "+44123", got)
	})
}

func TestTermAuth_Code(t *testing.T) {
	code := &tg.AuthSentCode{Type: &tg.AuthSentCodeTypeApp{Length: 5}}
	t.Run("retries invalid code", func(t *testing.T) {
		a := NewTermAuth("", strings.NewReader("123\n\n12345\n"))
		got, err := a.Code(context.Background(), code)
		assert.NoError(t, err)
		assert.Equal(t, "12345", got)
	})
	t.Run("end of input", func(t *testing.T) {
		a := NewTermAuth("", strings.NewReader("123\n"))
		_, err := a.Code(context.Background(), code)
		assert.EqualError(t, err, "login aborted")
	})
}

func Test_validCode(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   bool
	}{
		{"12345", 5, true},
		{"1234", 5, false},
		{"1234", 0, true},
		{"", 0, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validCode(tt.input, tt.length), "%q/%d", tt.input, tt.length)
	}
}

func Test_getCodeSpecifics(t *testing.T) {
	_, n := getCodeSpecifics(&tg.AuthSentCode{Type: &tg.AuthSentCodeTypeSMS{Length: 6}})
	assert.Equal(t, 6, n)
	_, n = getCodeSpecifics(&tg.AuthSentCode{Type: &tg.AuthSentCodeTypeFlashCall{Pattern: "+7***"}})
	assert.Equal(t, 5, n)
}

func Test_getCodeTimeout(t *testing.T) {
	code := &tg.AuthSentCode{Type: &tg.AuthSentCodeTypeApp{Length: 5}}
	_, d := getCodeTimeout(code)
	assert.Equal(t, 30*time.Minute, d)

	code.SetTimeout(120)
	help, d := getCodeTimeout(code)
	assert.Equal(t, 2*time.Minute, d)
	assert.Equal(t, " (enter code within 2m0s)", help)
}

func TestInstructions(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	Instructions(&buf)
	assert.Contains(t, buf.String(), "https://my.telegram.org/apps")
	assert.Contains(t, buf.String(), "API_ID=")
}
