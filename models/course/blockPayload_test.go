package course

import (
	"testing"

	"minicourse/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayloadAcceptsSingleObject(t *testing.T) {
	p, err := DecodePayload(KindText, []byte(`  {"html":"<p>x</p>"}  `))
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", p.(*TextPayload).HTML)
}

func TestDecodePayloadRejectsTrailingData(t *testing.T) {
	for _, raw := range []string{
		`{"html":"x"} {"junk":1}`,
		`{"html":"x"}]`,
		`{"html":"x"} 1`,
	} {
		_, err := DecodePayload(KindText, []byte(raw))
		assert.ErrorIs(t, err, apperr.ErrInvalidPayload, raw)
	}
}
