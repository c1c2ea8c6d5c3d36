package signing

import (
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	payload := []byte(`{"mensagem":"ok"}`)
	at := time.Unix(1700000000, 0)

	sig, ts := Sign("segredo", payload, at)

	assert.Equal(t, int64(1700000000), ts)
	assert.True(t, strings.HasPrefix(sig, "v1="))
	assert.True(t, Verify("segredo", payload, ts, sig))
	assert.False(t, Verify("outro", payload, ts, sig))
	assert.False(t, Verify("segredo", []byte(`{}`), ts, sig))
	assert.False(t, Verify("segredo", payload, ts+1, sig))
}

func TestSetHeaders(t *testing.T) {
	payload := []byte(`[1,2,3]`)

	h := http.Header{}
	SetHeaders(h, "segredo", payload)

	ts, err := strconv.ParseInt(h.Get(HeaderTimestamp), 10, 64)
	require.NoError(t, err)
	assert.True(t, Verify("segredo", payload, ts, h.Get(HeaderSignature)))

	empty := http.Header{}
	SetHeaders(empty, "", payload)
	assert.Empty(t, empty)
}
