package analyzer_test

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuzumoe/sitescope-api/internal/analyzer"
)

const htmlType = "text/html; charset=utf-8"

func TestFingerprint_IgnoresMarkupScriptsAndStyles(t *testing.T) {
	a := []byte(`<html><head><title>A</title><style>body{color:red}</style></head>
<body><div class="x"><h1>Pricing</h1>
<p>Plans   start at $5.</p></div><script>track("a")</script></body></html>`)
	b := []byte(`<html><head><title>B</title></head>
<body><section id="main"><h1>Pricing</h1>
<p>Plans
start at $5.</p></section><noscript>enable js</noscript><script>track("b")</script></body></html>`)

	ha := analyzer.Fingerprint(a, htmlType, 200)
	hb := analyzer.Fingerprint(b, htmlType, 200)
	require.NotNil(t, ha)
	require.NotNil(t, hb)
	assert.Equal(t, *ha, *hb)
	assert.Len(t, *ha, 64)
}

func TestFingerprint_DifferentTextDiffers(t *testing.T) {
	ha := analyzer.Fingerprint([]byte(`<body><p>one</p></body>`), htmlType, 200)
	hb := analyzer.Fingerprint([]byte(`<body><p>two</p></body>`), htmlType, 200)
	require.NotNil(t, ha)
	require.NotNil(t, hb)
	assert.NotEqual(t, *ha, *hb)
}

func TestFingerprint_NilCases(t *testing.T) {
	tests := []struct {
		name        string
		body        []byte
		contentType string
		status      int
	}{
		{"not found", []byte(`<body><p>missing</p></body>`), htmlType, 404},
		{"server error", []byte("oops"), "text/plain", 500},
		{"redirect status", []byte("moved"), "text/plain", 301},
		{"html without visible text", []byte(`<html><body><script>x()</script>  </body></html>`), htmlType, 200},
		{"empty binary body", nil, "application/octet-stream", 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, analyzer.Fingerprint(tt.body, tt.contentType, tt.status))
		})
	}
}

func TestFingerprint_NonHTMLHashesRawBytes(t *testing.T) {
	body := []byte(`{"hello":"world"}`)
	sum := sha256.Sum256(body)

	h := analyzer.Fingerprint(body, "application/json", 200)
	require.NotNil(t, h)
	assert.Equal(t, hex.EncodeToString(sum[:]), *h)

	h = analyzer.Fingerprint(body, "", 204)
	require.NotNil(t, h)
	assert.Equal(t, hex.EncodeToString(sum[:]), *h)
}

func TestFingerprint_HTMLHashesNormalizedText(t *testing.T) {
	sum := sha256.Sum256([]byte("Hello world"))
	h := analyzer.Fingerprint([]byte("<html><body>\n  Hello\n\n world  </body></html>"), htmlType, 200)
	require.NotNil(t, h)
	assert.Equal(t, hex.EncodeToString(sum[:]), *h)
}

func TestFingerprint_MalformedHTMLHeaderStillHashesText(t *testing.T) {
	sum := sha256.Sum256([]byte("Hello world"))
	for _, ct := range []string{
		"text/html; charset=utf-8; charset=latin1",
		"TEXT/HTML; charset",
	} {
		h := analyzer.Fingerprint([]byte("<html><body><b>Hello</b> world</body></html>"), ct, 200)
		require.NotNil(t, h, ct)
		assert.Equal(t, hex.EncodeToString(sum[:]), *h, ct)
	}
}

func TestVisibleText(t *testing.T) {
	text, err := analyzer.VisibleText([]byte(`<html><body>
<h1>Hi</h1>
<script>var a = 1;</script>
<style>.a{}</style>
<noscript>turn on js</noscript>
<p>there</p>
</body></html>`), htmlType)
	require.NoError(t, err)
	assert.Equal(t, "Hi there", text)
}

func TestIsHTML(t *testing.T) {
	assert.True(t, analyzer.IsHTML("text/html"))
	assert.True(t, analyzer.IsHTML("application/xhtml+xml"))
	assert.True(t, analyzer.IsHTML("TEXT/HTML"))
	assert.False(t, analyzer.IsHTML("application/pdf"))
	assert.False(t, analyzer.IsHTML(""))
}
