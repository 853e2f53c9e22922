package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageMeta(t *testing.T) {
	meta, err := ParsePageMeta(`<html><head>
  <title>
    About   us | Studio
  </title>
  <meta name="description" content="  Who we are. ">
</head><body>
  <a href="/contact">Contact</a>
  <a href="https://elsewhere.example/">Out</a>
  <a href="/blog">Blog</a>
</body></html>`)
	require.NoError(t, err)

	assert.Equal(t, "About us | Studio", meta.Title)
	assert.Equal(t, "Who we are.", meta.Description)
	assert.Equal(t, []string{"/contact", "/blog"}, meta.Links)
}

func TestParsePageMetaEmpty(t *testing.T) {
	meta, err := ParsePageMeta("")
	require.NoError(t, err)
	assert.Empty(t, meta.Title)
	assert.Empty(t, meta.Links)
}
