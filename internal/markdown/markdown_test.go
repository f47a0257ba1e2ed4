package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTML(t *testing.T) {
	r := NewRenderer()

	html, err := r.HTML("Hi **Ada**,\n\n| Stat | Value |\n|---|---|\n| Putts | 31 |\n")
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>Ada</strong>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<td>31</td>")
}

func TestHTMLEscapesRawHTML(t *testing.T) {
	html, err := NewRenderer().HTML("Hi <script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}
