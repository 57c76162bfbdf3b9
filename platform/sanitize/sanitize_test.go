package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	cases := map[string]string{
		"Ada Lovelace":                       "Ada Lovelace",
		"  Ada \n\t Lovelace ":               "Ada Lovelace",
		"<b>Ada</b>":                         "Ada",
		"Ada<script>alert(1)</script>":       "Adaalert(1)",
		"&lt;img src=x onerror=alert(1)&gt;": "",
		"Tom &amp; Jerry":                    "Tom & Jerry",
		"":                                   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Text(in), in)
	}
}
