package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkdownV2(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"empty", "", ""},
		{"dot and dash", "v2.example-host", "v2\\.example\\-host"},
		{"all specials", "_*[]()~`>#+-=|{}.!", "\\_\\*\\[\\]\\(\\)\\~\\`\\>\\#\\+\\-\\=\\|\\{\\}\\.\\!"},
		{"unicode untouched", "Главное меню 🏠", "Главное меню 🏠"},
		{"backslash passes through", `a\b`, `a\b`},
		{"link-ish text", "vless://id@host:443?security=tls#name", "vless://id@host:443?security\\=tls\\#name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EscapeMarkdownV2(tc.in))
		})
	}
}
