package vpnlink

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeVMess(t *testing.T, link string) map[string]string {
	t.Helper()
	require.True(t, strings.HasPrefix(link, "vmess://"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(link, "vmess://"))
	require.NoError(t, err)
	desc := map[string]string{}
	require.NoError(t, json.Unmarshal(raw, &desc))
	return desc
}

func TestEncodeVMess(t *testing.T) {
	enc := New()

	link, err := enc.Encode(ProtocolVMess, "ru.example.com", 443, "tls", "ws", []Field{
		{Key: "path", Value: "/ws"},
	})
	require.NoError(t, err)

	desc := decodeVMess(t, link)
	assert.Equal(t, "2", desc["v"])
	assert.Equal(t, "Test Bot Generated", desc["ps"])
	assert.Equal(t, "ru.example.com", desc["add"])
	assert.Equal(t, "443", desc["port"])
	assert.Equal(t, "0", desc["aid"])
	assert.Equal(t, "ws", desc["net"])
	assert.Equal(t, "tls", desc["scy"])
	assert.Equal(t, "/ws", desc["path"], "extra field must override the default")

	_, err = uuid.Parse(desc["id"])
	assert.NoError(t, err, "id must be a canonical UUID")
}

func TestEncodeVMessExtraOverridesDefault(t *testing.T) {
	enc := New()

	link, err := enc.Encode(ProtocolVMess, "host", 80, "auto", "ws", []Field{
		{Key: "type", Value: "http"},
		{Key: "host", Value: "cdn.example.com"},
	})
	require.NoError(t, err)

	desc := decodeVMess(t, link)
	assert.Equal(t, "http", desc["type"])
	assert.Equal(t, "cdn.example.com", desc["host"])
}

func TestEncodeVLESS(t *testing.T) {
	enc := New(WithIDSource(func() string { return "11111111-2222-3333-4444-555555555555" }))

	link, err := enc.Encode(ProtocolVLESS, "us.example.com", 8443, "tls", "tcp", []Field{
		{Key: "flow", Value: "xtls-rprx-vision"},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"vless://11111111-2222-3333-4444-555555555555@us.example.com:8443?security=tls&type=tcp&flow=xtls-rprx-vision#Test Bot Generated",
		link,
	)
}

func TestEncodeVLESSExtraFieldOrder(t *testing.T) {
	enc := New(WithIDSource(func() string { return "id" }))

	link, err := enc.Encode(ProtocolVLESS, "h", 1, "none", "tcp", []Field{
		{Key: "a", Value: "1"},
		{Key: "b", Value: "2"},
		{Key: "c", Value: "3"},
	})
	require.NoError(t, err)
	assert.Contains(t, link, "?security=none&type=tcp&a=1&b=2&c=3#")
}

func TestEncodeFreshIdentifierPerCall(t *testing.T) {
	enc := New()

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		link, err := enc.Encode(ProtocolVLESS, "h", 1, "none", "tcp", nil)
		require.NoError(t, err)
		id := strings.SplitN(strings.TrimPrefix(link, "vless://"), "@", 2)[0]
		assert.False(t, seen[id], "identifier reused across calls")
		seen[id] = true
	}
}

func TestEncodeInvalidProtocol(t *testing.T) {
	enc := New()

	for _, proto := range []Protocol{"", "ss", "wireguard", "trojan"} {
		_, err := enc.Encode(proto, "h", 1, "none", "tcp", nil)
		assert.ErrorIs(t, err, ErrInvalidProtocol, "proto %q", proto)
	}
}

func TestEncodeCaseInsensitiveProtocol(t *testing.T) {
	enc := New()

	link, err := enc.Encode("VMESS", "h", 1, "auto", "ws", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "vmess://"))
}

func TestProtocolFor(t *testing.T) {
	assert.Equal(t, ProtocolVMess, ProtocolFor("ws"))
	assert.Equal(t, ProtocolVLESS, ProtocolFor("tcp"))
	assert.Equal(t, ProtocolVLESS, ProtocolFor("grpc"))
	assert.Equal(t, ProtocolVLESS, ProtocolFor(""))
}
