// Package vpnlink formats connection parameters into scheme-prefixed
// descriptor strings understood by v2ray/xray client apps.
package vpnlink

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"vpnkeybot/core/logger"
)

// Protocol selects the descriptor wire format.
type Protocol string

const (
	// ProtocolVMess produces a base64-wrapped JSON descriptor.
	ProtocolVMess Protocol = "vmess"
	// ProtocolVLESS produces a query-string URI descriptor.
	ProtocolVLESS Protocol = "vless"
)

// ErrInvalidProtocol is returned for protocols outside {vmess, vless}.
var ErrInvalidProtocol = errors.New("vpnlink: invalid protocol, must be vmess or vless")

// displayName is the placeholder descriptor name shown by client apps.
const displayName = "Test Bot Generated"

// Field is a single extra descriptor parameter. Extra fields are applied
// after the per-protocol defaults, in slice order; an extra field with the
// same key as a default overrides it.
type Field struct {
	Key   string
	Value string
}

// Encoder builds descriptor strings. The zero value is not usable; construct
// with New.
type Encoder struct {
	newID func() string
}

// Option customises an Encoder.
type Option func(*Encoder)

// WithIDSource replaces the per-issuance identifier generator. Tests use it to
// make Encode deterministic.
func WithIDSource(fn func() string) Option {
	return func(e *Encoder) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// New returns an Encoder issuing a fresh random UUID per encoded link.
func New(opts ...Option) *Encoder {
	e := &Encoder{newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProtocolFor derives the descriptor protocol from the transport network.
// Websocket servers get vmess descriptors, everything else vless.
func ProtocolFor(network string) Protocol {
	if network == "ws" {
		return ProtocolVMess
	}
	return ProtocolVLESS
}

// Encode turns connection parameters into a descriptor string. The embedded
// identifier is generated fresh per call; everything else is deterministic.
func (e *Encoder) Encode(proto Protocol, address string, port int, security, network string, extra []Field) (string, error) {
	id := e.newID()

	switch Protocol(strings.ToLower(string(proto))) {
	case ProtocolVMess:
		link, err := e.encodeVMess(id, address, port, security, network, extra)
		if err != nil {
			return "", err
		}
		logger.ENC.Debug("link encoded",
			slog.String("event", "encode"),
			slog.String("proto", string(ProtocolVMess)),
			slog.String("address", address),
			slog.Int("port", port),
		)
		return link, nil
	case ProtocolVLESS:
		link := e.encodeVLESS(id, address, port, security, network, extra)
		logger.ENC.Debug("link encoded",
			slog.String("event", "encode"),
			slog.String("proto", string(ProtocolVLESS)),
			slog.String("address", address),
			slog.Int("port", port),
		)
		return link, nil
	default:
		logger.ENC.Warn("invalid protocol requested",
			slog.String("event", "encode"),
			slog.String("proto", string(proto)),
		)
		return "", fmt.Errorf("%w: %q", ErrInvalidProtocol, proto)
	}
}

func (e *Encoder) encodeVMess(id, address string, port int, security, network string, extra []Field) (string, error) {
	desc := map[string]string{
		"v":    "2",
		"ps":   displayName,
		"add":  address,
		"port": strconv.Itoa(port),
		"id":   id,
		"aid":  "0",
		"net":  network,
		"type": "none",
		"host": "",
		"path": "",
		"tls":  "",
		"sni":  "",
		"alpn": "",
		"scy":  security,
	}
	for _, f := range extra {
		desc[f.Key] = f.Value
	}

	payload, err := json.Marshal(desc)
	if err != nil {
		return "", fmt.Errorf("vpnlink: marshal vmess descriptor: %w", err)
	}
	return "vmess://" + base64.StdEncoding.EncodeToString(payload), nil
}

func (e *Encoder) encodeVLESS(id, address string, port int, security, network string, extra []Field) string {
	var params strings.Builder
	fmt.Fprintf(&params, "security=%s&type=%s", security, network)
	for _, f := range extra {
		fmt.Fprintf(&params, "&%s=%s", f.Key, f.Value)
	}
	return fmt.Sprintf("vless://%s@%s:%d?%s#%s", id, address, port, params.String(), displayName)
}
