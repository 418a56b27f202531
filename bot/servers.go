package bot

import "vpnkeybot/vpnlink"

// ServerDescriptor describes one selectable endpoint's connection parameters.
// The descriptor protocol is not stored here: it is derived from Network via
// vpnlink.ProtocolFor and callers cannot override that mapping.
type ServerDescriptor struct {
	Location string
	Address  string
	Port     int
	Security string
	Network  string
	Extra    []vpnlink.Field
}

// Catalog maps location tokens to server descriptors.
type Catalog map[string]ServerDescriptor

// DefaultCatalog returns the static placeholder server list.
func DefaultCatalog() Catalog {
	return Catalog{
		"russia": {
			Location: "russia",
			Address:  "ru.example.com",
			Port:     443,
			Security: "tls",
			Network:  "ws",
			Extra:    []vpnlink.Field{{Key: "path", Value: "/ws"}},
		},
		"america": {
			Location: "america",
			Address:  "us.example.com",
			Port:     8443,
			Security: "tls",
			Network:  "tcp",
			Extra:    []vpnlink.Field{{Key: "flow", Value: "xtls-rprx-vision"}},
		},
		"germany": {
			Location: "germany",
			Address:  "de.example.com",
			Port:     2053,
			Security: "tls",
			Network:  "ws",
			Extra:    []vpnlink.Field{{Key: "path", Value: "/v2ray"}},
		},
		"singapore": {
			Location: "singapore",
			Address:  "sg.example.com",
			Port:     443,
			Security: "tls",
			Network:  "tcp",
		},
	}
}
