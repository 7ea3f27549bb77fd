package config

import (
	"net"
)

// DefaultHTTPPort is the port the original deployment exposed to LAN
// clients; mobile devices reach the upload page through it.
const DefaultHTTPPort = "5000"

// LocalIP returns the address of the interface that would route to the
// public internet. It never fails: when no route exists (offline host)
// the loopback address is returned.
func LocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "127.0.0.1"
	}
	return addr.IP.String()
}
