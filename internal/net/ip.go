package net

import (
	"fmt"
	"log"
	"net"
)

// OutgoingIP picks the address viewers on the LAN should use to reach
// this host.
func OutgoingIP() string {
	// No packets are sent; dialing UDP only selects the outbound interface.
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err == nil {
		defer conn.Close()
		if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
			return addr.IP.String()
		}
	}
	return firstIPv4().String()
}

func firstIPv4() net.IP {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.Printf("[MIRROR] Listing interfaces failed: %v", err)
		return net.IPv4(127, 0, 0, 1)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	log.Println("[MIRROR] No suitable local IP found, share link may not work")
	return net.IPv4(127, 0, 0, 1)
}

// MirrorURL is the websocket address of a hub on host:port.
func MirrorURL(host string, port int) string {
	return fmt.Sprintf("ws://%s%s", net.JoinHostPort(host, fmt.Sprint(port)), MirrorPath)
}
