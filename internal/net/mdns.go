package net

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_signpad._tcp"

// Advertise announces the mirror on the local network until the returned
// server is shut down.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, []string{"path=" + MirrorPath})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Browse looks for advertised mirrors and returns the websocket URL of
// every one found before the timeout.
func Browse(ctx context.Context, timeout time.Duration) ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan []string)
	go func() {
		var urls []string
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			urls = append(urls, MirrorURL(e.AddrV4.String(), e.Port))
		}
		done <- urls
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		params.Timeout = time.Until(deadline)
	}
	err := mdns.Query(params)
	close(entries)
	urls := <-done
	if err != nil {
		return urls, fmt.Errorf("mDNS lookup failed: %w", err)
	}
	return urls, nil
}
