package gmaps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/miekg/dns"
)

var errNoDNSServers = errors.New("gmaps: no DNS servers configured")

// DNSChecker asks the configured servers for an A record of a host.
type DNSChecker struct {
	servers []string
	client  *dns.Client
}

// NewDNSChecker creates a checker that tries servers in order.
func NewDNSChecker(servers []string, timeout time.Duration) *DNSChecker {
	return &DNSChecker{
		servers: servers,
		client:  &dns.Client{Timeout: timeout},
	}
}

// Resolves returns false only on an authoritative NXDOMAIN. Transport
// failures on every server return an error so the caller can probe anyway.
func (d *DNSChecker) Resolves(ctx context.Context, host string) (bool, error) {
	if len(d.servers) == 0 {
		return false, errNoDNSServers
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), dns.TypeA)
	msg.RecursionDesired = true

	var lastErr error
	for _, server := range d.servers {
		resp, _, err := d.client.ExchangeContext(ctx, msg, server)
		if err != nil {
			lastErr = err
			continue
		}
		switch resp.Rcode {
		case dns.RcodeSuccess:
			return true, nil
		case dns.RcodeNameError:
			return false, nil
		default:
			lastErr = fmt.Errorf("%s answered %s", server, dns.RcodeToString[resp.Rcode])
		}
	}
	return false, lastErr
}
