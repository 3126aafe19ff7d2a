package gmaps

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
)

func startDNSServer(t *testing.T) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen on udp: %v", err)
	}

	handler := dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		if r.Question[0].Name == "missing.test." {
			m.SetRcode(r, dns.RcodeNameError)
		} else {
			m.SetReply(r)
			rr, _ := dns.NewRR(r.Question[0].Name + " 60 IN A 127.0.0.1")
			m.Answer = append(m.Answer, rr)
		}
		_ = w.WriteMsg(m)
	})

	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("dns server did not start")
	}
	return pc.LocalAddr().String()
}

func TestDNSCheckerResolves(t *testing.T) {
	addr := startDNSServer(t)
	c := NewDNSChecker([]string{addr}, time.Second)

	ok, err := c.Resolves(context.Background(), "www.hiring.test")
	if err != nil || !ok {
		t.Errorf("existing host: got %v, %v", ok, err)
	}

	ok, err = c.Resolves(context.Background(), "missing.test")
	if err != nil || ok {
		t.Errorf("NXDOMAIN host: got %v, %v", ok, err)
	}
}

func TestDNSCheckerNoServers(t *testing.T) {
	if _, err := NewDNSChecker(nil, time.Second).Resolves(context.Background(), "x.test"); err == nil {
		t.Error("expected an error without servers")
	}
}
