package emailcheck

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startDNSServer serves records on a random local UDP port and returns its address.
func startDNSServer(t *testing.T, records map[string][]string) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	mux := dns.NewServeMux()
	mux.HandleFunc(".", func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		q := r.Question[0]
		key := dns.TypeToString[q.Qtype] + " " + q.Name
		rrs, ok := records[key]
		if !ok {
			m.Rcode = dns.RcodeNameError
		}
		for _, s := range rrs {
			rr, err := dns.NewRR(s)
			if err == nil {
				m.Answer = append(m.Answer, rr)
			}
		}
		_ = w.WriteMsg(m)
	})

	var started sync.Mutex
	started.Lock()
	server := &dns.Server{PacketConn: pc, Handler: mux, NotifyStartedFunc: started.Unlock}
	go func() {
		_ = server.ActivateAndServe()
	}()
	started.Lock()

	t.Cleanup(func() { _ = server.Shutdown() })
	return pc.LocalAddr().String()
}

func TestNameserverResolver_MX(t *testing.T) {
	addr := startDNSServer(t, map[string][]string{
		"MX example.com.": {"example.com. 300 IN MX 10 mail.example.com."},
	})
	log, _ := test.NewNullLogger()
	r := NewNameserverResolver(addr, time.Second, log)

	assert.True(t, r.HasMailRoute(context.Background(), "example.com"))
}

func TestNameserverResolver_FallsBackToA(t *testing.T) {
	addr := startDNSServer(t, map[string][]string{
		"A a-only.example.": {"a-only.example. 300 IN A 192.0.2.10"},
	})
	log, _ := test.NewNullLogger()
	r := NewNameserverResolver(addr, time.Second, log)

	assert.True(t, r.HasMailRoute(context.Background(), "a-only.example"))
}

func TestNameserverResolver_NoRecords(t *testing.T) {
	addr := startDNSServer(t, map[string][]string{})
	log, _ := test.NewNullLogger()
	r := NewNameserverResolver(addr, time.Second, log)

	assert.False(t, r.HasMailRoute(context.Background(), "nodomain.invalid"))
}

func TestNameserverResolver_UnreachableIsNoRoute(t *testing.T) {
	// Reserve a port, then close it so nothing answers.
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := pc.LocalAddr().String()
	require.NoError(t, pc.Close())

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	r := NewNameserverResolver(addr, 200*time.Millisecond, log)

	assert.False(t, r.HasMailRoute(context.Background(), "example.com"))
	assert.NotEmpty(t, hook.AllEntries())
}

func TestNewNameserverResolver_DefaultPort(t *testing.T) {
	r := NewNameserverResolver("192.0.2.53", 0, nil)
	assert.Equal(t, "192.0.2.53:53", r.addr)
	assert.Equal(t, DefaultTimeout, r.client.Timeout)
}

func TestValidator_WithNameserverResolver(t *testing.T) {
	addr := startDNSServer(t, map[string][]string{
		"MX example.com.": {"example.com. 300 IN MX 10 mail.example.com."},
	})
	log, _ := test.NewNullLogger()
	v := NewValidator(NewNameserverResolver(addr, time.Second, log), log)

	assert.True(t, v.Validate(context.Background(), "someone@example.com"))
	assert.False(t, v.Validate(context.Background(), "someone@elsewhere.example"))
}
