// Package tunnel carries nulldot encoded text inside DNS query names and
// implements the coredns plugin receiving it.
//
// A text is split into chunks, every chunk is encoded with Symbols and
// packed into punycode labels followed by a meta label and a length
// marker:
//
//	xn--...xn--....h<id>-<count>.l<len>.<suffix>   header, carries the name
//	xn--...xn--....c<id>-<seq>.l<len>.<suffix>     content, carries a chunk
//
// The id is the CRC32 of the plain text, so a wrong key is detected when
// the message is complete.
package tunnel

import (
	"context"
	"net"
	"strings"

	"github.com/coredns/caddy"
	"github.com/coredns/coredns/core/dnsserver"
	"github.com/coredns/coredns/plugin"
	clog "github.com/coredns/coredns/plugin/pkg/log"
	"github.com/coredns/coredns/request"
	"github.com/jpicht/nulldot/lib/nulldot"
	"github.com/miekg/dns"
)

var log = clog.NewWithPlugin("nulldot")

// Tunnel implements a coredns plugin that is the receiver for
// nulldot text sent over dns
type Tunnel struct {
	Next     plugin.Handler
	suffix   string
	receiver *Receiver
}

func (e Tunnel) Name() string {
	return "nulldot"
}

func replyRRs(qtype uint16, name string) []dns.RR {
	rrs := map[string]dns.RR{}
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}
	for _, i := range ifaces {
		addrs, err := i.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if !ip.IsGlobalUnicast() {
				continue
			}
			if ip.To4() != nil && qtype == dns.TypeA {
				rrs[ip.String()] = &dns.A{
					Hdr: dns.RR_Header{Name: name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
					A:   ip,
				}
			} else if ip.To4() == nil && qtype == dns.TypeAAAA {
				rrs[ip.String()] = &dns.AAAA{
					Hdr:  dns.RR_Header{Name: name, Rrtype: dns.TypeAAAA, Class: dns.ClassINET, Ttl: 60},
					AAAA: ip,
				}
			}
		}
	}
	r := make([]dns.RR, 0, len(rrs)+1)
	for _, e := range rrs {
		r = append(r, e)
	}
	return r
}

func reply(w dns.ResponseWriter, r *dns.Msg, rcode int) (int, error) {
	state := request.Request{W: w, Req: r}

	ns := new(dns.NS)
	ns.Hdr = dns.RR_Header{Name: state.QName(), Rrtype: dns.TypeNS, Class: dns.ClassINET, Ttl: 60}
	ns.Ns = state.QName()

	m := new(dns.Msg)
	m.SetRcode(r, rcode)
	m.Authoritative = true
	if rcode == dns.RcodeSuccess {
		m.Answer = append(replyRRs(state.QType(), state.QName()), ns)
	}

	w.WriteMsg(m)

	return 0, nil
}

// ServeDNS takes the requests and extracts the payload. Failures to store
// or decode a message are answered with SERVFAIL so the client notices.
func (e Tunnel) ServeDNS(ctx context.Context, w dns.ResponseWriter, r *dns.Msg) (int, error) {
	state := request.Request{W: w, Req: r}

	switch state.QType() {
	default:
		return reply(w, r, dns.RcodeSuccess)
	case dns.TypeA, dns.TypeAAAA, dns.TypeNS:
		break
	}

	payload, ok := e.payload(state.Name())
	if !ok {
		return plugin.NextOrFailure(e.Name(), e.Next, ctx, w, r)
	}

	if payload == "" {
		return reply(w, r, dns.RcodeSuccess)
	}

	decoded, err := Decode(payload)
	if err == ERR_PAYLOAD_INCOMPLETE {
		return reply(w, r, dns.RcodeSuccess)
	}

	if err != nil {
		log.Warning("Invalid payload: ", err)
		return reply(w, r, dns.RcodeFormatError)
	}

	if decoded.IsHeader() {
		err = e.receiver.AddMessage(decoded.Id(), decoded.Header().Count(), decoded.Header().Name())
		if err != nil {
			log.Warning("AddMessage failed: ", err)
		}
	} else {
		err = e.receiver.AddChunk(decoded.Id(), decoded.Content().Seq(), decoded.Content().Text())
		if err != nil {
			log.Warning("AddChunk failed: ", err)
		}
	}

	if err != nil {
		return reply(w, r, dns.RcodeServerFailure)
	}
	return reply(w, r, dns.RcodeSuccess)
}

func (e Tunnel) payload(s string) (string, bool) {
	if len(s) < len(e.suffix) {
		return "", false
	}
	if s == e.suffix {
		return "", true
	}
	if strings.HasSuffix(s, "."+e.suffix) {
		return strings.TrimRight(s[0:len(s)-len(e.suffix)], "."), true
	}
	return "", false
}

func init() { plugin.Register("nulldot", setup) }

func setup(c *caddy.Controller) error {
	e := Tunnel{}

	for c.Next() {
		// syntax: nulldot <domain suffix> <directory> <key> [variant]
		args := c.RemainingArgs()
		if len(args) < 3 || len(args) > 4 {
			return c.ArgErr()
		}
		e.suffix = dns.Fqdn(strings.ToLower(args[0]))

		variant := nulldot.Classic7
		if len(args) == 4 {
			v, err := nulldot.VariantByName(args[3])
			if err != nil {
				return plugin.Error("nulldot", err)
			}
			variant = v
		}
		codec, err := NewCodec(variant)
		if err != nil {
			return plugin.Error("nulldot", err)
		}
		e.receiver = NewReceiver(args[1], codec, args[2])
	}

	dnsserver.GetConfig(c).AddPlugin(func(next plugin.Handler) plugin.Handler {
		e.Next = next
		return e
	})

	return nil
}
