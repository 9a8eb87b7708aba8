package tunnel

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/coredns/caddy"
	"github.com/coredns/coredns/plugin/pkg/dnstest"
	"github.com/coredns/coredns/plugin/test"
	"github.com/jpicht/nulldot/lib/nulldot"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSuffix = "nd.example.org."

func newTunnel(t *testing.T, dir, key string) (Tunnel, *nulldot.Codec) {
	codec, err := NewCodec(nulldot.Classic7)
	require.NoError(t, err)
	return Tunnel{
		Next:     test.NextHandler(dns.RcodeNameError, nil),
		suffix:   testSuffix,
		receiver: NewReceiver(dir, codec, key),
	}, codec
}

func query(t *testing.T, e Tunnel, name string) int {
	m := new(dns.Msg)
	m.SetQuestion(name, dns.TypeA)
	rec := dnstest.NewRecorder(&test.ResponseWriter{})
	rcode, err := e.ServeDNS(context.TODO(), rec, m)
	if rec.Msg == nil {
		return rcode
	}
	require.NoError(t, err)
	return rec.Msg.Rcode
}

func TestServeDNS(t *testing.T) {
	dir, err := ioutil.TempDir("", "nulldot")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	e, codec := newTunnel(t, dir, "k")
	c, err := EncodeText(codec, "k", "greeting", "hello there, general")
	require.NoError(t, err)
	for name := range c {
		assert.Equal(t, dns.RcodeSuccess, query(t, e, name+"."+testSuffix))
	}

	files, err := filepath.Glob(filepath.Join(dir, "*_greeting.txt"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := ioutil.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, "hello there, general", string(data))
}

func TestServeDNSFailures(t *testing.T) {
	dir, err := ioutil.TempDir("", "nulldot")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	e, codec := newTunnel(t, dir, "receiver key")

	assert.Equal(t, dns.RcodeNameError, query(t, e, "www.example.com."))
	assert.Equal(t, dns.RcodeSuccess, query(t, e, testSuffix))
	assert.Equal(t, dns.RcodeSuccess, query(t, e, "garbage."+testSuffix))

	bad := "xn--a.q00000001-1"
	assert.Equal(t, dns.RcodeFormatError, query(t, e, bad+".l17."+testSuffix))

	c, err := EncodeText(codec, "sender key", "n", "payload")
	require.NoError(t, err)
	var rcodes []int
	for name := range c {
		rcodes = append(rcodes, query(t, e, name+"."+testSuffix))
	}
	assert.Equal(t, []int{dns.RcodeSuccess, dns.RcodeServerFailure}, rcodes)
}

func TestPayload(t *testing.T) {
	e := Tunnel{suffix: testSuffix}

	p, ok := e.payload("abc.l3." + testSuffix)
	assert.True(t, ok)
	assert.Equal(t, "abc.l3", p)

	p, ok = e.payload(testSuffix)
	assert.True(t, ok)
	assert.Equal(t, "", p)

	_, ok = e.payload("xnd.example.org.")
	assert.False(t, ok)
	_, ok = e.payload("org.")
	assert.False(t, ok)
}

func TestSetup(t *testing.T) {
	c := caddy.NewTestController("dns", "nulldot nd.example.org /tmp secret wide16")
	assert.NoError(t, setup(c))

	c = caddy.NewTestController("dns", "nulldot nd.example.org /tmp secret")
	assert.NoError(t, setup(c))

	for _, input := range []string{
		"nulldot",
		"nulldot nd.example.org /tmp",
		"nulldot nd.example.org /tmp secret base64",
		"nulldot nd.example.org /tmp secret wide16 extra",
	} {
		c = caddy.NewTestController("dns", input)
		assert.Error(t, setup(c), input)
	}
}
