package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/jpicht/nulldot/lib/nulldot"
	"github.com/jpicht/nulldot/lib/tunnel"
	"github.com/miekg/dns"
)

const verbose = false
const throttle = 50 * time.Millisecond

// resolver is queried directly when set, the system resolver otherwise
var resolver = os.Getenv("NULLDOT_RESOLVER")

func check(err error) {
	if err != nil {
		failed(err)
	}
}

func failed(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 4 || len(os.Args) > 5 {
		fmt.Fprintln(os.Stderr, "Syntax:")
		fmt.Fprintf(os.Stderr, "    %s <domain> <key> <file> [variant]\n", os.Args[0])
		os.Exit(1)
	}

	var domain = os.Args[1]
	if domain[0] != '.' {
		domain = "." + domain
	}

	var key = os.Args[2]
	var fileName = os.Args[3]

	variant := nulldot.Classic7
	if len(os.Args) == 5 {
		v, err := nulldot.VariantByName(os.Args[4])
		check(err)
		variant = v
	}

	codec, err := tunnel.NewCodec(variant)
	check(err)

	c, err := tunnel.EncodeFile(codec, key, fileName)
	check(err)
	if verbose {
		fmt.Println("Sending file " + fileName)
	} else {
		fmt.Print("Sending file: ")
	}
	cl := new(dns.Client)
	for payload := range c {
		if verbose {
			fmt.Println("\t" + payload + domain)
		} else {
			os.Stdout.Write([]byte("."))
		}

		if resolver == "" {
			net.LookupHost(payload + domain)
		} else {
			m := new(dns.Msg)
			m.SetQuestion(dns.Fqdn(payload+domain), dns.TypeA)
			r, _, err := cl.Exchange(m, resolver)
			if err != nil {
				if !verbose {
					fmt.Println()
				}
				check(err)
			}
			if r.Rcode != dns.RcodeSuccess {
				if !verbose {
					fmt.Println()
				}
				failed(fmt.Errorf("server answered %s", dns.RcodeToString[r.Rcode]))
			}
		}

		time.Sleep(throttle)
	}

	if !verbose {
		fmt.Println("")
	}
}
