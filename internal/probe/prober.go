package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/miekg/dns"

	"dnsdelay/internal/models"
)

// Kind is the closed set of query failure classes. Cause hints are derived
// from the kind at presentation time, never by sniffing error strings.
type Kind string

const (
	KindTimeout       Kind = "timeout"
	KindNXDomain      Kind = "nxdomain"
	KindServerFailure Kind = "server failure"
	KindRefused       Kind = "refused"
	KindNetwork       Kind = "network error"
	KindOther         Kind = "error"
)

// QueryError is a classified query failure.
type QueryError struct {
	Kind    Kind
	Message string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Prober issues one timed A-record query per call against the server named by
// a spec string, re-resolving the spec and re-checking port reachability each
// time.
type Prober struct {
	Resolver *AddressResolver
	Ports    *PortChecker
	Timeout  time.Duration

	exchange func(m *dns.Msg, addr string) (*dns.Msg, time.Duration, error)
	now      func() time.Time

	// OnProgress, when set, receives inline diagnostic lines such as the
	// port reachability verdict.
	OnProgress func(string)
}

// New builds a prober with a UDP query client bounded by timeout. The same
// timeout applies per query and to the whole exchange.
func New(timeout time.Duration) *Prober {
	client := &dns.Client{Net: "udp", Timeout: timeout}
	return &Prober{
		Resolver: NewAddressResolver(timeout),
		Ports:    NewPortChecker(DefaultPortCheckTimeout),
		Timeout:  timeout,
		exchange: client.Exchange,
		now:      time.Now,
	}
}

// Probe performs a single attempt: resolve the spec, check the port, then time
// exactly one A query. Failures never propagate; they come back as a failed
// Attempt with a diagnostic reason.
func (p *Prober) Probe(ctx context.Context, server, domain string) models.Attempt {
	attempt := models.Attempt{StartedAt: p.now()}

	target, err := p.Resolver.Resolve(ctx, server)
	if err != nil {
		attempt.Reason = fmt.Sprintf("invalid server spec: %v", err)
		return attempt
	}
	attempt.Target = target

	portOpen, portLine := p.Ports.Check(target)
	p.progress(portLine)

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), dns.TypeA)

	start := p.now()
	resp, _, err := p.exchange(msg, target.Addr())
	elapsed := p.now().Sub(start)

	if qerr := classify(resp, err); qerr != nil {
		attempt.Reason = diagnose(qerr, target, portOpen)
		return attempt
	}

	latency := float64(elapsed) / float64(time.Millisecond)
	attempt.OK = true
	attempt.LatencyMS = &latency
	return attempt
}

func (p *Prober) progress(line string) {
	if p.OnProgress != nil {
		p.OnProgress(line)
	}
}

// classify maps a raw exchange result onto the closed failure set. A nil
// return means the query succeeded; answer content is not inspected.
func classify(resp *dns.Msg, err error) *QueryError {
	if err != nil {
		switch {
		case isTimeout(err):
			return &QueryError{Kind: KindTimeout, Message: err.Error()}
		case errors.Is(err, syscall.ECONNREFUSED):
			return &QueryError{Kind: KindRefused, Message: err.Error()}
		default:
			var opErr *net.OpError
			if errors.As(err, &opErr) {
				return &QueryError{Kind: KindNetwork, Message: err.Error()}
			}
			return &QueryError{Kind: KindOther, Message: err.Error()}
		}
	}
	if resp == nil {
		return &QueryError{Kind: KindOther, Message: "no response message"}
	}
	switch resp.Rcode {
	case dns.RcodeSuccess:
		return nil
	case dns.RcodeNameError:
		return &QueryError{Kind: KindNXDomain, Message: "domain does not exist"}
	case dns.RcodeServerFailure:
		return &QueryError{Kind: KindServerFailure, Message: "server returned SERVFAIL"}
	case dns.RcodeRefused:
		return &QueryError{Kind: KindRefused, Message: "server returned REFUSED"}
	default:
		return &QueryError{Kind: KindOther, Message: "server returned " + dns.RcodeToString[resp.Rcode]}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// diagnose renders a classified failure into the user-facing reason string,
// enriched with the port reachability verdict and a cause hint where the kind
// suggests one.
func diagnose(qerr *QueryError, target models.Target, portOpen bool) string {
	causes := make([]string, 0, 2)
	if portOpen {
		causes = append(causes, "port open but DNS service may not be responding correctly")
	} else {
		causes = append(causes, fmt.Sprintf("port %d unreachable", target.Port))
	}

	switch qerr.Kind {
	case KindTimeout:
		causes = append(causes, "slow response, network issue, or firewall restriction")
	case KindRefused:
		causes = append(causes, "server refused connection, possible access restriction")
	}

	return fmt.Sprintf("%s (possible causes: %s)", qerr.Error(), strings.Join(causes, ", "))
}
