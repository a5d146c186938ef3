package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"dnsdelay/internal/models"
)

// DefaultDNSPort is used when the server spec carries no explicit port.
const DefaultDNSPort = 53

// AddressResolver turns a user-supplied server spec ("8.8.8.8",
// "dns.example.com:5353", ...) into a concrete models.Target. Resolution of a
// hostname spec falls through three tiers: the platform resolver, a pure-Go A
// lookup, and finally the literal string itself. The literal tier may yield a
// non-routable target; callers report the resulting network failure instead of
// rejecting the spec up front.
type AddressResolver struct {
	// Timeout bounds the fallback A lookup. Zero means no bound.
	Timeout time.Duration

	lookupIP func(ctx context.Context, host string) ([]net.IP, error)
	lookupA  func(ctx context.Context, host string) ([]net.IP, error)
}

// NewAddressResolver builds a resolver backed by the real platform and Go
// resolvers.
func NewAddressResolver(timeout time.Duration) *AddressResolver {
	goResolver := &net.Resolver{PreferGo: true}
	return &AddressResolver{
		Timeout: timeout,
		lookupIP: func(ctx context.Context, host string) ([]net.IP, error) {
			return net.DefaultResolver.LookupIP(ctx, "ip4", host)
		},
		lookupA: func(ctx context.Context, host string) ([]net.IP, error) {
			return goResolver.LookupIP(ctx, "ip4", host)
		},
	}
}

// Resolve parses and resolves a server spec. It is called fresh for every
// attempt so a server behind dynamic addressing is picked up mid-run.
func (r *AddressResolver) Resolve(ctx context.Context, spec string) (models.Target, error) {
	host, port, err := splitSpec(spec)
	if err != nil {
		return models.Target{}, err
	}

	// IP literals never touch the network.
	if ip := net.ParseIP(host); ip != nil {
		return models.Target{IP: ip.String(), Port: port}, nil
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	if ips, err := r.lookupIP(ctx, host); err == nil && len(ips) > 0 {
		return models.Target{IP: ips[0].String(), Port: port}, nil
	}
	if ips, err := r.lookupA(ctx, host); err == nil && len(ips) > 0 {
		return models.Target{IP: ips[0].String(), Port: port}, nil
	}

	// Last resort: pass the host through untouched and let the query path
	// surface whatever goes wrong.
	return models.Target{IP: host, Port: port}, nil
}

func splitSpec(spec string) (string, int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", 0, fmt.Errorf("empty server spec")
	}

	host, portPart, found := strings.Cut(spec, ":")
	if !found {
		return spec, DefaultDNSPort, nil
	}
	if host == "" {
		return "", 0, fmt.Errorf("server spec %q has no host", spec)
	}
	if strings.Contains(portPart, ":") {
		return "", 0, fmt.Errorf("server spec %q has more than one port separator", spec)
	}
	port, err := strconv.Atoi(portPart)
	if err != nil {
		return "", 0, fmt.Errorf("parse port in %q: %w", spec, err)
	}
	if port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("port %d out of range in %q", port, spec)
	}
	return host, port, nil
}
