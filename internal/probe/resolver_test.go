package probe

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

func TestResolveIPLiteral(t *testing.T) {
	r := &AddressResolver{
		Timeout: time.Second,
		lookupIP: func(context.Context, string) ([]net.IP, error) {
			t.Fatal("platform lookup must not run for an IP literal")
			return nil, nil
		},
		lookupA: func(context.Context, string) ([]net.IP, error) {
			t.Fatal("fallback lookup must not run for an IP literal")
			return nil, nil
		},
	}

	target, err := r.Resolve(context.Background(), "203.0.113.5:5353")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.IP != "203.0.113.5" || target.Port != 5353 {
		t.Fatalf("got %+v, want 203.0.113.5:5353", target)
	}
}

func TestResolveDefaultPort(t *testing.T) {
	r := &AddressResolver{}

	target, err := r.Resolve(context.Background(), "203.0.113.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Port != 53 {
		t.Fatalf("got port %d, want default 53", target.Port)
	}
}

func TestResolvePlatformLookup(t *testing.T) {
	r := &AddressResolver{
		lookupIP: func(_ context.Context, host string) ([]net.IP, error) {
			if host != "dns.example.com" {
				t.Fatalf("looked up %q", host)
			}
			return []net.IP{net.ParseIP("192.0.2.1")}, nil
		},
		lookupA: func(context.Context, string) ([]net.IP, error) {
			t.Fatal("fallback lookup must not run when the platform lookup succeeds")
			return nil, nil
		},
	}

	target, err := r.Resolve(context.Background(), "dns.example.com:5300")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.IP != "192.0.2.1" || target.Port != 5300 {
		t.Fatalf("got %+v, want 192.0.2.1:5300", target)
	}
}

func TestResolveFallbackLookup(t *testing.T) {
	r := &AddressResolver{
		lookupIP: func(context.Context, string) ([]net.IP, error) {
			return nil, errors.New("no such host")
		},
		lookupA: func(context.Context, string) ([]net.IP, error) {
			return []net.IP{net.ParseIP("192.0.2.7")}, nil
		},
	}

	target, err := r.Resolve(context.Background(), "dns.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.IP != "192.0.2.7" || target.Port != 53 {
		t.Fatalf("got %+v, want 192.0.2.7:53", target)
	}
}

func TestResolveLiteralLastResort(t *testing.T) {
	fail := func(context.Context, string) ([]net.IP, error) {
		return nil, errors.New("no such host")
	}
	r := &AddressResolver{lookupIP: fail, lookupA: fail}

	spec := "some-hostname-that-fails-all-resolution.invalid"
	target, err := r.Resolve(context.Background(), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.IP != spec || target.Port != 53 {
		t.Fatalf("got %+v, want literal passthrough on port 53", target)
	}
}

func TestResolveRejectsBadSpecs(t *testing.T) {
	r := &AddressResolver{}
	cases := []string{
		"",
		":53",
		"1.2.3.4:notaport",
		"1.2.3.4:0",
		"1.2.3.4:70000",
		"1.2.3.4:53:53",
	}
	for _, spec := range cases {
		if _, err := r.Resolve(context.Background(), spec); err == nil {
			t.Errorf("spec %q: expected error", spec)
		}
	}
}
