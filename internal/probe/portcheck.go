package probe

import (
	"fmt"
	"net"
	"time"

	"dnsdelay/internal/models"
)

// DefaultPortCheckTimeout bounds the reachability handshake. It is deliberately
// tighter than the probe timeout: the check is a secondary diagnostic, not the
// measurement itself.
const DefaultPortCheckTimeout = 2 * time.Second

// PortChecker verifies basic TCP reachability of a target before a query
// failure gets blamed on the DNS service.
type PortChecker struct {
	Timeout time.Duration

	dial func(network, addr string, timeout time.Duration) (net.Conn, error)
}

// NewPortChecker builds a checker using real TCP dials.
func NewPortChecker(timeout time.Duration) *PortChecker {
	if timeout <= 0 {
		timeout = DefaultPortCheckTimeout
	}
	return &PortChecker{Timeout: timeout, dial: net.DialTimeout}
}

// Check reports whether a stream connection to the target completes within the
// timeout. Every failure mode collapses to false; the second return value is a
// human-readable status line for progress output.
func (c *PortChecker) Check(target models.Target) (bool, string) {
	conn, err := c.dial("tcp", target.Addr(), c.Timeout)
	if err != nil {
		return false, fmt.Sprintf("server %s port %d: closed or unreachable (%v)", target.IP, target.Port, err)
	}
	_ = conn.Close()
	return true, fmt.Sprintf("server %s port %d: open", target.IP, target.Port)
}
