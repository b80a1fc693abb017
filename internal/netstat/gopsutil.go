// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package netstat

import (
	"context"
	"net/netip"
	"syscall"

	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"

	"grimm.is/nets/internal/errors"
)

// GopsutilProvider enumerates sockets through gopsutil, which covers
// macOS, the BSDs and Windows as well as Linux.
type GopsutilProvider struct{}

// Fetch implements Provider.
func (GopsutilProvider) Fetch(ctx context.Context, mask Protocol) ([]Socket, error) {
	kind := "inet"
	switch mask {
	case ProtocolTCP:
		kind = "tcp"
	case ProtocolUDP:
		kind = "udp"
	}

	conns, err := gnet.ConnectionsWithContext(ctx, kind)
	if err != nil {
		return nil, errors.WrapOS(err, "failed to list connections")
	}

	out := make([]Socket, 0, len(conns))
	for _, c := range conns {
		var proto Protocol
		switch c.Type {
		case syscall.SOCK_STREAM:
			proto = ProtocolTCP
		case syscall.SOCK_DGRAM:
			proto = ProtocolUDP
		default:
			continue
		}
		if !proto.Has(mask) {
			continue
		}

		v6 := c.Family == syscall.AF_INET6
		s := Socket{
			Protocol:  proto,
			LocalAddr: parseAddr(c.Laddr.IP, v6),
			LocalPort: uint16(c.Laddr.Port),
		}
		if c.Pid > 0 {
			s.PIDs = []int{int(c.Pid)}
		}
		if proto == ProtocolTCP {
			s.RemoteAddr = parseAddr(c.Raddr.IP, v6)
			s.RemotePort = uint16(c.Raddr.Port)
			s.State = ParseState(c.Status)
		}
		out = append(out, s)
	}
	return out, nil
}

// parseAddr parses an address string, falling back to the unspecified
// address of the family for empty or wildcard ("*") values.
func parseAddr(s string, v6 bool) netip.Addr {
	if addr, err := netip.ParseAddr(s); err == nil {
		return addr
	}
	if v6 {
		return netip.IPv6Unspecified()
	}
	return netip.IPv4Unspecified()
}

// GopsutilResolver resolves process names through gopsutil.
type GopsutilResolver struct{}

// Resolve implements Resolver.
func (GopsutilResolver) Resolve(ctx context.Context, pid int) (string, error) {
	proc, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return "", errors.WrapOS(err, "failed to open process")
	}
	name, err := proc.NameWithContext(ctx)
	if err != nil {
		return "", errors.WrapOS(err, "failed to read process name")
	}
	return name, nil
}
