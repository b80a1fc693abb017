// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package netstat models socket snapshots and the sources that produce them.
package netstat

import (
	"context"
	"net/netip"
)

// Protocol is a bitmask of transport protocols. A set of protocols is the
// bitwise OR of its members, so "all" is just TCP|UDP.
type Protocol uint8

const (
	ProtocolTCP Protocol = 1 << iota
	ProtocolUDP

	ProtocolAll = ProtocolTCP | ProtocolUDP
)

// Has reports whether p and mask share any protocol.
func (p Protocol) Has(mask Protocol) bool {
	return p&mask != 0
}

func (p Protocol) String() string {
	switch p {
	case ProtocolTCP:
		return "tcp"
	case ProtocolUDP:
		return "udp"
	case ProtocolAll:
		return "tcp+udp"
	}
	return "none"
}

// Family is the IP version of a socket's local address.
type Family uint8

const (
	FamilyIPv4 Family = 4
	FamilyIPv6 Family = 6
)

// FamilyOf derives the family from an address. IPv4-mapped IPv6
// addresses count as IPv6 since that is how the kernel reports them.
func FamilyOf(addr netip.Addr) Family {
	if addr.Is4() {
		return FamilyIPv4
	}
	return FamilyIPv6
}

func (f Family) String() string {
	if f == FamilyIPv4 {
		return "4"
	}
	return "6"
}

// Socket is one raw OS socket as returned by a Provider. Remote fields and
// State are meaningful only for TCP.
type Socket struct {
	Protocol   Protocol
	LocalAddr  netip.Addr
	LocalPort  uint16
	RemoteAddr netip.Addr
	RemotePort uint16
	State      State
	// PIDs lists the processes holding the socket; empty when unknown.
	PIDs []int
	// Inode is the kernel socket inode, 0 if the source does not expose it.
	Inode uint64
}

// Provider returns the sockets of the requested protocols, both address
// families included. Each call returns freshly allocated records.
type Provider interface {
	Fetch(ctx context.Context, mask Protocol) ([]Socket, error)
}

// Resolver maps a pid to its process name.
type Resolver interface {
	Resolve(ctx context.Context, pid int) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, mask Protocol) ([]Socket, error)

func (f ProviderFunc) Fetch(ctx context.Context, mask Protocol) ([]Socket, error) {
	return f(ctx, mask)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, pid int) (string, error)

func (f ResolverFunc) Resolve(ctx context.Context, pid int) (string, error) {
	return f(ctx, pid)
}
