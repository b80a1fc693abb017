// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

//go:build linux

package netstat

import (
	"context"

	"github.com/prometheus/procfs"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"grimm.is/nets/internal/errors"
)

// NetlinkProvider dumps sockets over NETLINK_SOCK_DIAG. It avoids
// parsing /proc/net text tables but still needs procfs for inode owners.
type NetlinkProvider struct {
	fs procfs.FS
}

// NewNetlinkProvider uses the proc filesystem at mountPoint for pid lookup.
func NewNetlinkProvider(mountPoint string) (*NetlinkProvider, error) {
	pfs, err := procfs.NewFS(mountPoint)
	if err != nil {
		return nil, errors.WrapOS(err, "failed to open proc filesystem")
	}
	return &NetlinkProvider{fs: pfs}, nil
}

var diagFamilies = []uint8{unix.AF_INET, unix.AF_INET6}

// Fetch implements Provider.
func (p *NetlinkProvider) Fetch(ctx context.Context, mask Protocol) ([]Socket, error) {
	owners, err := inodeOwners(ctx, p.fs)
	if err != nil {
		return nil, err
	}

	var out []Socket
	for _, family := range diagFamilies {
		if mask.Has(ProtocolTCP) {
			socks, err := netlink.SocketDiagTCP(family)
			if err != nil {
				return nil, errors.WrapOS(err, "sock_diag tcp dump failed")
			}
			out = appendDiag(out, ProtocolTCP, family, socks, owners)
		}
		if mask.Has(ProtocolUDP) {
			socks, err := netlink.SocketDiagUDP(family)
			if err != nil {
				return nil, errors.WrapOS(err, "sock_diag udp dump failed")
			}
			out = appendDiag(out, ProtocolUDP, family, socks, owners)
		}
	}
	return out, nil
}

func appendDiag(out []Socket, proto Protocol, family uint8, socks []*netlink.Socket, owners map[uint64][]int) []Socket {
	v6 := family == unix.AF_INET6
	for _, sk := range socks {
		inode := uint64(sk.INode)
		s := Socket{
			Protocol:  proto,
			LocalAddr: ipToAddr(sk.ID.Source, v6),
			LocalPort: sk.ID.SourcePort,
			Inode:     inode,
			PIDs:      owners[inode],
		}
		if proto == ProtocolTCP {
			s.RemoteAddr = ipToAddr(sk.ID.Destination, v6)
			s.RemotePort = sk.ID.DestinationPort
			s.State = StateFromLinux(uint64(sk.State))
		}
		out = append(out, s)
	}
	return out
}
