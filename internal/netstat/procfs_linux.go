// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

//go:build linux

package netstat

import (
	"context"
	"io/fs"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/prometheus/procfs"

	"grimm.is/nets/internal/errors"
)

// ProcfsProvider reads /proc/net/{tcp,tcp6,udp,udp6} and attributes
// sockets to processes by scanning /proc/<pid>/fd.
type ProcfsProvider struct {
	fs procfs.FS
}

// NewProcfsProvider opens the proc filesystem mounted at mountPoint.
func NewProcfsProvider(mountPoint string) (*ProcfsProvider, error) {
	pfs, err := procfs.NewFS(mountPoint)
	if err != nil {
		return nil, errors.WrapOS(err, "failed to open proc filesystem")
	}
	return &ProcfsProvider{fs: pfs}, nil
}

// Fetch implements Provider.
func (p *ProcfsProvider) Fetch(ctx context.Context, mask Protocol) ([]Socket, error) {
	owners, err := inodeOwners(ctx, p.fs)
	if err != nil {
		return nil, err
	}

	var out []Socket
	if mask.Has(ProtocolTCP) {
		tcp4, err := p.fs.NetTCP()
		if err != nil {
			return nil, errors.WrapOS(err, "failed to read net/tcp")
		}
		out = appendLines(out, ProtocolTCP, false, tcp4, owners)

		tcp6, err := p.fs.NetTCP6()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapOS(err, "failed to read net/tcp6")
		}
		out = appendLines(out, ProtocolTCP, true, tcp6, owners)
	}
	if mask.Has(ProtocolUDP) {
		udp4, err := p.fs.NetUDP()
		if err != nil {
			return nil, errors.WrapOS(err, "failed to read net/udp")
		}
		out = appendLines(out, ProtocolUDP, false, procfs.NetTCP(udp4), owners)

		udp6, err := p.fs.NetUDP6()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapOS(err, "failed to read net/udp6")
		}
		out = appendLines(out, ProtocolUDP, true, procfs.NetTCP(udp6), owners)
	}
	return out, nil
}

// appendLines converts parsed socket lines. NetUDP shares NetTCP's
// underlying type, so both tables go through here.
func appendLines(out []Socket, proto Protocol, v6 bool, lines procfs.NetTCP, owners map[uint64][]int) []Socket {
	for _, line := range lines {
		s := Socket{
			Protocol:  proto,
			LocalAddr: ipToAddr(line.LocalAddr, v6),
			LocalPort: uint16(line.LocalPort),
			Inode:     line.Inode,
			PIDs:      owners[line.Inode],
		}
		if proto == ProtocolTCP {
			s.RemoteAddr = ipToAddr(line.RemAddr, v6)
			s.RemotePort = uint16(line.RemPort)
			s.State = StateFromLinux(line.St)
		}
		out = append(out, s)
	}
	return out
}

func ipToAddr(ip net.IP, v6 bool) netip.Addr {
	if !v6 {
		if ip4 := ip.To4(); ip4 != nil {
			ip = ip4
		}
	} else if ip16 := ip.To16(); ip16 != nil {
		ip = ip16
	}
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.Addr{}
	}
	return addr
}

// inodeOwners maps socket inodes to the pids holding them. Processes whose
// fd table cannot be read (other users without privileges, exited
// processes) are skipped.
func inodeOwners(ctx context.Context, pfs procfs.FS) (map[uint64][]int, error) {
	procs, err := pfs.AllProcs()
	if err != nil {
		return nil, errors.WrapOS(err, "failed to list processes")
	}

	owners := make(map[uint64][]int)
	for _, proc := range procs {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.KindUnavailable, "snapshot cancelled")
		}
		targets, err := proc.FileDescriptorTargets()
		if err != nil {
			continue
		}
		for _, target := range targets {
			inode, ok := socketInode(target)
			if !ok {
				continue
			}
			pids := owners[inode]
			if len(pids) == 0 || pids[len(pids)-1] != proc.PID {
				owners[inode] = append(pids, proc.PID)
			}
		}
	}
	return owners, nil
}

// socketInode parses an fd link target of the form "socket:[12345]".
func socketInode(target string) (uint64, bool) {
	rest, ok := strings.CutPrefix(target, "socket:[")
	if !ok {
		return 0, false
	}
	rest, ok = strings.CutSuffix(rest, "]")
	if !ok {
		return 0, false
	}
	inode, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return inode, true
}

// ProcfsResolver reads process names from /proc/<pid>/comm.
type ProcfsResolver struct {
	fs procfs.FS
}

// NewProcfsResolver opens the proc filesystem mounted at mountPoint.
func NewProcfsResolver(mountPoint string) (*ProcfsResolver, error) {
	pfs, err := procfs.NewFS(mountPoint)
	if err != nil {
		return nil, errors.WrapOS(err, "failed to open proc filesystem")
	}
	return &ProcfsResolver{fs: pfs}, nil
}

// Resolve implements Resolver.
func (r *ProcfsResolver) Resolve(_ context.Context, pid int) (string, error) {
	proc, err := r.fs.Proc(pid)
	if err != nil {
		return "", errors.WrapOS(err, "failed to open process")
	}
	name, err := proc.Comm()
	if err != nil {
		return "", errors.WrapOS(err, "failed to read comm")
	}
	return name, nil
}
