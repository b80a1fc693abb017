// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package netstat

import (
	"context"
	"net/netip"
	"strconv"
)

// NumColumns is the fixed arity of Record.Fields.
const NumColumns = 8

// Column indexes into Record.Fields.
const (
	ColProtocol = iota
	ColLocalAddr
	ColLocalPort
	ColRemoteAddr
	ColRemotePort
	ColState
	ColPID
	ColProcess
)

// Unresolved is rendered for a pid or process name that could not be
// determined. It is distinct from the empty cells of UDP remote columns.
const Unresolved = "-"

// Columns holds the header titles, in Fields order.
var Columns = [NumColumns]string{
	"Protocol",
	"Local Address",
	"Local Port",
	"Remote Address",
	"Remote Port",
	"State",
	"PID",
	"Process Name",
}

// Record is an enriched socket ready for display and filtering. Records
// are never modified after construction.
type Record struct {
	Protocol    Protocol
	Family      Family
	LocalAddr   netip.Addr
	LocalPort   uint16
	RemoteAddr  netip.Addr
	RemotePort  uint16
	State       State
	PIDs        []int
	ProcessName string

	// Fields are the stringified cells shared by the renderer and the
	// filter. Absent values are empty strings, never missing entries.
	Fields [NumColumns]string
}

// NewRecord builds a Record from a raw socket and its resolved process
// name. Remote endpoint and state are kept only for TCP.
func NewRecord(s Socket, processName string) Record {
	r := Record{
		Protocol:  ProtocolUDP,
		Family:    FamilyOf(s.LocalAddr),
		LocalAddr: s.LocalAddr,
		LocalPort: s.LocalPort,
		PIDs:      s.PIDs,
	}
	if s.Protocol == ProtocolTCP {
		r.Protocol = ProtocolTCP
		r.RemoteAddr = s.RemoteAddr
		r.RemotePort = s.RemotePort
		r.State = s.State
	}

	r.ProcessName = processName
	if r.ProcessName == "" {
		r.ProcessName = Unresolved
	}

	r.Fields[ColProtocol] = r.Label()
	r.Fields[ColLocalAddr] = addrString(r.LocalAddr)
	r.Fields[ColLocalPort] = strconv.Itoa(int(r.LocalPort))
	if r.Protocol == ProtocolTCP {
		r.Fields[ColRemoteAddr] = addrString(r.RemoteAddr)
		r.Fields[ColRemotePort] = strconv.Itoa(int(r.RemotePort))
		r.Fields[ColState] = r.State.String()
	}
	r.Fields[ColPID] = Unresolved
	if pid := r.PID(); pid > 0 {
		r.Fields[ColPID] = strconv.Itoa(pid)
	}
	r.Fields[ColProcess] = r.ProcessName
	return r
}

// Label is the protocol column, e.g. "tcp4" or "udp6".
func (r Record) Label() string {
	return r.Protocol.String() + r.Family.String()
}

// PID returns the first owning pid, or 0 when unknown.
func (r Record) PID() int {
	if len(r.PIDs) == 0 {
		return 0
	}
	return r.PIDs[0]
}

func addrString(a netip.Addr) string {
	if !a.IsValid() {
		return ""
	}
	return a.String()
}

// Snapshotter joins a Provider with a Resolver to produce Records.
type Snapshotter struct {
	Provider Provider
	Resolver Resolver
}

// Snapshot fetches sockets for mask and resolves each distinct pid once.
// Resolution failures become the Unresolved sentinel; only fetch errors
// are returned.
func (s Snapshotter) Snapshot(ctx context.Context, mask Protocol) ([]Record, error) {
	sockets, err := s.Provider.Fetch(ctx, mask)
	if err != nil {
		return nil, err
	}
	return Enrich(ctx, sockets, s.Resolver), nil
}

// Enrich converts sockets to Records using resolver for process names.
// A nil resolver leaves every name unresolved.
func Enrich(ctx context.Context, sockets []Socket, resolver Resolver) []Record {
	names := make(map[int]string)
	records := make([]Record, 0, len(sockets))
	for _, s := range sockets {
		name := Unresolved
		if len(s.PIDs) > 0 && s.PIDs[0] > 0 && resolver != nil {
			pid := s.PIDs[0]
			cached, ok := names[pid]
			if !ok {
				cached = Unresolved
				if n, err := resolver.Resolve(ctx, pid); err == nil && n != "" {
					cached = n
				}
				names[pid] = cached
			}
			name = cached
		}
		records = append(records, NewRecord(s, name))
	}
	return records
}
