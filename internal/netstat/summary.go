// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package netstat

import "net/netip"

// Summary holds the header counters of a snapshot.
type Summary struct {
	Total       int
	Unique      int // distinct TCP remote / UDP local addresses
	TCP         int
	UDP         int
	Established int
	Listening   int
	IPv4        int
	IPv6        int
}

// Summarize counts records regardless of tab or filter.
func Summarize(records []Record) Summary {
	var sum Summary
	unique := make(map[netip.Addr]struct{})

	for _, r := range records {
		sum.Total++
		switch r.Protocol {
		case ProtocolTCP:
			sum.TCP++
			unique[r.RemoteAddr] = struct{}{}
			switch r.State {
			case StateEstablished:
				sum.Established++
			case StateListen:
				sum.Listening++
			}
		case ProtocolUDP:
			sum.UDP++
			unique[r.LocalAddr] = struct{}{}
		}
		if r.Family == FamilyIPv4 {
			sum.IPv4++
		} else {
			sum.IPv6++
		}
	}
	sum.Unique = len(unique)
	return sum
}
