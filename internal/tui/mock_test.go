// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package tui

import (
	"context"
	"net/netip"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"grimm.is/nets/internal/logging"
	"grimm.is/nets/internal/netstat"
	"grimm.is/nets/internal/view"
)

// MockSource implements view.Source for testing purposes
type MockSource struct {
	mu      sync.Mutex
	Records []netstat.Record
	Err     error
	Calls   int
}

func (s *MockSource) Snapshot(_ context.Context, _ netstat.Protocol) ([]netstat.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Records, nil
}

func (s *MockSource) Set(records []netstat.Record, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Records, s.Err = records, err
}

func mockRecord(proto netstat.Protocol, local string, port uint16, pids []int, name string) netstat.Record {
	s := netstat.Socket{
		Protocol:  proto,
		LocalAddr: netip.MustParseAddr(local),
		LocalPort: port,
		PIDs:      pids,
	}
	if proto == netstat.ProtocolTCP {
		s.RemoteAddr = netip.MustParseAddr("93.184.216.34")
		s.RemotePort = 443
		s.State = netstat.StateEstablished
	}
	return netstat.NewRecord(s, name)
}

func mockRecords() []netstat.Record {
	return []netstat.Record{
		mockRecord(netstat.ProtocolTCP, "10.0.0.2", 80, []int{4242}, "curl"),
		mockRecord(netstat.ProtocolUDP, "127.0.0.53", 53, []int{99}, "resolver"),
		mockRecord(netstat.ProtocolTCP, "10.0.0.2", 443, []int{4242, 4243}, "curl"),
	}
}

func newTestController(t *testing.T, src view.Source, opts view.Options) *view.Controller {
	t.Helper()
	opts.Logger = logging.Discard()
	c, err := view.NewController(src, opts)
	require.NoError(t, err)
	return c
}
