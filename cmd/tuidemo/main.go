// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Command tuidemo runs the dashboard against a synthetic socket table, for
// trying the UI without touching the host.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/netip"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"grimm.is/nets/internal/errors"
	"grimm.is/nets/internal/logging"
	"grimm.is/nets/internal/netstat"
	"grimm.is/nets/internal/tui"
	"grimm.is/nets/internal/view"
)

// MockHost implements netstat.Provider with a slowly churning connection
// table.
type MockHost struct {
	mu     sync.Mutex
	rng    *rand.Rand
	client []netstat.Socket
}

var listeners = []netstat.Socket{
	{Protocol: netstat.ProtocolTCP, LocalAddr: netip.MustParseAddr("0.0.0.0"), LocalPort: 22, State: netstat.StateListen, PIDs: []int{811}},
	{Protocol: netstat.ProtocolTCP, LocalAddr: netip.MustParseAddr("0.0.0.0"), LocalPort: 443, State: netstat.StateListen, PIDs: []int{1204, 1205}},
	{Protocol: netstat.ProtocolTCP, LocalAddr: netip.MustParseAddr("::"), LocalPort: 443, State: netstat.StateListen, PIDs: []int{1204, 1205}},
	{Protocol: netstat.ProtocolTCP, LocalAddr: netip.MustParseAddr("127.0.0.1"), LocalPort: 5432, State: netstat.StateListen, PIDs: []int{977}},
	{Protocol: netstat.ProtocolUDP, LocalAddr: netip.MustParseAddr("127.0.0.53"), LocalPort: 53, PIDs: []int{402}},
	{Protocol: netstat.ProtocolUDP, LocalAddr: netip.MustParseAddr("0.0.0.0"), LocalPort: 68, PIDs: []int{398}},
	{Protocol: netstat.ProtocolUDP, LocalAddr: netip.MustParseAddr("0.0.0.0"), LocalPort: 123, PIDs: []int{560}},
	{Protocol: netstat.ProtocolUDP, LocalAddr: netip.MustParseAddr("::"), LocalPort: 5353},
}

var processes = map[int]string{
	811:  "sshd",
	1204: "nginx",
	1205: "nginx",
	977:  "postgres",
	402:  "systemd-resolve",
	398:  "dhclient",
	3120: "firefox",
	3388: "curl",
}

var remotes = []netip.Addr{
	netip.MustParseAddr("1.1.1.1"),
	netip.MustParseAddr("93.184.216.34"),
	netip.MustParseAddr("140.82.112.4"),
	netip.MustParseAddr("2606:4700::6810:85e5"),
}

func NewMockHost(seed uint64) *MockHost {
	return &MockHost{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Fetch implements netstat.Provider.
func (h *MockHost) Fetch(_ context.Context, mask netstat.Protocol) ([]netstat.Socket, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.churn()

	var out []netstat.Socket
	for _, s := range listeners {
		if s.Protocol.Has(mask) {
			out = append(out, s)
		}
	}
	for _, s := range h.client {
		if s.Protocol.Has(mask) {
			out = append(out, s)
		}
	}
	return out, nil
}

// resolveName looks pids up in the fake process table. Pid 560 is
// missing so the dashboard shows an unresolved owner.
func resolveName(_ context.Context, pid int) (string, error) {
	if name, ok := processes[pid]; ok {
		return name, nil
	}
	return "", errors.Errorf(errors.KindNotFound, "no process %d", pid)
}

// NewDemoSource wraps host in the same Snapshotter the real sources use.
func NewDemoSource(host *MockHost) view.Source {
	return netstat.Snapshotter{Provider: host, Resolver: netstat.ResolverFunc(resolveName)}
}

// churn closes a few client connections and opens new ones.
func (h *MockHost) churn() {
	kept := h.client[:0]
	for _, s := range h.client {
		if h.rng.IntN(4) != 0 {
			kept = append(kept, s)
		}
	}
	h.client = kept

	for n := h.rng.IntN(4); n > 0; n-- {
		remote := remotes[h.rng.IntN(len(remotes))]
		local := netip.MustParseAddr("192.168.1.20")
		if remote.Is6() {
			local = netip.MustParseAddr("2001:db8::20")
		}
		pid := 3120
		if h.rng.IntN(3) == 0 {
			pid = 3388
		}
		state := netstat.StateEstablished
		if h.rng.IntN(5) == 0 {
			state = netstat.StateTimeWait
		}
		h.client = append(h.client, netstat.Socket{
			Protocol:   netstat.ProtocolTCP,
			LocalAddr:  local,
			LocalPort:  uint16(32768 + h.rng.IntN(28000)),
			RemoteAddr: remote,
			RemotePort: 443,
			State:      state,
			PIDs:       []int{pid},
		})
	}
}

func main() {
	flags := flag.NewFlagSet("tuidemo", flag.ExitOnError)
	interval := flags.Duration("interval", time.Second, "Refresh interval")
	seed := flags.Uint64("seed", 1, "Random seed for the synthetic host")
	flags.Parse(os.Args[1:])

	controller, err := view.NewController(NewDemoSource(NewMockHost(*seed)), view.Options{
		ShowHelp: true,
		Logger:   logging.Discard(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "tuidemo: %v\n", err)
		os.Exit(1)
	}

	if _, err := tea.NewProgram(tui.NewModel(controller, *interval), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tuidemo: %v\n", err)
		os.Exit(1)
	}
}
