// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package tui_test

import (
	"bytes"
	"context"
	"net/netip"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/nets/internal/logging"
	"grimm.is/nets/internal/netstat"
	"grimm.is/nets/internal/tui"
	"grimm.is/nets/internal/view"
)

func socket(proto netstat.Protocol, port uint16, pid int) netstat.Socket {
	s := netstat.Socket{
		Protocol:  proto,
		LocalAddr: netip.MustParseAddr("192.168.1.50"),
		LocalPort: port,
		PIDs:      []int{pid},
	}
	if proto == netstat.ProtocolTCP {
		s.RemoteAddr = netip.MustParseAddr("1.1.1.1")
		s.RemotePort = 443
		s.State = netstat.StateEstablished
	}
	return s
}

// fakeHost serves a fixed socket table with process names resolved from
// a map, the way the procfs source would.
func fakeHost() view.Source {
	names := map[int]string{100: "curl", 200: "resolver"}
	provider := netstat.ProviderFunc(func(context.Context, netstat.Protocol) ([]netstat.Socket, error) {
		return []netstat.Socket{
			socket(netstat.ProtocolTCP, 80, 100),
			socket(netstat.ProtocolUDP, 53, 200),
			socket(netstat.ProtocolTCP, 443, 100),
			socket(netstat.ProtocolTCP, 8080, 300),
		}, nil
	})
	resolver := netstat.ResolverFunc(func(_ context.Context, pid int) (string, error) {
		if name, ok := names[pid]; ok {
			return name, nil
		}
		return "", context.DeadlineExceeded
	})
	return netstat.Snapshotter{Provider: provider, Resolver: resolver}
}

func newProgramModel(t *testing.T) tui.Model {
	t.Helper()
	c, err := view.NewController(fakeHost(), view.Options{Logger: logging.Discard()})
	require.NoError(t, err)
	require.NoError(t, c.Refresh(context.Background()))
	return tui.NewModel(c, 50*time.Millisecond)
}

func waitFor(t *testing.T, tm *teatest.TestModel, text string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte(text))
	}, teatest.WithDuration(3*time.Second), teatest.WithCheckInterval(20*time.Millisecond))
}

func TestTUIDashboardFilterFlow(t *testing.T) {
	tm := teatest.NewTestModel(t, newProgramModel(t), teatest.WithInitialTermSize(160, 40))

	waitFor(t, tm, "resolver")

	// Switch to the UDP tab, then back to All.
	tm.Send(tea.KeyMsg{Type: tea.KeyShiftTab})
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})

	tm.Type("/curl")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	waitFor(t, tm, "2 Matches")

	tm.Type("q")
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final := tm.FinalModel(t).(tui.Model)
	st := final.State
	require.Len(t, st.Items, 2)
	assert.Equal(t, uint16(443), st.Items[0].LocalPort)
	assert.Equal(t, uint16(80), st.Items[1].LocalPort)
	assert.Equal(t, "curl", st.FilterText)
	assert.Equal(t, view.ModeNormal, st.Mode)
}

func TestTUIDashboardUnresolvedProcess(t *testing.T) {
	tm := teatest.NewTestModel(t, newProgramModel(t), teatest.WithInitialTermSize(160, 40))

	waitFor(t, tm, "8080")
	tm.Type("jip")
	waitFor(t, tm, "Connection Info")

	tm.Type("q")
	final := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(tui.Model)

	st := final.State
	assert.True(t, st.Paused)
	assert.True(t, st.ShowInfo)
	sel, ok := st.Selected()
	require.True(t, ok)
	assert.Equal(t, uint16(8080), sel.LocalPort)
	assert.Equal(t, netstat.Unresolved, sel.ProcessName)
	assert.Equal(t, "Waiting (paused)", st.Status())
}
