// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

//go:build linux

package netstat

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/nets/internal/errors"
)

const (
	tcpHeader = "  sl  local_address rem_address   st tx_queue rx_queue tr tm->when retrnsmt   uid  timeout inode\n"
	udpHeader = "   sl  local_address rem_address   st tx_queue rx_queue tr tm->when retrnsmt   uid  timeout inode ref pointer drops\n"
)

// fakeProc lays out a minimal /proc tree: socket tables plus two
// processes whose fd links point at some of the sockets.
func fakeProc(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	write := func(rel, body string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	link := func(rel, target string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.Symlink(target, path))
	}

	write("net/tcp", tcpHeader+
		"   0: 0100007F:0050 00000000:0000 0A 00000000:00000000 00:00000000 00000000     0        0 1001 1 0000000000000000 100 0 0 10 0\n"+
		"   1: 0500000A:C822 01010101:01BB 01 00000000:00000000 00:00000000 00000000  1000        0 1002 1 0000000000000000 20 4 30 10 -1\n")
	write("net/tcp6", tcpHeader+
		"   0: 00000000000000000000000001000000:1F90 00000000000000000000000000000000:0000 0A 00000000:00000000 00:00000000 00000000     0        0 1003 1 0000000000000000 100 0 0 10 0\n")
	write("net/udp", udpHeader+
		"  101: 3500007F:0035 00000000:0000 07 00000000:00000000 00:00000000 00000000   101        0 1004 2 0000000000000000 0\n")
	write("net/udp6", udpHeader)

	write("100/comm", "nginx\n")
	link("100/fd/3", "socket:[1001]")
	link("100/fd/4", "socket:[1004]")
	link("100/fd/5", "socket:[1004]")

	write("200/comm", "curl\n")
	link("200/fd/0", "/dev/null")
	link("200/fd/7", "socket:[1002]")

	return root
}

func TestProcfsProvider_Fetch(t *testing.T) {
	root := fakeProc(t)
	provider, err := NewProcfsProvider(root)
	require.NoError(t, err)

	sockets, err := provider.Fetch(context.Background(), ProtocolAll)
	require.NoError(t, err)
	require.Len(t, sockets, 4)

	listen := sockets[0]
	assert.Equal(t, ProtocolTCP, listen.Protocol)
	assert.Equal(t, "127.0.0.1", listen.LocalAddr.String())
	assert.Equal(t, uint16(80), listen.LocalPort)
	assert.Equal(t, StateListen, listen.State)
	assert.Equal(t, []int{100}, listen.PIDs)
	assert.Equal(t, uint64(1001), listen.Inode)

	est := sockets[1]
	assert.Equal(t, "10.0.0.5", est.LocalAddr.String())
	assert.Equal(t, uint16(51234), est.LocalPort)
	assert.Equal(t, "1.1.1.1", est.RemoteAddr.String())
	assert.Equal(t, uint16(443), est.RemotePort)
	assert.Equal(t, StateEstablished, est.State)
	assert.Equal(t, []int{200}, est.PIDs)

	v6 := sockets[2]
	assert.Equal(t, "::1", v6.LocalAddr.String())
	assert.Equal(t, uint16(8080), v6.LocalPort)
	assert.Empty(t, v6.PIDs)

	dns := sockets[3]
	assert.Equal(t, ProtocolUDP, dns.Protocol)
	assert.Equal(t, "127.0.0.53", dns.LocalAddr.String())
	assert.Equal(t, uint16(53), dns.LocalPort)
	assert.False(t, dns.RemoteAddr.IsValid())
	assert.Equal(t, StateNone, dns.State)
	assert.Equal(t, []int{100}, dns.PIDs, "duplicate fds of one process collapse to one pid")
}

func TestProcfsProvider_MaskNarrowsTables(t *testing.T) {
	provider, err := NewProcfsProvider(fakeProc(t))
	require.NoError(t, err)

	udp, err := provider.Fetch(context.Background(), ProtocolUDP)
	require.NoError(t, err)
	require.Len(t, udp, 1)
	assert.Equal(t, ProtocolUDP, udp[0].Protocol)

	tcp, err := provider.Fetch(context.Background(), ProtocolTCP)
	require.NoError(t, err)
	assert.Len(t, tcp, 3)
}

func TestProcfsProvider_MissingIPv6Tables(t *testing.T) {
	root := fakeProc(t)
	require.NoError(t, os.Remove(filepath.Join(root, "net/tcp6")))
	require.NoError(t, os.Remove(filepath.Join(root, "net/udp6")))

	provider, err := NewProcfsProvider(root)
	require.NoError(t, err)

	sockets, err := provider.Fetch(context.Background(), ProtocolAll)
	require.NoError(t, err)
	assert.Len(t, sockets, 3)
}

func TestProcfsProvider_MissingIPv4Table(t *testing.T) {
	root := fakeProc(t)
	require.NoError(t, os.Remove(filepath.Join(root, "net/tcp")))

	provider, err := NewProcfsProvider(root)
	require.NoError(t, err)

	_, err = provider.Fetch(context.Background(), ProtocolTCP)
	require.Error(t, err)
	assert.Equal(t, errors.KindUnavailable, errors.GetKind(err))
}

func TestProcfsProvider_Cancelled(t *testing.T) {
	provider, err := NewProcfsProvider(fakeProc(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = provider.Fetch(ctx, ProtocolAll)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, errors.KindUnavailable, errors.GetKind(err))
}

func TestProcfsResolver(t *testing.T) {
	resolver, err := NewProcfsResolver(fakeProc(t))
	require.NoError(t, err)

	name, err := resolver.Resolve(context.Background(), 200)
	require.NoError(t, err)
	assert.Equal(t, "curl", name)

	_, err = resolver.Resolve(context.Background(), 999)
	assert.Error(t, err)
}

func TestProcfsEndToEnd(t *testing.T) {
	root := fakeProc(t)
	provider, err := NewProcfsProvider(root)
	require.NoError(t, err)
	resolver, err := NewProcfsResolver(root)
	require.NoError(t, err)

	records, err := Snapshotter{Provider: provider, Resolver: resolver}.Snapshot(context.Background(), ProtocolAll)
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, [NumColumns]string{"tcp4", "127.0.0.1", "80", "0.0.0.0", "0", "LISTEN", "100", "nginx"}, records[0].Fields)
	assert.Equal(t, [NumColumns]string{"tcp6", "::1", "8080", "::", "0", "LISTEN", "-", "-"}, records[2].Fields)
	assert.Equal(t, [NumColumns]string{"udp4", "127.0.0.53", "53", "", "", "", "100", "nginx"}, records[3].Fields)
}

func TestSocketInode(t *testing.T) {
	inode, ok := socketInode("socket:[12345]")
	assert.True(t, ok)
	assert.Equal(t, uint64(12345), inode)

	for _, bad := range []string{"pipe:[1]", "socket:[x]", "socket:[12", "/dev/null"} {
		_, ok := socketInode(bad)
		assert.False(t, ok, bad)
	}
}
