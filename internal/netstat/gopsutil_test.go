// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package netstat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddr(t *testing.T) {
	assert.Equal(t, "192.168.1.4", parseAddr("192.168.1.4", false).String())
	assert.Equal(t, "fe80::1%lo0", parseAddr("fe80::1%lo0", true).String())
	assert.Equal(t, "0.0.0.0", parseAddr("*", false).String())
	assert.Equal(t, "::", parseAddr("", true).String())
}

func TestNewSnapshotter_Unknown(t *testing.T) {
	_, err := NewSnapshotter("bpf")
	assert.Error(t, err)

	snap, err := NewSnapshotter("gopsutil")
	assert.NoError(t, err)
	assert.IsType(t, GopsutilProvider{}, snap.Provider)
}
