// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

//go:build linux

package netstat

import (
	"github.com/prometheus/procfs"

	"grimm.is/nets/internal/errors"
)

// NewSnapshotter builds the Snapshotter for a configured source name.
// On Linux "auto" reads procfs.
func NewSnapshotter(source string) (Snapshotter, error) {
	switch source {
	case "", "auto", "procfs":
		provider, err := NewProcfsProvider(procfs.DefaultMountPoint)
		if err != nil {
			return Snapshotter{}, err
		}
		resolver, err := NewProcfsResolver(procfs.DefaultMountPoint)
		if err != nil {
			return Snapshotter{}, err
		}
		return Snapshotter{Provider: provider, Resolver: resolver}, nil

	case "netlink":
		provider, err := NewNetlinkProvider(procfs.DefaultMountPoint)
		if err != nil {
			return Snapshotter{}, err
		}
		resolver, err := NewProcfsResolver(procfs.DefaultMountPoint)
		if err != nil {
			return Snapshotter{}, err
		}
		return Snapshotter{Provider: provider, Resolver: resolver}, nil

	case "gopsutil":
		return Snapshotter{Provider: GopsutilProvider{}, Resolver: GopsutilResolver{}}, nil
	}
	return Snapshotter{}, errors.Errorf(errors.KindValidation, "unknown snapshot source %q", source)
}
