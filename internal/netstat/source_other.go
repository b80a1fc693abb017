// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

//go:build !linux

package netstat

import "grimm.is/nets/internal/errors"

// NewSnapshotter builds the Snapshotter for a configured source name.
// Outside Linux only gopsutil is available.
func NewSnapshotter(source string) (Snapshotter, error) {
	switch source {
	case "", "auto", "gopsutil":
		return Snapshotter{Provider: GopsutilProvider{}, Resolver: GopsutilResolver{}}, nil
	case "procfs", "netlink":
		return Snapshotter{}, errors.Errorf(errors.KindUnavailable, "snapshot source %q requires linux", source)
	}
	return Snapshotter{}, errors.Errorf(errors.KindValidation, "unknown snapshot source %q", source)
}
