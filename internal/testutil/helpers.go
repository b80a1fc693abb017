// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package testutil

import (
	"os"
	"testing"
)

// RequireLiveSockets skips the test unless NETS_LIVE_TEST is set. Tests
// behind it talk to the running kernel (sock_diag, the real /proc) and
// may need privileges the CI sandbox lacks.
func RequireLiveSockets(t *testing.T) {
	t.Helper()
	if os.Getenv("NETS_LIVE_TEST") == "" {
		t.Skip("Skipping test: requires NETS_LIVE_TEST environment")
	}
}
