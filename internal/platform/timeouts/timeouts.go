// Package timeouts defines shared timeout constants so the CLI and the
// journal agree on how long they wait.
package timeouts

import "time"

// Shutdown limits how long a command waits for telemetry to flush on exit.
const Shutdown = 5 * time.Second

// SQLiteBusy is how long a journal connection waits on a locked database
// before failing.
const SQLiteBusy = 5 * time.Second
