// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package netstat

import "strings"

// State is a TCP connection state. UDP sockets carry StateNone.
type State uint8

const (
	StateNone State = iota
	StateClosed
	StateListen
	StateSynSent
	StateSynReceived
	StateEstablished
	StateFinWait1
	StateFinWait2
	StateCloseWait
	StateClosing
	StateLastAck
	StateTimeWait
	StateDeleteTCB
	StateUnknown
)

var stateNames = [...]string{
	StateNone:        "",
	StateClosed:      "CLOSED",
	StateListen:      "LISTEN",
	StateSynSent:     "SYN_SENT",
	StateSynReceived: "SYN_RECEIVED",
	StateEstablished: "ESTABLISHED",
	StateFinWait1:    "FIN_WAIT_1",
	StateFinWait2:    "FIN_WAIT_2",
	StateCloseWait:   "CLOSE_WAIT",
	StateClosing:     "CLOSING",
	StateLastAck:     "LAST_ACK",
	StateTimeWait:    "TIME_WAIT",
	StateDeleteTCB:   "DELETE_TCB",
	StateUnknown:     "UNKNOWN",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return stateNames[StateUnknown]
}

// linuxStates maps the kernel's tcp_states.h numbering (/proc/net/tcp "st"
// column and sock_diag idiag_state).
var linuxStates = map[uint64]State{
	0x01: StateEstablished,
	0x02: StateSynSent,
	0x03: StateSynReceived,
	0x04: StateFinWait1,
	0x05: StateFinWait2,
	0x06: StateTimeWait,
	0x07: StateClosed,
	0x08: StateCloseWait,
	0x09: StateLastAck,
	0x0A: StateListen,
	0x0B: StateClosing,
	0x0C: StateSynReceived, // TCP_NEW_SYN_RECV
}

// StateFromLinux converts a kernel TCP state number.
func StateFromLinux(st uint64) State {
	if s, ok := linuxStates[st]; ok {
		return s
	}
	return StateUnknown
}

var stateAliases = map[string]State{
	"CLOSE":     StateClosed,
	"SYN_RECV":  StateSynReceived,
	"FIN_WAIT1": StateFinWait1,
	"FIN_WAIT2": StateFinWait2,
	"DELETE":    StateDeleteTCB,
}

// ParseState accepts the names used by netstat-like tools, e.g.
// "ESTABLISHED", "SYN_RECV", "FIN_WAIT1" or "TIME_WAIT".
func ParseState(s string) State {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == "NONE" {
		return StateNone
	}
	if st, ok := stateAliases[s]; ok {
		return st
	}
	for i, name := range stateNames {
		if name != "" && name == s {
			return State(i)
		}
	}
	return StateUnknown
}
