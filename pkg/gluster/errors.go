package gluster

import (
	"fmt"
)

// ErrnoNotConnected is the opErrno reported when a probed peer can't be
// reached (ENOTCONN).
const ErrnoNotConnected = 107

// LegacyUnreachableMessages are the endings of the error messages older
// clusters print for an unreachable peer, before opErrno was reported.
var LegacyUnreachableMessages = []string{
	"Probe returned with Transport endpoint is not connected",
	"Probe returned with unknown errno 107",
}

// CmdError is returned when the CLI ran but the cluster reported a failure
// through a non-zero opRet.
type CmdError struct {
	Command  string
	OpRet    int
	OpErrno  int
	OpErrstr string
}

func (e *CmdError) Error() string {
	return fmt.Sprintf("Execution failed (%d) %d: %s", e.OpRet, e.OpErrno, e.OpErrstr)
}
