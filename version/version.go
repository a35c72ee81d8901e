// Package version holds the build version of glusterconverge.
package version

import (
	"expvar"
	"fmt"
	"io"
	"runtime"

	"github.com/praekeltfoundation/puppet-gluster/pkg/api"
)

var (
	expVer = expvar.NewString("version")
)

// APIVersion is the version of the status server API.
const APIVersion = 1

// Version and GitSHA are set at link time.
var (
	Version = "0.1.0"
	GitSHA  = ""
)

func init() {
	expVer.Set(Version)
}

// Info returns the version as served by the status server.
func Info() api.VersionResp {
	return api.VersionResp{Version: Version, GitSHA: GitSHA, APIVersion: APIVersion}
}

// DumpVersionInfo prints all version information to w.
func DumpVersionInfo(w io.Writer) {
	fmt.Fprintf(w, "glusterconverge version: %s\n", Version)
	fmt.Fprintf(w, "git SHA: %s\n", GitSHA)
	fmt.Fprintf(w, "go version: %s\n", runtime.Version())
	fmt.Fprintf(w, "go OS/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
