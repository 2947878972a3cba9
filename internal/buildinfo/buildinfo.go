// Package buildinfo exposes the version stamped at link time through
// github.com/prometheus/common/version, e.g.
//
//	-ldflags "-X github.com/prometheus/common/version.Version=v0.1.0"
package buildinfo

import (
	"github.com/prometheus/common/version"
)

const Graffiti = "           _\n _ __ ___ | |___  ___ _ ____   _____\n| '_ ` _ \\| / __|/ _ \\ '__\\ \\ / / _ \\\n| | | | | | \\__ \\  __/ |   \\ V /  __/\n|_| |_| |_|_|___/\\___|_|    \\_/ \\___|\n\n"

var Name = "mlserve"

type buildinfo struct{}

// String is the multi-line version banner.
func (buildinfo) String() string {
	return version.Print(Name)
}

var Info buildinfo
