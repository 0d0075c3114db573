//go:build windows

package workflows

import "os"

var forwardedSignals = []os.Signal{os.Interrupt}
