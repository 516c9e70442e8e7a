// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"
)

func Infof(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet || dst == nil {
		return
	}
	_, _ = fmt.Fprintf(dst, "INFO: "+format+"\n", a...)
}

func Warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet || dst == nil {
		return
	}
	_, _ = fmt.Fprintf(dst, "WARN: "+format+"\n", a...)
}

// Errorf is never silenced by --quiet.
func Errorf(dst io.Writer, format string, a ...any) {
	if dst == nil {
		return
	}
	_, _ = fmt.Fprintf(dst, "error: "+format+"\n", a...)
}
