package internal

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var debugEnabled = sync.OnceValue(func() bool {
	v := os.Getenv("HOOKS_DEBUG")
	return v == "1" || v == "true"
})

// debugf writes a component-tagged diagnostic line to stderr when
// HOOKS_DEBUG is set. Libraries stay quiet otherwise.
func debugf(component, format string, args ...any) {
	if !debugEnabled() {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(os.Stderr, "[%s] [%s] %s\n", ts, component, fmt.Sprintf(format, args...))
}
