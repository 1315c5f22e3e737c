// Package watchdog keeps background goroutines from dying silently.
package watchdog

import (
	"runtime"

	log "github.com/cihub/seelog"
)

// LogOnPanic logs the stack trace of a panic before letting it go on. It must
// be deferred directly by the goroutine to watch.
func LogOnPanic() {
	if err := recover(); err != nil {
		buf := make([]byte, 4096)
		length := runtime.Stack(buf, false)
		log.Errorf("Unexpected error: %v\n%s", err, buf[:length])
		log.Flush()
		panic(err)
	}
}

// Go runs f in a new goroutine watched by LogOnPanic, under name in the logs.
func Go(name string, f func()) {
	go func() {
		defer LogOnPanic()
		log.Debugf("starting %s", name)
		f()
		log.Debugf("%s stopped", name)
	}()
}
