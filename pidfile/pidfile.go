// Package pidfile writes the pid of the running client to a file, refusing
// to do so while another live process owns it.
package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// WritePID writes the current pid to path, creating missing parent
// directories. A stale file left by a dead process is overwritten.
func WritePID(path string) error {
	if pid, err := readPID(path); err == nil && pid != os.Getpid() {
		if running, _ := process.PidExists(int32(pid)); running {
			return fmt.Errorf("pidfile already exists, please check process %d isn't running or remove %s", pid, path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func readPID(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(b)))
}
