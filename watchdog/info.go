package watchdog

import (
	"os"
	"runtime"
	"sync"
	"time"

	log "github.com/cihub/seelog"
	"github.com/shirou/gopsutil/v3/process"
)

// CPUInfo contains basic CPU usage of the client process.
type CPUInfo struct {
	// UserAvg is the average user CPU usage since the previous poll. 1 means
	// one core was busy for the whole period, so it may exceed 1.
	UserAvg float64
}

// MemInfo contains basic memory usage of the client process.
type MemInfo struct {
	// Alloc is the number of heap bytes allocated and not yet freed,
	// as in runtime.MemStats.Alloc.
	Alloc uint64
	// AllocPerSec is the average number of bytes allocated per second
	// since the previous poll.
	AllocPerSec float64
	// RSS is the resident set size of the process, 0 when unknown.
	RSS uint64
}

// ProcessInfo polls CPU and memory usage of the current process, keeping
// the previous values to compute averages. It is safe for concurrent use.
type ProcessInfo struct {
	mu   sync.Mutex
	proc *process.Process

	lastCPUTime time.Time
	lastCPUUser float64
	lastCPU     CPUInfo

	lastMemTime       time.Time
	lastMemTotalAlloc uint64
	lastMem           MemInfo
}

var globalProcessInfo ProcessInfo

// CPU returns the CPU usage since the previous call. The first call only
// records a starting point and returns zero.
func (pi *ProcessInfo) CPU() CPUInfo {
	pi.mu.Lock()
	defer pi.mu.Unlock()

	now := time.Now()
	dt := now.Sub(pi.lastCPUTime)
	if dt <= 0 {
		return pi.lastCPU
	}
	proc, err := pi.process()
	if err != nil {
		log.Debugf("unable to get process info: %v", err)
		return pi.lastCPU
	}
	ts, err := proc.Times()
	if err != nil {
		log.Debugf("unable to get CPU info: %v", err)
		return pi.lastCPU
	}
	first := pi.lastCPUTime.IsZero()
	pi.lastCPUTime = now
	dua := ts.User - pi.lastCPUUser
	pi.lastCPUUser = ts.User
	if first || dua <= 0 {
		pi.lastCPU.UserAvg = 0
	} else {
		pi.lastCPU.UserAvg = float64(time.Second) * dua / float64(dt)
	}
	return pi.lastCPU
}

// Mem returns the memory usage, with the allocation rate since the
// previous call.
func (pi *ProcessInfo) Mem() MemInfo {
	pi.mu.Lock()
	defer pi.mu.Unlock()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	ret := MemInfo{Alloc: ms.Alloc, AllocPerSec: pi.lastMem.AllocPerSec}
	if proc, err := pi.process(); err == nil {
		if mi, err := proc.MemoryInfo(); err == nil {
			ret.RSS = mi.RSS
		}
	}

	now := time.Now()
	dt := now.Sub(pi.lastMemTime)
	if dt <= 0 {
		return ret
	}
	first := pi.lastMemTime.IsZero()
	pi.lastMemTime = now
	dta := int64(ms.TotalAlloc) - int64(pi.lastMemTotalAlloc)
	pi.lastMemTotalAlloc = ms.TotalAlloc
	if first || dta <= 0 {
		pi.lastMem.AllocPerSec = 0
	} else {
		pi.lastMem.AllocPerSec = float64(time.Second) * float64(dta) / float64(dt)
	}
	ret.AllocPerSec = pi.lastMem.AllocPerSec
	pi.lastMem = ret
	return ret
}

// process must be called with the lock held.
func (pi *ProcessInfo) process() (*process.Process, error) {
	if pi.proc != nil {
		return pi.proc, nil
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	pi.proc = proc
	return proc, nil
}

// CPU returns the CPU usage of the process, using a shared ProcessInfo.
func CPU() CPUInfo {
	return globalProcessInfo.CPU()
}

// Mem returns the memory usage of the process, using a shared ProcessInfo.
func Mem() MemInfo {
	return globalProcessInfo.Mem()
}
