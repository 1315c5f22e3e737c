package poller

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	log "github.com/cihub/seelog"
	"github.com/stretchr/testify/assert"

	"github.com/DataDog/datadog-trace-client/sampler"
)

func TestMain(m *testing.M) {
	log.UseLogger(log.Disabled)
	os.Exit(m.Run())
}

type testUpdater struct {
	mu      sync.Mutex
	rates   map[string]float64
	updates int
	reject  bool
}

func (u *testUpdater) Update(rates map[string]float64) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.reject {
		return false
	}
	u.rates = rates
	u.updates++
	return true
}

func (u *testUpdater) get() (map[string]float64, int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.rates, u.updates
}

func writeRates(t *testing.T, path, content string) {
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestReadRatesFile(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "rates.yaml")
	writeRates(t, path, "rate_by_service:\n  \"service:web,env:prod\": 0.5\n  \"service:,env:\": 1\n")
	rates, err := ReadRatesFile(path)
	assert.NoError(err)
	assert.Equal(map[string]float64{"service:web,env:prod": 0.5, "service:,env:": 1}, rates)

	writeRates(t, path, "other: 1\n")
	_, err = ReadRatesFile(path)
	assert.Error(err)

	writeRates(t, path, "rate_by_service: [")
	_, err = ReadRatesFile(path)
	assert.Error(err)

	_, err = ReadRatesFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(err)
}

func TestRatesPollerWatch(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "rates.yaml")
	writeRates(t, path, "rate_by_service:\n  \"service:web,env:prod\": 0.5\n")

	u := &testUpdater{}
	p := NewRatesPoller(path, time.Hour, u)
	assert.NoError(p.Start())
	defer p.Stop()

	rates, _ := u.get()
	assert.Equal(map[string]float64{"service:web,env:prod": 0.5}, rates)

	writeRates(t, path, "rate_by_service:\n  \"service:web,env:prod\": 0.1\n")
	assert.Eventually(func() bool {
		rates, _ := u.get()
		return rates["service:web,env:prod"] == 0.1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRatesPollerLateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")

	u := &testUpdater{}
	p := NewRatesPoller(path, time.Hour, u)
	assert.NoError(t, p.Start())
	defer p.Stop()

	_, updates := u.get()
	assert.Equal(t, 0, updates)

	writeRates(t, path, "rate_by_service:\n  \"service:db,env:prod\": 0.2\n")
	assert.Eventually(t, func() bool {
		rates, _ := u.get()
		return rates["service:db,env:prod"] == 0.2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRatesPollerPeriodic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	writeRates(t, path, "rate_by_service:\n  \"service:web,env:prod\": 0.5\n")

	u := &testUpdater{}
	p := NewRatesPoller(path, 10*time.Millisecond, u)
	assert.NoError(t, p.Start())
	defer p.Stop()

	assert.Eventually(t, func() bool {
		_, updates := u.get()
		return updates >= 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRatesPollerRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	writeRates(t, path, "rate_by_service:\n  \"service:web,env:prod\": 0.5\n")

	p := NewRatesPoller(path, time.Hour, &testUpdater{reject: true})
	assert.Error(t, p.Reload())
}

func TestRatesPollerPrioritySampler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	writeRates(t, path, "rate_by_service:\n  \"service:web,env:prod\": 0.5\n")

	prio := sampler.NewPrioritySampler(nil, sampler.NewRateByServiceSampler(1, "prod"))
	p := NewRatesPoller(path, time.Hour, prio)
	assert.NoError(t, p.Reload())
	assert.Equal(t, map[string]float64{
		"service:web,env:prod": 0.5,
		"service:,env:":        1,
	}, prio.Rates())
}

func TestRatesPollerMissingDir(t *testing.T) {
	p := NewRatesPoller("/does/not/exist/rates.yaml", time.Hour, &testUpdater{})
	assert.Error(t, p.Start())
}
