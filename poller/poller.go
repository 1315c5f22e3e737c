// Package poller reloads the rates by service from a local file, for setups
// where the agent does not send them back.
package poller

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"sync"
	"time"

	log "github.com/cihub/seelog"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v2"

	"github.com/DataDog/datadog-trace-client/statsd"
	"github.com/DataDog/datadog-trace-client/watchdog"
)

// RatesUpdater receives the rates read from the file.
type RatesUpdater interface {
	Update(rates map[string]float64) bool
}

// ratesFile is the layout of the rates file:
//
//	rate_by_service:
//	  "service:web,env:prod": 0.5
//	  "service:,env:": 1
type ratesFile struct {
	RateByService map[string]float64 `yaml:"rate_by_service"`
}

// ReadRatesFile reads the rates by service stored at path.
func ReadRatesFile(path string) (map[string]float64, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f ratesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("cannot parse rates file %s: %v", path, err)
	}
	if f.RateByService == nil {
		return nil, fmt.Errorf("no rate_by_service in %s", path)
	}
	return f.RateByService, nil
}

// RatesPoller reloads a rates file whenever it changes on disk, and every
// period in case a change went unnoticed.
type RatesPoller struct {
	path    string
	period  time.Duration
	updater RatesUpdater
	watcher *fsnotify.Watcher

	exit   chan struct{}
	exitWG sync.WaitGroup
}

// NewRatesPoller returns a poller feeding updater with the rates in path.
func NewRatesPoller(path string, period time.Duration, updater RatesUpdater) *RatesPoller {
	return &RatesPoller{
		path:    filepath.Clean(path),
		period:  period,
		updater: updater,
		exit:    make(chan struct{}),
	}
}

// Start loads the file once, then watches it. A missing or invalid file is
// not fatal, it is picked up once fixed.
func (p *RatesPoller) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot watch rates file: %v", err)
	}
	// the directory is watched, editors often replace files instead of writing them
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("cannot watch rates file: %v", err)
	}
	p.watcher = watcher

	if err := p.Reload(); err != nil {
		log.Warnf("rates file not loaded: %v", err)
	}

	p.exitWG.Add(1)
	watchdog.Go("rates poller", func() {
		defer p.exitWG.Done()
		p.run()
	})
	return nil
}

func (p *RatesPoller) run() {
	ticker := time.NewTicker(p.period)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != p.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debugf("rates file changed: %s", event)
			p.reload()
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("error watching rates file: %v", err)
		case <-ticker.C:
			p.reload()
		case <-p.exit:
			return
		}
	}
}

func (p *RatesPoller) reload() {
	if err := p.Reload(); err != nil {
		log.Debugf("rates file not loaded: %v", err)
		statsd.Client.Count("datadog.trace_client.rates_poller.errors", 1, nil, 1)
	}
}

// Reload reads the file and applies its rates.
func (p *RatesPoller) Reload() error {
	rates, err := ReadRatesFile(p.path)
	if err != nil {
		return err
	}
	if !p.updater.Update(rates) {
		return fmt.Errorf("rates from %s were not applied", p.path)
	}
	log.Debugf("loaded %d rates by service from %s", len(rates), p.path)
	return nil
}

// Stop stops watching the file.
func (p *RatesPoller) Stop() {
	close(p.exit)
	p.exitWG.Wait()
	if p.watcher != nil {
		p.watcher.Close()
	}
}
