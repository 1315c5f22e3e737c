package transport

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatisticsUpdate(t *testing.T) {
	assert := assert.New(t)

	var s Statistics
	s.Update(&HTTPResponse{StatusCode: 500})
	s.Update(&HTTPResponse{StatusCode: 404})
	s.CountInternalError()
	assert.Equal(Stats{ClientErrors: 1, ServerErrors: 1, InternalErrors: 1, ConsecutiveErrors: 3}, s.Snapshot())

	s.Update(&HTTPResponse{StatusCode: 200})
	assert.Equal(int64(0), s.ConsecutiveErrors(), "success resets consecutive errors")
	assert.Equal(int64(1), s.Snapshot().Success)

	s.Update(&InternalErrorResponse{Err: errors.New("boom")})
	assert.Equal(int64(2), s.Snapshot().InternalErrors)
	assert.Equal(int64(1), s.ConsecutiveErrors())
}

func TestStatisticsRace(t *testing.T) {
	var s Statistics

	const n = 1000
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			s.CountRequest()
			s.Update(&HTTPResponse{StatusCode: 200})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			s.CountInternalError()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			s.Snapshot()
		}
	}()
	wg.Wait()

	stats := s.Snapshot()
	assert.Equal(t, int64(n), stats.Requests)
	assert.Equal(t, int64(n), stats.Success)
	assert.Equal(t, int64(n), stats.InternalErrors)
}
