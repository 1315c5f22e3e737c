package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextPriority(t *testing.T) {
	assert := assert.New(t)

	ctx := NewContext()
	_, ok := ctx.SamplingPriority()
	assert.False(ok)

	ctx.SetSamplingPriority(PriorityAutoKeep)
	p, ok := ctx.SamplingPriority()
	assert.True(ok)
	assert.Equal(PriorityAutoKeep, p)

	ctx = NewContextWithPriority(PriorityAutoReject)
	p, ok = ctx.SamplingPriority()
	assert.True(ok)
	assert.Equal(PriorityAutoReject, p)
}

func TestNilContext(t *testing.T) {
	var ctx *Context
	ctx.SetSamplingPriority(PriorityAutoKeep)
	_, ok := ctx.SamplingPriority()
	assert.False(t, ok)
}

func TestContextConcurrency(t *testing.T) {
	ctx := NewContext()

	const n = 1000
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			ctx.SetSamplingPriority(i % 2)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			ctx.SamplingPriority()
		}
	}()
	wg.Wait()
}
