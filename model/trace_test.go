package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRootFromCompleteTrace(t *testing.T) {
	assert := assert.New(t)

	trace := Trace{
		&Span{TraceID: uint64(1234), SpanID: uint64(12341), Service: "s1", Name: "n1", Resource: ""},
		&Span{TraceID: uint64(1234), SpanID: uint64(12342), ParentID: uint64(12341), Service: "s1", Name: "n1", Resource: ""},
		&Span{TraceID: uint64(1234), SpanID: uint64(12343), ParentID: uint64(12341), Service: "s1", Name: "n1", Resource: ""},
		&Span{TraceID: uint64(1234), SpanID: uint64(12344), ParentID: uint64(12342), Service: "s2", Name: "n2", Resource: ""},
	}

	assert.Equal(uint64(12341), trace.GetRoot().SpanID)
}

func TestGetRootFromPartialTrace(t *testing.T) {
	assert := assert.New(t)

	trace := Trace{
		&Span{TraceID: uint64(1234), SpanID: uint64(12341), ParentID: uint64(12340), Service: "s1", Name: "n1", Resource: ""},
		&Span{TraceID: uint64(1234), SpanID: uint64(12342), ParentID: uint64(12341), Service: "s1", Name: "n1", Resource: ""},
		&Span{TraceID: uint64(1234), SpanID: uint64(12343), ParentID: uint64(12342), Service: "s2", Name: "n2", Resource: ""},
	}

	assert.Equal(uint64(12341), trace.GetRoot().SpanID)
}

func TestGetRootEmpty(t *testing.T) {
	assert.Nil(t, Trace{}.GetRoot())
	assert.False(t, Trace{}.Sampled())
}

func TestTraceSampled(t *testing.T) {
	trace := Trace{
		&Span{SpanID: 1, Sampled: true},
		&Span{SpanID: 2, ParentID: 1},
	}
	assert.True(t, trace.Sampled())
}
