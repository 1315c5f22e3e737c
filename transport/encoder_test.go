package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ugorji/go/codec"

	"github.com/DataDog/datadog-trace-client/model"
)

func getTestTraces() model.Traces {
	root := &model.Span{
		TraceID:  42,
		SpanID:   52,
		Service:  "fennel_IS amazing!",
		Name:     "something &&<@# that should be a metric!",
		Resource: "NOT touched because it is going to be hashed",
		Start:    1e9,
		Duration: 1e6,
		Meta:     map[string]string{"http.host": "192.168.0.1"},
		Metrics:  map[string]float64{"http.monitor": 41.99},
		Sampled:  true,
		Context:  model.NewContext(),
	}
	child := &model.Span{TraceID: 42, SpanID: 53, ParentID: 52, Service: "db", Name: "query"}
	return model.Traces{{root, child}}
}

func TestMsgpackEncoder(t *testing.T) {
	assert := assert.New(t)

	b, err := NewMsgpackEncoder().Encode(getTestTraces())
	assert.NoError(err)

	var traces model.Traces
	assert.NoError(codec.NewDecoderBytes(b, &codec.MsgpackHandle{}).Decode(&traces))
	assert.Len(traces, 1)
	assert.Len(traces[0], 2)
	span := traces[0][0]
	assert.Equal(uint64(42), span.TraceID)
	assert.Equal(uint64(52), span.SpanID)
	assert.Equal("fennel_IS amazing!", span.Service)
	assert.Equal("192.168.0.1", span.Meta["http.host"])
	assert.Equal(41.99, span.Metrics["http.monitor"])
	assert.False(span.Sampled, "local sampling state is not sent")
	assert.Nil(span.Context)
	assert.Equal(uint64(52), traces[0][1].ParentID)
}

func TestJSONEncoder(t *testing.T) {
	assert := assert.New(t)

	b, err := NewJSONEncoder().Encode(getTestTraces())
	assert.NoError(err)

	var raw [][]map[string]interface{}
	assert.NoError(json.Unmarshal(b, &raw))
	assert.Len(raw, 1)
	root := raw[0][0]
	assert.Equal(float64(42), root["trace_id"])
	assert.Equal("fennel_IS amazing!", root["service"])
	assert.NotContains(root, "Sampled")
	assert.NotContains(root, "Context")
	assert.NotContains(raw[0][1], "meta", "empty meta is omitted")
}

func TestNewEnvelope(t *testing.T) {
	assert := assert.New(t)

	api, _ := DefaultRegistry().Get(V4)
	req := &Request{Traces: getTestTraces(), Headers: map[string]string{"X-Custom": "1"}}
	env, err := NewEnvelope(api, req)
	assert.NoError(err)
	assert.Equal(1, env.TraceCount)
	assert.Equal("1", env.Headers[TraceCountHeader])
	assert.Equal("application/msgpack", env.Headers["Content-Type"])
	assert.Equal("1", env.Headers["X-Custom"])
	assert.NotEmpty(env.Body)
	assert.Len(req.Headers, 1, "request headers are not altered")
}
