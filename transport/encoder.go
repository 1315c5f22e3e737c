package transport

import (
	"strconv"

	"github.com/ugorji/go/codec"

	"github.com/DataDog/datadog-trace-client/model"
)

// Headers set on every traces payload.
const (
	TraceCountHeader    = "X-Datadog-Trace-Count"
	contentTypeHeader   = "Content-Type"
	msgpackContentType  = "application/msgpack"
	jsonContentType     = "application/json"
	defaultBufferLength = 512
)

// Encoder serializes traces into a payload body.
type Encoder interface {
	// ContentType is the MIME type of the encoded payloads.
	ContentType() string
	// Encode serializes the traces.
	Encode(traces model.Traces) ([]byte, error)
}

type codecEncoder struct {
	handle      codec.Handle
	contentType string
}

// NewMsgpackEncoder returns an Encoder producing msgpack payloads.
func NewMsgpackEncoder() Encoder {
	return &codecEncoder{handle: &codec.MsgpackHandle{}, contentType: msgpackContentType}
}

// NewJSONEncoder returns an Encoder producing JSON payloads.
func NewJSONEncoder() Encoder {
	return &codecEncoder{handle: &codec.JsonHandle{}, contentType: jsonContentType}
}

func (e *codecEncoder) ContentType() string { return e.contentType }

func (e *codecEncoder) Encode(traces model.Traces) ([]byte, error) {
	b := make([]byte, 0, defaultBufferLength)
	if err := codec.NewEncoderBytes(&b, e.handle).Encode(traces); err != nil {
		return nil, err
	}
	return b, nil
}

// Request is what a client asks to send. It is encoded again for every
// API version it is tried against.
type Request struct {
	Traces model.Traces
	// Headers are extra headers to send along the payload.
	Headers map[string]string
}

// Envelope is a request encoded for one API version.
type Envelope struct {
	Body       []byte
	Headers    map[string]string
	TraceCount int
}

// NewEnvelope encodes the request for the given API.
func NewEnvelope(api *API, req *Request) (*Envelope, error) {
	body, err := api.Encoder.Encode(req.Traces)
	if err != nil {
		return nil, err
	}
	headers := make(map[string]string, len(req.Headers)+2)
	for k, v := range req.Headers {
		headers[k] = v
	}
	headers[contentTypeHeader] = api.Encoder.ContentType()
	headers[TraceCountHeader] = strconv.Itoa(len(req.Traces))

	return &Envelope{
		Body:       body,
		Headers:    headers,
		TraceCount: len(req.Traces),
	}, nil
}
