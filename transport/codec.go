// Package transport pushes statistics snapshots to a central collector
// and serves them to pull based collectors. The counter registry itself
// has no network surface, everything here runs against its dump
// operations.
package transport

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/ugorji/go/codec"

	c "github.com/d0ngw/stats/common"
	"github.com/d0ngw/stats/stats"
)

// wire encoding names
const (
	EncodingJSON    = "json"
	EncodingMsgpack = "msgpack"
)

// Encoder encodes snapshot trees for the wire
type Encoder interface {
	// ContentType of the encoded payload
	ContentType() string
	// Encode data to bytes
	Encode(data stats.Data) (bytes []byte, err error)
	// Decode bytes to dest
	Decode(bytes []byte, dest *stats.Data) error
}

// EncoderFor returns the encoder of the named encoding, JSON when name
// is empty
func EncoderFor(name string) (Encoder, error) {
	switch name {
	case "", EncodingJSON:
		return &jsonEncoder{}, nil
	case EncodingMsgpack:
		return &msgpackEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
}

var msgpackHandle = &codec.MsgpackHandle{}

func init() {
	msgpackHandle.MapType = reflect.TypeOf(map[string]interface{}(nil))
}

type msgpackEncoder struct{}

// ContentType impls Encoder.ContentType
func (p *msgpackEncoder) ContentType() string {
	return "application/x-msgpack"
}

// Encode impls Encoder.Encode
func (p *msgpackEncoder) Encode(data stats.Data) (bytes []byte, err error) {
	enc := codec.NewEncoderBytes(&bytes, msgpackHandle)
	err = enc.Encode(data)
	return
}

// Decode impls Encoder.Decode
func (p *msgpackEncoder) Decode(bytes []byte, dest *stats.Data) (err error) {
	if len(bytes) == 0 {
		return errors.New("nil bytes to decode")
	}
	dec := codec.NewDecoderBytes(bytes, msgpackHandle)
	err = dec.Decode(dest)
	return
}

type jsonEncoder struct{}

// ContentType impls Encoder.ContentType
func (p *jsonEncoder) ContentType() string {
	return "application/json"
}

// Encode impls Encoder.Encode
func (p *jsonEncoder) Encode(data stats.Data) ([]byte, error) {
	return c.MarshalJSON(data)
}

// Decode impls Encoder.Decode
func (p *jsonEncoder) Decode(bytes []byte, dest *stats.Data) error {
	if len(bytes) == 0 {
		return errors.New("nil bytes to decode")
	}
	return c.UnmarshalJSON(bytes, dest)
}
