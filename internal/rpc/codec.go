// Package rpc defines the capsule service wire contract: message types, the
// CBOR codec they travel in, the gRPC service descriptor and a typed client.
package rpc

import (
	"github.com/dmitrijs2005/gophcapsule/internal/cborx"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype the service speaks
// (application/grpc+cbor).
const CodecName = "cbor"

type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error)      { return cborx.Marshal(v) }
func (Codec) Unmarshal(data []byte, v any) error { return cborx.Unmarshal(data, v) }
func (Codec) Name() string                       { return CodecName }

func init() {
	encoding.RegisterCodec(Codec{})
}
