// Package codec registers the JSON wire codec used by the authify gRPC services.
// Clients select it with grpc.CallContentSubtype(codec.Name).
package codec

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// Name is the gRPC content-subtype of the codec ("application/grpc+json").
const Name = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return Name }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
