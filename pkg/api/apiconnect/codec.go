// Package apiconnect wires the ledgerbook.v1 services to Connect handlers and clients.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// Codec encodes messages as plain JSON. It replaces Connect's protobuf JSON
// codec under the same names, so clients send application/json.
type Codec struct {
	name string
}

func (c Codec) Name() string { return c.name }

func (Codec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (Codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

var (
	jsonCodec        = Codec{name: "json"}
	jsonCharsetCodec = Codec{name: "json; charset=utf-8"}
)

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(jsonCodec), connect.WithCodec(jsonCharsetCodec)}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(jsonCodec)}, opts...)
}
