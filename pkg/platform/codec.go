// Package platform hosts the Go side of native controls. It tracks control
// instances, talks to the native side through a NativeBridge, and routes
// events emitted by native controls to the handlers subscribed on them.
package platform

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// MessageCodec encodes and decodes messages exchanged with native code.
type MessageCodec interface {
	// Encode converts a Go value to bytes for transmission to native code.
	Encode(value any) ([]byte, error)

	// Decode converts bytes received from native code to a Go value.
	Decode(data []byte) (any, error)
}

// JsonCodec implements MessageCodec using JSON encoding.
// JSON prioritizes interoperability and minimal native dependencies.
type JsonCodec struct{}

// Encode serializes the value to JSON bytes.
func (c JsonCodec) Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

// Decode deserializes JSON bytes to a Go value.
func (c JsonCodec) Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	var err error
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	cborEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create platform CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthAllowed,
	}
	cborDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create platform CBOR decoder mode: %v", err))
	}
}

// CborCodec implements MessageCodec using CBOR encoding, for bridges that
// prefer a compact binary format. Decoded maps are map[any]any.
type CborCodec struct{}

// Encode serializes the value to CBOR bytes.
func (c CborCodec) Encode(value any) ([]byte, error) {
	return cborEncMode.Marshal(value)
}

// Decode deserializes CBOR bytes to a Go value.
func (c CborCodec) Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var result any
	if err := cborDecMode.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DefaultCodec is the codec used by new control registries.
var DefaultCodec MessageCodec = JsonCodec{}
