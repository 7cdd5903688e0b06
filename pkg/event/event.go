// Package event defines the typed events delivered to control listeners and
// the codec that converts opaque native payloads into them.
//
// Native controls hand their payloads across an untyped boundary. Decoding
// never trusts the payload shape: every failure is reported as an
// *errors.DecodeError and no decoder panics on malformed input.
package event

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/tidwall/gjson"

	"github.com/go-drift/controlbind/pkg/errors"
)

// Kind names an event kind as the native control reports it.
type Kind string

// Event is implemented by every typed domain event.
type Event interface {
	// Kind reports which event kind this value represents.
	Kind() Kind
}

// DecodeFunc converts an opaque payload into a typed event.
type DecodeFunc func(payload any) (Event, error)

var (
	decodersMu sync.RWMutex
	decoders   = map[Kind]DecodeFunc{}
)

// Register installs the decoder for kind, replacing any previous one.
func Register(kind Kind, fn DecodeFunc) {
	decodersMu.Lock()
	decoders[kind] = fn
	decodersMu.Unlock()
}

// Lookup returns the decoder registered for kind.
func Lookup(kind Kind) (DecodeFunc, bool) {
	decodersMu.RLock()
	fn, ok := decoders[kind]
	decodersMu.RUnlock()
	return fn, ok
}

// Kinds returns every registered kind in sorted order.
func Kinds() []Kind {
	decodersMu.RLock()
	kinds := make([]Kind, 0, len(decoders))
	for k := range decoders {
		kinds = append(kinds, k)
	}
	decodersMu.RUnlock()
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Decode converts payload into the event variant selected by kind.
func Decode(kind Kind, payload any) (Event, error) {
	fn, ok := Lookup(kind)
	if !ok {
		return nil, &errors.DecodeError{Event: string(kind), Err: errors.ErrUnknownKind}
	}
	return fn(payload)
}

var cborDecMode cbor.DecMode

func init() {
	var err error
	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthAllowed,
	}
	cborDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create event CBOR decoder mode: %v", err))
	}
}

// fields normalizes any supported payload shape into a field map.
func fields(kind Kind, payload any) (map[string]any, error) {
	switch p := payload.(type) {
	case nil:
		return nil, &errors.DecodeError{Event: string(kind), Reason: "empty payload"}
	case cbor.RawMessage:
		return cborFields(kind, p)
	case json.RawMessage:
		return jsonFields(kind, p)
	case []byte:
		if gjson.ValidBytes(p) {
			return jsonFields(kind, p)
		}
		return cborFields(kind, p)
	case string:
		return jsonFields(kind, []byte(p))
	}
	if m, ok := parseMap(payload); ok {
		return m, nil
	}
	return nil, &errors.DecodeError{
		Event:  string(kind),
		Reason: fmt.Sprintf("unsupported payload type %T", payload),
		Got:    payload,
	}
}

func jsonFields(kind Kind, data []byte) (map[string]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, &errors.DecodeError{Event: string(kind), Reason: "invalid JSON", Got: string(data)}
	}
	result := gjson.ParseBytes(data)
	if !result.IsObject() {
		return nil, &errors.DecodeError{Event: string(kind), Reason: "expected JSON object", Got: result.Raw}
	}
	m, _ := result.Value().(map[string]any)
	return m, nil
}

func cborFields(kind Kind, data []byte) (map[string]any, error) {
	var v any
	if err := cborDecMode.Unmarshal(data, &v); err != nil {
		return nil, &errors.DecodeError{Event: string(kind), Reason: "invalid CBOR", Err: err}
	}
	m, ok := parseMap(v)
	if !ok {
		return nil, &errors.DecodeError{Event: string(kind), Reason: "expected CBOR map", Got: v}
	}
	return m, nil
}
