package event

import (
	"encoding/json"
	stderrors "errors"
	"math"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/controlbind/pkg/errors"
)

func TestDecodeClickPayloadShapes(t *testing.T) {
	cborPayload, err := cbor.Marshal(map[string]any{"x": 10, "y": 20})
	require.NoError(t, err)

	tests := []struct {
		name    string
		payload any
	}{
		{"string map", map[string]any{"x": 10.0, "y": 20.0}},
		{"integer values", map[string]any{"x": 10, "y": int64(20)}},
		{"interface map", map[any]any{"x": uint64(10), "y": uint64(20), 7: "ignored"}},
		{"json bytes", []byte(`{"x":10,"y":20}`)},
		{"json string", `{"x": 10, "y": 20}`},
		{"json raw message", json.RawMessage(`{"x":10,"y":20}`)},
		{"cbor raw message", cbor.RawMessage(cborPayload)},
		{"cbor bytes", cborPayload},
		{"typed value", ClickEvent{X: 10, Y: 20}},
		{"typed pointer", &ClickEvent{X: 10, Y: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := DecodeClick(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, 10.0, e.X)
			assert.Equal(t, 20.0, e.Y)
		})
	}
}

func TestDecodeClickOptionalFields(t *testing.T) {
	e, err := DecodeClick(map[string]any{
		"x":         1.5,
		"y":         2.5,
		"button":    2.0,
		"target":    "zoom-in",
		"timestamp": float64(1700000000000),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, e.Button)
	assert.Equal(t, "zoom-in", e.Target)
	assert.Equal(t, time.UnixMilli(1700000000000), e.Timestamp)
	assert.Equal(t, KindClick, e.Kind())
}

func TestDecodeClickMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		field   string
	}{
		{"nil", nil, ""},
		{"nil pointer", (*ClickEvent)(nil), ""},
		{"missing y", map[string]any{"x": 10.0}, "y"},
		{"missing both", map[string]any{}, "x"},
		{"null x", map[string]any{"x": nil, "y": 1.0}, "x"},
		{"string x", map[string]any{"x": "10", "y": 1.0}, "x"},
		{"nan y", map[string]any{"x": 1.0, "y": math.NaN()}, "y"},
		{"fractional button", map[string]any{"x": 1.0, "y": 1.0, "button": 1.5}, "button"},
		{"negative button", map[string]any{"x": 1.0, "y": 1.0, "button": -1}, "button"},
		{"numeric target", map[string]any{"x": 1.0, "y": 1.0, "target": 3}, "target"},
		{"bad timestamp", map[string]any{"x": 1.0, "y": 1.0, "timestamp": "now"}, "timestamp"},
		{"timestamp past int64", map[string]any{"x": 1.0, "y": 1.0, "timestamp": uint64(math.MaxUint64)}, "timestamp"},
		{"timestamp float past int64", map[string]any{"x": 1.0, "y": 1.0, "timestamp": 1e19}, "timestamp"},
		{"fractional timestamp", map[string]any{"x": 1.0, "y": 1.0, "timestamp": 1.5}, "timestamp"},
		{"huge button", map[string]any{"x": 1.0, "y": 1.0, "button": 1e300}, "button"},
		{"huge uint button", map[string]any{"x": 1.0, "y": 1.0, "button": uint64(math.MaxUint64)}, "button"},
		{"typed nan x", ClickEvent{X: math.NaN(), Y: 1}, "x"},
		{"typed infinite y", &ClickEvent{X: 1, Y: math.Inf(-1)}, "y"},
		{"typed negative button", ClickEvent{X: 1, Y: 1, Button: -3}, "button"},
		{"json array", `[1,2]`, ""},
		{"invalid json string", `{"x":`, ""},
		{"garbage bytes", []byte{0xff, 0x00, 0x13}, ""},
		{"cbor array", cbor.RawMessage{0x82, 0x01, 0x02}, ""},
		{"unsupported type", 42, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e ClickEvent
			var err error
			require.NotPanics(t, func() { e, err = DecodeClick(tt.payload) })
			require.Error(t, err)
			assert.Zero(t, e)

			var de *errors.DecodeError
			require.True(t, stderrors.As(err, &de), "want *DecodeError, got %T", err)
			assert.Equal(t, "click", de.Event)
			assert.Equal(t, tt.field, de.Field)
			assert.NotEmpty(t, err.Error())
		})
	}
}

func TestDecodeClickTypedEvent(t *testing.T) {
	want := ClickEvent{X: 1, Y: 2, Button: 1, Target: "compass"}

	e, err := DecodeClick(want)
	require.NoError(t, err)
	assert.Equal(t, want, e)

	e, err = DecodeClick(&want)
	require.NoError(t, err)
	assert.Equal(t, want, e)
}

func TestDecodeClickLargeTimestamp(t *testing.T) {
	e, err := DecodeClick(map[any]any{"x": uint64(1), "y": uint64(1), "timestamp": uint64(math.MaxInt64)})
	require.NoError(t, err)
	assert.Equal(t, time.UnixMilli(math.MaxInt64), e.Timestamp)
}

func TestDecodeByKind(t *testing.T) {
	e, err := Decode(KindClick, map[string]any{"x": 3.0, "y": 4.0})
	require.NoError(t, err)
	click, ok := e.(ClickEvent)
	require.True(t, ok)
	assert.Equal(t, ClickEvent{X: 3, Y: 4}, click)

	_, err = Decode("hover", map[string]any{})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrUnknownKind))
}

func TestKindsIncludesClick(t *testing.T) {
	assert.Contains(t, Kinds(), KindClick)
}

func TestRegisterReplacesDecoder(t *testing.T) {
	const kind Kind = "test-register"
	t.Cleanup(func() {
		decodersMu.Lock()
		delete(decoders, kind)
		decodersMu.Unlock()
	})

	Register(kind, func(any) (Event, error) { return ClickEvent{X: 1}, nil })
	Register(kind, func(any) (Event, error) { return ClickEvent{X: 2}, nil })

	e, err := Decode(kind, nil)
	require.NoError(t, err)
	assert.Equal(t, ClickEvent{X: 2}, e)
}
