package platform

import (
	"fmt"
	"sync"
)

// BridgeCall is one method call observed by a RecordingBridge.
type BridgeCall struct {
	Channel string
	Method  string
	Args    any // decoded with the registry codec
}

// RecordingBridge is a NativeBridge that accepts every call and records it.
// Methods listed in Fail return the mapped error instead.
//
// Codec overrides the codec used to read arguments and encode replies. When
// nil, the codec of the registry the bridge was installed on is used.
type RecordingBridge struct {
	Codec MessageCodec
	Fail  map[string]error

	registry *ControlRegistry

	mu    sync.Mutex
	calls []BridgeCall
}

func (b *RecordingBridge) codec() MessageCodec {
	if b.Codec != nil {
		return b.Codec
	}
	if b.registry != nil {
		_, codec := b.registry.bridgeAndCodec()
		return codec
	}
	return DefaultCodec
}

// InvokeMethod implements NativeBridge. Arguments the codec cannot read are
// reported as an error and not recorded.
func (b *RecordingBridge) InvokeMethod(channel, method string, argsData []byte) ([]byte, error) {
	codec := b.codec()
	args, err := codec.Decode(argsData)
	if err != nil {
		return nil, fmt.Errorf("recording bridge: %s.%s: %w", channel, method, err)
	}

	b.mu.Lock()
	b.calls = append(b.calls, BridgeCall{Channel: channel, Method: method, Args: args})
	err = b.Fail[method]
	b.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return codec.Encode(nil)
}

// Calls returns the recorded calls, optionally filtered to one method.
func (b *RecordingBridge) Calls(method string) []BridgeCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []BridgeCall
	for _, c := range b.calls {
		if method == "" || c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// SetupTestBridge installs a recording native bridge on a fresh global
// registry and a synchronous dispatch function. The bridge follows the
// registry's codec unless its Codec field is set. The cleanup function should be
// testing.T.Cleanup or equivalent; it registers a teardown that calls
// ResetForTest.
//
//	bridge := platform.SetupTestBridge(t.Cleanup)
func SetupTestBridge(cleanup func(func())) *RecordingBridge {
	ResetForTest()
	bridge := &RecordingBridge{registry: GetControlRegistry()}
	SetNativeBridge(bridge)
	RegisterDispatch(Inline)
	cleanup(ResetForTest)
	return bridge
}
