package platform

// MethodChannel carries method calls from Go to the native side. Arguments
// and results pass through the channel's codec.
type MethodChannel struct {
	name     string
	registry *ControlRegistry
}

// Invoke calls a method on the native side and returns the decoded result.
// This blocks until the native side responds or an error occurs.
func (c *MethodChannel) Invoke(method string, args any) (any, error) {
	bridge, codec := c.registry.bridgeAndCodec()
	if bridge == nil {
		return nil, ErrPlatformUnavailable
	}

	argsData, err := codec.Encode(args)
	if err != nil {
		return nil, err
	}

	resultData, err := bridge.InvokeMethod(c.name, method, argsData)
	if err != nil {
		return nil, err
	}

	return codec.Decode(resultData)
}
