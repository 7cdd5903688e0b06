package platform

import "fmt"

// NavigationControlType is the control type of the native navigation control.
const NavigationControlType = "navigation_control"

// Corner positions accepted by the native navigation control.
var navigationPositions = map[string]bool{
	"top-left":     true,
	"top-right":    true,
	"bottom-left":  true,
	"bottom-right": true,
}

// NavigationParams are the construction parameters of a native navigation
// control: zoom buttons and a compass.
type NavigationParams struct {
	ShowCompass    bool
	ShowZoom       bool
	VisualizePitch bool
	Position       string
}

// NavigationControl is the Go-side handle of a native navigation control.
type NavigationControl struct {
	baseControl
	params NavigationParams
}

// Params returns the parameters the control was created with.
func (c *NavigationControl) Params() NavigationParams {
	return c.params
}

// navigationControlFactory creates navigation controls.
type navigationControlFactory struct{}

func (f *navigationControlFactory) ControlType() string {
	return NavigationControlType
}

func (f *navigationControlFactory) Create(controlID int64, params map[string]any) (NativeControl, error) {
	p := NavigationParams{ShowCompass: true, ShowZoom: true, Position: "top-right"}

	for key, dst := range map[string]*bool{
		"showCompass":    &p.ShowCompass,
		"showZoom":       &p.ShowZoom,
		"visualizePitch": &p.VisualizePitch,
	} {
		v, ok := params[key]
		if !ok {
			continue
		}
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a bool, got %T", ErrInvalidArguments, key, v)
		}
		*dst = b
	}
	if v, ok := params["position"]; ok {
		s, ok := v.(string)
		if !ok || !navigationPositions[s] {
			return nil, fmt.Errorf("%w: unsupported position %v", ErrInvalidArguments, v)
		}
		p.Position = s
	}

	c := &NavigationControl{params: p}
	c.init(controlID, NavigationControlType)
	return c, nil
}

func init() {
	builtinFactories = append(builtinFactories, func() ControlFactory {
		return &navigationControlFactory{}
	})
}
