package mcp

// SelectRegionInput is the input for the select_region tool.
type SelectRegionInput struct {
	Decorations *bool  `json:"decorations,omitempty" jsonschema:"Include window-manager frames when a window is clicked (default: config value)"`
	Cursor      string `json:"cursor,omitempty" jsonschema:"Pointer shown during selection: left, crosshair, cross, upper-left, upper-right, lower-left, lower-right (default: config value)"`
	CapturePath string `json:"capture_path,omitempty" jsonschema:"When set, save a PNG of the selected region to this path"`
}

// Region describes a selected or resolved rectangle in root coordinates.
type Region struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Border   int    `json:"border"`
	Geometry string `json:"geometry"`
	Window   string `json:"window,omitempty"`
	Monitor  string `json:"monitor,omitempty"`
}

// SelectRegionOutput is the output for the select_region tool.
type SelectRegionOutput struct {
	Region    Region `json:"region"`
	Clicked   bool   `json:"clicked"`
	Cancelled bool   `json:"cancelled"`
	Captured  string `json:"captured,omitempty"`
}

// WindowGeometryInput is the input for the window_geometry tool.
type WindowGeometryInput struct {
	Window      string `json:"window,omitempty" jsonschema:"Window id in hex (0x1e00007) or decimal"`
	Active      bool   `json:"active,omitempty" jsonschema:"Use the active window (_NET_ACTIVE_WINDOW)"`
	Title       string `json:"title,omitempty" jsonschema:"Use the first managed window whose title contains this text"`
	Decorations *bool  `json:"decorations,omitempty" jsonschema:"Include window-manager frames (default: config value)"`
}

// WindowGeometryOutput is the output for the window_geometry tool.
type WindowGeometryOutput struct {
	Region Region `json:"region"`
	Title  string `json:"title,omitempty"`
	Class  string `json:"class,omitempty"`
	PID    int    `json:"pid,omitempty"`
}
