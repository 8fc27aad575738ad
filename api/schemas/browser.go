package schemas

// -- Pointer Input Schemas --

// PointerPhase identifies which part of a gesture a frame belongs to.
// Values mirror the CDP touch event types so backends can pass them through.
type PointerPhase string

const (
	PointerDown PointerPhase = "touchStart"
	PointerMove PointerPhase = "touchMove"
	PointerUp   PointerPhase = "touchEnd"
)

// PointerPosition is the location of one active pointer inside a frame.
type PointerPosition struct {
	// ID is dense (0..n-1) and stays the same for every frame of a gesture.
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// PointerFrame is one synthetic input event carrying every pointer at an instant.
type PointerFrame struct {
	GestureID string            `json:"gestureId"`
	Phase     PointerPhase      `json:"phase"`
	Step      int               `json:"step"`
	Pointers  []PointerPosition `json:"pointers"`
}

// -- Screen Schemas --

// Direction is used for scrolling, swiping and screen-relative clicks.
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Valid reports whether d is one of the four known directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionUp, DirectionDown, DirectionLeft, DirectionRight:
		return true
	}
	return false
}

// Size is a width/height pair in CSS pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// -- Element Schemas --

// ElementRecord is the serializable view of an element, used for CLI output
// and as the wire format between the page script and the CDP backend.
type ElementRecord struct {
	Key        int64   `json:"key"`
	Identifier string  `json:"identifier,omitempty"`
	HasID      bool    `json:"hasId"`
	Text       string  `json:"text"`
	Visible    bool    `json:"visible"`
	Kind       string  `json:"kind"`
	Checked    bool    `json:"checked,omitempty"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Children   []int64 `json:"children,omitempty"`
}
