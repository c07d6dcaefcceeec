package domain

// InputType names a raw user input event.
type InputType string

const (
	InputSelect  InputType = "select"
	InputToggle  InputType = "toggle"
	InputText    InputType = "text"
	InputNumber  InputType = "number"
	InputCustom  InputType = "custom"
	InputAdvance InputType = "advance"
	InputBack    InputType = "back"
)

// InputEvent is the wire form of a renderer event, as sent by JSON, HTTP and MCP clients.
type InputEvent struct {
	Type  InputType `json:"type"`
	Value any       `json:"value,omitempty"`
}
