package domain

// TraceError is the error payload of a connector trace message.
type TraceError struct {
	Message         string `json:"message"`
	InternalMessage string `json:"internal_message"`
	StackTrace      string `json:"stack_trace"`
}

// TraceMessage is a structured error report emitted by a source or
// destination connector, as opposed to an error raised and caught
// inside the runner itself.
type TraceMessage struct {
	Connector ConnectorSide `json:"connector"`
	EmittedAt int64         `json:"emitted_at"` // ms since epoch
	Error     TraceError    `json:"error"`
}

// ConnectorSide identifies which end of a sync emitted a message.
type ConnectorSide string

const (
	ConnectorSideSource      ConnectorSide = "source"
	ConnectorSideDestination ConnectorSide = "destination"
)
