package models

// OutboundMessageRequest represents a text notification pushed to an operator.
type OutboundMessageRequest struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}

// SubmitMixRequest is the body accepted when an operator saves a design.
type SubmitMixRequest struct {
	MixComposition
	Label string `json:"notes"`
}

// DeviceCommandRequest asks the gateway to forward a raw command.
type DeviceCommandRequest struct {
	Command string `json:"command" binding:"required"`
}
