package events

import (
	"net/http"
	"time"
)

// HTTPStart is emitted when the tool server receives a request.
type HTTPStart struct {
	Request *http.Request
}

// HTTPFinish is emitted after the handler writes its response.
type HTTPFinish struct {
	Request  *http.Request
	Route    string
	Status   int
	Duration time.Duration
}
