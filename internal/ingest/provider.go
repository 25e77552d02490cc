package ingest

// Result holds the outcome of an ingest operation.
type Result struct {
	SessionsReceived int `json:"sessions_received"`
	SessionsStored   int `json:"sessions_stored"`
	SetsReceived     int `json:"sets_received"`
	WarmupsSkipped   int `json:"warmups_skipped"`

	Message string `json:"message,omitempty"`
}
