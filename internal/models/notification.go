// internal/models/notification.go
package models

import "encoding/json"

// OccurrenceRow is one scheduled (or already sent) send of a notification.
// Several rows may share a UUID.
type OccurrenceRow struct {
	Name        string `json:"name"`
	UUID        string `json:"uuid"`
	Content     string `json:"content"`
	UTCDatetime string `json:"utc_datetime"`
}

// NotificationRecord is the server-side record created by /api/create.
type NotificationRecord struct {
	UUID         string            `json:"uuid"`
	Type         string            `json:"type"`
	Arguments    []json.RawMessage `json:"arguments"`
	ActiveStatus bool              `json:"active_status"`
	CreatedUTC   string            `json:"created_utc"`
}

// Row names the service uses for already-sent occurrences.
const (
	RowNameSent       = "sent"
	RowNameSentSuffix = " (sent)"
)

// ListParams are the optional filters of /api/list.
type ListParams struct {
	UUID    string
	Content string
}

type CreateRequest struct {
	Type      string               `json:"type"`
	Arguments []TypedArgumentValue `json:"arguments"`
}

type CreateResponse struct {
	OK      bool   `json:"ok"`
	UUID    string `json:"uuid,omitempty"`
	Message string `json:"message,omitempty"`
}

type InfoResponse struct {
	OK           bool               `json:"ok"`
	Message      string             `json:"message,omitempty"`
	Notification NotificationRecord `json:"notification"`
	Rows         []OccurrenceRow    `json:"rows"`
}

type DeleteResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}
