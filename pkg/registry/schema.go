// pkg/registry/schema.go
package registry

import "dn-client/internal/models"

// SchemaFile is the on-disk form of a notification type catalogue. The Types
// list has exactly the shape served by /api/create_info.
type SchemaFile struct {
	Version     string                          `json:"version"`
	LastUpdated string                          `json:"lastUpdated"`
	Types       []models.NotificationTypeSchema `json:"types"`
}
