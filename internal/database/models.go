package database

import "time"

// StatusCheck is an append-only audit record created via the status
// endpoints. It is not on the critical path of palette generation.
type StatusCheck struct {
	ID         string    `db:"id"          json:"id"`
	ClientName string    `db:"client_name" json:"client_name"`
	Timestamp  time.Time `db:"timestamp"   json:"timestamp"`
}
