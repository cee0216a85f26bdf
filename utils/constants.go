package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// AccessTokenTTLSeconds is the time-to-live for access tokens in seconds (86400 seconds = 24 hours)
	AccessTokenTTLSeconds = 86400
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Queue system constants
const (
	// QueueStatusOpen is the gate value that permits new ticket issuance.
	QueueStatusOpen = "Open"

	// QueueStatusClosed blocks new ticket issuance.
	QueueStatusClosed = "Closed"

	// QueueStatusUnavailable is reported when the singleton status row is missing.
	QueueStatusUnavailable = "No status available"

	// ServingStatusWaiting is the placeholder shown for tickets no teller has
	// called yet. It never appears in the serving table.
	ServingStatusWaiting = "WAITING"
)
