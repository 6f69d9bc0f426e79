package domain

import "errors"

// Pipeline failure classes. Stages wrap their cause with one of these so the
// driver and its callers can branch with errors.Is.
var (
	ErrDiscovery  = errors.New("url discovery failed")
	ErrExtraction = errors.New("article extraction failed")
	ErrTemplate   = errors.New("template error")
	ErrStore      = errors.New("seen-set store failed")
	ErrRender     = errors.New("rendering failed")
	ErrDelivery   = errors.New("delivery failed")
	// ErrTimeout marks transport timeouts that are worth retrying.
	ErrTimeout = errors.New("timed out")
)
