package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and gateways return these
// (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: record, document or tenant does not exist
//   - ErrConflict: write collided with an existing record
//   - ErrExpired: credential or presigned link has expired
//   - ErrUnavailable: backing service is unconfigured or unreachable; callers
//     must treat this as "skipped", never as success
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)
