// Package service contains the ProjPool use cases. It orchestrates the stores,
// the refinement generator, object storage and the event emitter to fulfill
// the operations exposed by the HTTP API.
//
// Services receive their dependencies through constructor injection and never
// depend on concrete infrastructure. Multi-entity writes run inside
// store.RunInTransaction so that a failed request leaves nothing behind.
//
// Error handling:
//   - Expected conditions are returned as sentinel errors (ErrForbidden,
//     ErrLabelLimit, ...) or as the store/domain sentinels they wrap
//   - Unexpected failures are wrapped in *ServiceError, which keeps the
//     original error reachable through errors.Is/errors.As
//   - The API layer maps these errors to HTTP status codes
//
// Ownership is enforced by the stores' *ForUser lookups. A resource owned by
// someone else is reported as not found so its existence is not disclosed.
package service
