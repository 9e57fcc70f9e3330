// Package events provides types and interfaces for publishing domain events.
//
// Services emit an Event after a successful write without knowing who
// consumes it. The in-memory emitter fans events out to registered handlers;
// internal/platform/amqp provides a handler that forwards them to RabbitMQ.
//
// The primary components are:
// - Event: a typed, JSON-encoded domain event
// - EventHandler: interface for components that can handle events
// - EventEmitter: interface for components that can emit events
package events
