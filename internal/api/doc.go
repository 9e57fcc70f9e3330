// Package api holds the HTTP handlers for users, projects, labels, refined
// labels, images and scheduled tasks. Handlers decode and validate requests,
// call the service layer, and map its errors to status codes.
package api
