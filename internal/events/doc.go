// Package events provides types and interfaces for an event-driven architecture.
//
// Components emit events without knowing which handlers will process them.
// The updater emits an event when a bulk status update finishes; the HTTP
// layer subscribes to track the outcome of each update.
//
// The primary components are:
// - Event: a typed, JSON-encoded notification with a unique ID
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
