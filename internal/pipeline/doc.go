// Package pipeline provides the in-process buffer that decouples the tick
// reader's pull loop from the database writer's batch loop.
package pipeline
