// Package controller contains the application-facing use cases of the example
// library app. Controllers accept narrow gateway interfaces, normalize input
// before it reaches storage, and instrument every action with optional
// logging and metrics.
package controller
