// Package targetprocess implements tracker.Lookup against the
// TargetProcess REST API (api/v1/Assignables).
package targetprocess
