// Package retrieve resolves a session identifier to its complete trace.
//
// The local implementation reads the in-process span store and resolves
// immediately. The backend implementation searches an external trace store
// with bounded polling, then fetches and normalizes the raw payload.
package retrieve
