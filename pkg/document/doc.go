// Package document models the host page charts are mounted into. A Document
// resolves mount targets to Containers; backends mount markup fragments into
// containers and unmount them on disposal. Two implementations ship: Memory,
// an in-process page used by tests and headless callers, and HTML, a parsed
// page that can be serialized back out after rendering.
package document
