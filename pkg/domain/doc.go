// Package domain holds the content data model shared by all adapters:
// the tagged block union, pages, articles, pagination metadata, and the
// error taxonomy. It has no dependencies and performs no I/O.
package domain
