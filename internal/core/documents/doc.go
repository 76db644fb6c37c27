// Package documents implements the document sources an ingestion run draws from:
// a local directory tree and an object-storage prefix.
package documents
