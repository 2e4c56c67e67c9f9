// Package importer implements the CSV asset-import pipeline: header
// mapping, row parsing, validation/normalization, preview sessions, and
// the transactional import executor. It has no HTTP dependencies and is
// driven by the web layer.
package importer
