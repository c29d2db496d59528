// Package fuzztests holds native Go fuzz targets for the parser and the
// session's position mapping. Seeds come from the embedded library sources.
//
//	go test ./internal/fuzz -run=^$ -fuzz=FuzzParse
package fuzztests
