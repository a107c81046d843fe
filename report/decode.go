package report

import "capereport/strictjson"

// Decode parses and validates one raw report document. It either
// returns a fully constructed Report or a path-annotated error; there
// is no partial result. The function is pure and keeps no state
// between calls, so it may be invoked concurrently over different
// buffers without coordination.
func Decode(buf []byte) (*Report, error) {
	v, err := strictjson.Parse(buf)
	if err != nil {
		return nil, err
	}
	return decodeReport(v)
}
