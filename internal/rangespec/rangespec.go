// Package rangespec interprets inbound HTTP Range headers.
//
// Only the single-interval form "bytes=<start>-<end>" is accepted, with <end>
// optionally empty for open-ended requests. Suffix ranges ("bytes=-500") and
// multi-range lists are rejected.
package rangespec

import (
	"strconv"
	"strings"

	"github.com/Cameron831/CloudStreamer/errors"
	"github.com/Cameron831/CloudStreamer/streamtypes"
)

const unit = "bytes"

// Parse turns a raw Range header into a RangeSpec.
// An empty header yields nil and no error: the whole object is requested.
// Any other input that does not match the grammar yields errors.ErrInvalidRange.
func Parse(header string) (*streamtypes.RangeSpec, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, nil
	}

	prefix, spec, found := strings.Cut(header, "=")
	if !found {
		return nil, invalid(header, "missing '='")
	}
	if !strings.EqualFold(strings.TrimSpace(prefix), unit) {
		return nil, invalid(header, "unsupported unit")
	}
	if strings.Contains(spec, ",") {
		return nil, invalid(header, "multiple ranges are not supported")
	}

	startTok, endTok, found := strings.Cut(strings.TrimSpace(spec), "-")
	if !found {
		return nil, invalid(header, "missing '-'")
	}

	startTok = strings.TrimSpace(startTok)
	if startTok == "" {
		return nil, invalid(header, "suffix ranges are not supported")
	}
	start, ok := parseOffset(startTok)
	if !ok {
		return nil, invalid(header, "start is not a non-negative integer")
	}

	rng := &streamtypes.RangeSpec{Start: start}

	endTok = strings.TrimSpace(endTok)
	if endTok == "" {
		return rng, nil
	}

	end, ok := parseOffset(endTok)
	if !ok {
		return nil, invalid(header, "end is not a non-negative integer")
	}
	if end < start {
		return nil, invalid(header, "end precedes start")
	}
	rng.End = &end

	return rng, nil
}

// parseOffset accepts plain decimal digits only; signs and overflow are rejected.
func parseOffset(tok string) (int64, bool) {
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func invalid(header, reason string) error {
	return errors.NewError("parseRange", errors.ErrInvalidRange).
		WithMessage(reason + " in " + strconv.Quote(header))
}
