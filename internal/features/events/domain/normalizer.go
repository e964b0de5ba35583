package domain

import (
	"bytes"
	"encoding/json"

	"alertcast/internal/core/logger"

	"go.uber.org/zap"
)

// frameSeparator joins multiple logical events into one websocket frame.
// The hub coalesces events published in one batch; the client splits them
// back apart here.
var frameSeparator = []byte("\n")

// ParseFrame splits a raw frame into its newline-separated JSON envelopes.
// Empty segments are discarded and a parse failure on one segment never
// aborts its siblings (log-and-skip). Order within the frame is preserved.
func ParseFrame(frame []byte) []Envelope {
	segments := bytes.Split(frame, frameSeparator)
	events := make([]Envelope, 0, len(segments))

	for _, segment := range segments {
		segment = bytes.TrimSpace(segment)
		if len(segment) == 0 {
			continue
		}

		var ev Envelope
		if err := json.Unmarshal(segment, &ev); err != nil {
			logger.Get().Debug("Dropping unparsable frame segment",
				zap.ByteString("segment", segment),
				zap.Error(err),
			)
			continue
		}

		events = append(events, ev)
	}

	return events
}

// EncodeFrame marshals a batch of envelopes into one newline-joined frame.
func EncodeFrame(events ...Envelope) ([]byte, error) {
	parts := make([][]byte, 0, len(events))
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			return nil, err
		}
		parts = append(parts, data)
	}
	return bytes.Join(parts, frameSeparator), nil
}
