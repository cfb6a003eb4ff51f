package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// DefaultRecordKey names the durable record holding the document.
	DefaultRecordKey = "work-management-storage"
	// RecordVersion is written into every encoded record.
	RecordVersion = 1
)

var (
	// ErrUnsupportedRecordVersion is returned when a record was written by a newer format.
	ErrUnsupportedRecordVersion = errors.New("unsupported record version")
	// ErrMalformedRecord is returned when a record carries neither a state
	// nor a bare document.
	ErrMalformedRecord = errors.New("malformed record")
)

type recordEnvelope struct {
	State   *Document `json:"state"`
	Version int       `json:"version"`
}

// EncodeRecord serializes the document in the persisted envelope format.
func EncodeRecord(doc Document) ([]byte, error) {
	if doc.Organizations == nil {
		doc.Organizations = []*Organization{}
	}
	data, err := json.Marshal(recordEnvelope{State: &doc, Version: RecordVersion})
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return data, nil
}

// DecodeRecord parses a persisted record. A bare document without the
// envelope is accepted as version 0. A payload holding neither a state nor
// an organizations list is rejected with ErrMalformedRecord.
func DecodeRecord(data []byte) (Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Document{}, fmt.Errorf("decode record: %w", err)
	}
	if fields == nil {
		return Document{}, fmt.Errorf("%w: null payload", ErrMalformedRecord)
	}
	var env recordEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Document{}, fmt.Errorf("decode record: %w", err)
	}
	if env.Version > RecordVersion {
		return Document{}, fmt.Errorf("%w: %d", ErrUnsupportedRecordVersion, env.Version)
	}
	if _, ok := fields["state"]; ok {
		if env.State == nil {
			return Document{}, fmt.Errorf("%w: null state", ErrMalformedRecord)
		}
		return *env.State, nil
	}
	if _, ok := fields["organizations"]; !ok {
		return Document{}, fmt.Errorf("%w: no state or organizations", ErrMalformedRecord)
	}
	var bare Document
	if err := json.Unmarshal(data, &bare); err != nil {
		return Document{}, fmt.Errorf("decode record: %w", err)
	}
	return bare, nil
}
