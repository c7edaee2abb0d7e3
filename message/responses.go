package message

import bolterrors "github.com/corebolt/neobolt/errors"

// Success carries the metadata map terminating a successful request
// (fields, qid on a RUN; bookmark, type, has_more on a PULL/DISCARD;
// server hints on HELLO/LOGON).
type Success struct {
	Metadata map[string]interface{}
}

func (s Success) Signature() byte       { return SuccessSignature }
func (s Success) Fields() []interface{} { return []interface{}{s.Metadata} }

// DecodeSuccess builds a Success from a decoded PackStream field list.
func DecodeSuccess(fields []interface{}) (Success, error) {
	if len(fields) != 1 {
		return Success{}, wrongFieldCount("Success", len(fields))
	}
	metadata, ok := fields[0].(map[string]interface{})
	if !ok {
		return Success{}, badField("Success.metadata", fields[0])
	}
	return Success{Metadata: metadata}, nil
}

// Record carries one row of a streamed result.
type Record struct {
	Values []interface{}
}

func (r Record) Signature() byte { return RecordSignature }

// Fields implements Structure, wrapping the row's values as the single
// field PackStream expects for RECORD{fields: List}.
func (r Record) Fields() []interface{} { return []interface{}{r.Values} }

// DecodeRecord builds a Record from a decoded PackStream field list.
func DecodeRecord(fields []interface{}) (Record, error) {
	if len(fields) != 1 {
		return Record{}, wrongFieldCount("Record", len(fields))
	}
	values, ok := fields[0].([]interface{})
	if !ok {
		return Record{}, badField("Record.fields", fields[0])
	}
	return Record{Values: values}, nil
}

// Ignored is returned for a request the server dropped because it was
// already in the Failed state; the caller should RESET and re-raise the
// failure that caused it.
type Ignored struct{}

func (i Ignored) Signature() byte       { return IgnoredSignature }
func (i Ignored) Fields() []interface{} { return []interface{}{} }

// DecodeIgnored builds an Ignored from a decoded PackStream field list.
func DecodeIgnored(fields []interface{}) (Ignored, error) {
	if len(fields) != 0 {
		return Ignored{}, wrongFieldCount("Ignored", len(fields))
	}
	return Ignored{}, nil
}

// Failure carries the server's error code and message for a failed
// request.
type Failure struct {
	Metadata map[string]interface{}
}

func (f Failure) Signature() byte       { return FailureSignature }
func (f Failure) Fields() []interface{} { return []interface{}{f.Metadata} }

// Code returns the server's error code (the "code" metadata key), or
// empty if absent.
func (f Failure) Code() string {
	code, _ := f.Metadata["code"].(string)
	return code
}

// Message returns the server's human-readable error message (the
// "message" metadata key), or empty if absent.
func (f Failure) Message() string {
	msg, _ := f.Metadata["message"].(string)
	return msg
}

// DecodeFailure builds a Failure from a decoded PackStream field list.
func DecodeFailure(fields []interface{}) (Failure, error) {
	if len(fields) != 1 {
		return Failure{}, wrongFieldCount("Failure", len(fields))
	}
	metadata, ok := fields[0].(map[string]interface{})
	if !ok {
		return Failure{}, badField("Failure.metadata", fields[0])
	}
	return Failure{Metadata: metadata}, nil
}

func wrongFieldCount(what string, got int) *bolterrors.Error {
	return bolterrors.New(bolterrors.KindProtocol, "%s: unexpected field count %d", what, got)
}

func badField(what string, got interface{}) *bolterrors.Error {
	return bolterrors.New(bolterrors.KindProtocol, "%s: unexpected type %T", what, got)
}
