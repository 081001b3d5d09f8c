package response

import (
	"encoding/json"
	"fmt"

	"github.com/malbeclabs/snowflake-mcp/internal/snowflake"
)

// Error reports a raw result that does not fit the requested envelope.
type Error struct {
	Kind  snowflake.Kind
	Field string
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s response: %s %s", e.Kind, e.Field, e.Msg)
}

// Envelope is a validated response ready for serialization.
type Envelope interface {
	IsSuccess() bool
	Summary() string
}

type DDLResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Results []string `json:"results"`
}

type DMLResponse struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	Results      []string `json:"results"`
	RowsAffected int64    `json:"rows_affected"`
}

type OperationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Results any    `json:"results,omitempty"`
}

func (r DDLResponse) IsSuccess() bool       { return r.Success }
func (r DMLResponse) IsSuccess() bool       { return r.Success }
func (r OperationResponse) IsSuccess() bool { return r.Success }

func (r DDLResponse) Summary() string { return r.Message }

func (r DMLResponse) Summary() string {
	return fmt.Sprintf("%s (%d rows affected)", r.Message, r.RowsAffected)
}

func (r OperationResponse) Summary() string { return r.Message }

// NewDDL builds a DDL envelope; Results must be present.
func NewDDL(raw *snowflake.RawResult) (DDLResponse, error) {
	if err := requireRaw(snowflake.KindDDL, raw); err != nil {
		return DDLResponse{}, err
	}
	return DDLResponse{
		Success: raw.Success,
		Message: raw.Message,
		Results: raw.Results,
	}, nil
}

// NewDML builds a DML envelope; Results and RowsAffected must be present.
func NewDML(raw *snowflake.RawResult) (DMLResponse, error) {
	if err := requireRaw(snowflake.KindDML, raw); err != nil {
		return DMLResponse{}, err
	}
	if raw.RowsAffected == nil {
		return DMLResponse{}, &Error{Kind: snowflake.KindDML, Field: "rows_affected", Msg: "is required"}
	}
	return DMLResponse{
		Success:      raw.Success,
		Message:      raw.Message,
		Results:      raw.Results,
		RowsAffected: *raw.RowsAffected,
	}, nil
}

// NewOperation builds an Operations envelope. results is optional and may be
// an object, an array or text.
func NewOperation(raw *snowflake.RawResult, results any) (OperationResponse, error) {
	if raw == nil {
		return OperationResponse{}, &Error{Kind: snowflake.KindOperations, Field: "result", Msg: "is required"}
	}
	if err := checkResults(results); err != nil {
		return OperationResponse{}, err
	}
	return OperationResponse{
		Success: raw.Success,
		Message: raw.Message,
		Results: results,
	}, nil
}

// Normalize selects the envelope for kind. Operations envelopes carry the
// raw row list as their results.
func Normalize(kind snowflake.Kind, raw *snowflake.RawResult) (Envelope, error) {
	switch kind {
	case snowflake.KindDDL:
		return NewDDL(raw)
	case snowflake.KindDML:
		return NewDML(raw)
	case snowflake.KindOperations:
		var results any
		if raw != nil && raw.Results != nil {
			results = raw.Results
		}
		return NewOperation(raw, results)
	default:
		return nil, &Error{Kind: kind, Field: "kind", Msg: "is not a known statement kind"}
	}
}

// JSON serializes an envelope. Field order follows the struct definitions.
func JSON(e Envelope) (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}
	return string(data), nil
}

func requireRaw(kind snowflake.Kind, raw *snowflake.RawResult) error {
	if raw == nil {
		return &Error{Kind: kind, Field: "result", Msg: "is required"}
	}
	if raw.Results == nil {
		return &Error{Kind: kind, Field: "results", Msg: "is required"}
	}
	return nil
}

func checkResults(results any) error {
	switch results.(type) {
	case nil, string, []string, []any, map[string]any:
		return nil
	default:
		data, err := json.Marshal(results)
		if err != nil {
			return &Error{Kind: snowflake.KindOperations, Field: "results", Msg: err.Error()}
		}
		switch data[0] {
		case '{', '[', '"', 'n':
			return nil
		}
		return &Error{Kind: snowflake.KindOperations, Field: "results", Msg: "must be an object, an array or text"}
	}
}
