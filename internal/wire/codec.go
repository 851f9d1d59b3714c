package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Marshal encodes v as JSON with snake_case keys.
func Marshal(v any) ([]byte, error) {
	generic, err := toGeneric(v)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(ToSnake(generic))
	if err != nil {
		return nil, fmt.Errorf("failed to encode wire payload: %w", err)
	}
	return data, nil
}

// Unmarshal decodes snake_case JSON into v, whose JSON names are camelCase.
func Unmarshal(data []byte, v any) error {
	generic, err := decodeGeneric(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return fromGeneric(ToCamel(generic), v)
}

// Decode reads snake_case JSON from r into v.
func Decode(r io.Reader, v any) error {
	generic, err := decodeGeneric(r)
	if err != nil {
		return err
	}
	return fromGeneric(ToCamel(generic), v)
}

func toGeneric(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode wire payload: %w", err)
	}
	return decodeGeneric(bytes.NewReader(data))
}

func decodeGeneric(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	// Keep numbers as json.Number so int64 amounts survive unchanged.
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("failed to decode wire payload: %w", err)
	}
	return generic, nil
}

func fromGeneric(generic any, v any) error {
	data, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("failed to decode wire payload: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode wire payload: %w", err)
	}
	return nil
}
