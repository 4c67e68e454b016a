package parse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"dubforge/internal/services"
)

// FormatUnityJSON identifies the Unity-style localization JSON export: an
// object mapping string keys to source-language strings, with optional nested
// category objects.
const FormatUnityJSON = "unity-json"

func init() {
	Register(unityJSONAdapter{})
}

// unityJSONAdapter flattens nested category objects into dotted keys so keys
// stay unique within the file. A streaming decoder is used so lines come out
// in file order, which map-based decoding would destroy.
type unityJSONAdapter struct{}

func (unityJSONAdapter) FormatID() string { return FormatUnityJSON }

func (unityJSONAdapter) Parse(data []byte) ([]Line, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, malformed("unity-json", "decode", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, malformed("unity-json", "decode", fmt.Errorf("top level must be an object, got %v", tok))
	}

	seen := make(map[string]struct{})
	lines, err := parseUnityObject(dec, "", seen)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, malformed("unity-json", "decode", fmt.Errorf("trailing content after top-level object"))
	}
	return lines, nil
}

func parseUnityObject(dec *json.Decoder, prefix string, seen map[string]struct{}) ([]Line, error) {
	var lines []Line
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed("unity-json", "decode", err)
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return lines, nil
		}

		key, ok := tok.(string)
		if !ok {
			return nil, malformed("unity-json", "decode", fmt.Errorf("object key is not a string: %v", tok))
		}
		flat := key
		if prefix != "" {
			flat = prefix + "." + key
		}

		value, err := dec.Token()
		if err != nil {
			return nil, malformed("unity-json", "decode", err)
		}
		switch v := value.(type) {
		case string:
			if _, dup := seen[flat]; dup {
				return nil, malformed("unity-json", flat, fmt.Errorf("duplicate key after flattening"))
			}
			seen[flat] = struct{}{}
			lines = append(lines, Line{Key: flat, Text: v})
		case json.Delim:
			if v != '{' {
				return nil, malformed("unity-json", flat, fmt.Errorf("unsupported nesting %q, only objects group keys", v))
			}
			nested, err := parseUnityObject(dec, flat, seen)
			if err != nil {
				return nil, err
			}
			lines = append(lines, nested...)
		default:
			return nil, malformed("unity-json", flat, fmt.Errorf("value must be a string or category object, got %T", value))
		}
	}
}

func malformed(component, operation string, err error) error {
	return services.Wrap(services.ErrMalformedInput, "parse", component, operation, err)
}
