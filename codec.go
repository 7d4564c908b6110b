package stepper

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Codec decodes raw config bytes. Reloader picks one with DetectCodec
// unless WithCodec fixes it.
type Codec interface {
	Unmarshal(data []byte, v any) error

	// ContentType names the format in errors and logs.
	ContentType() string
}

// JSONCodec decodes JSON config.
type JSONCodec struct{}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (JSONCodec) ContentType() string {
	return "application/json"
}

// YAMLCodec decodes YAML config. Empty input leaves v untouched.
type YAMLCodec struct{}

func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

var (
	_ Codec = JSONCodec{}
	_ Codec = YAMLCodec{}
)

// DetectCodec returns JSONCodec for a document opening with '{' or '[',
// and YAMLCodec for anything else, including empty input.
func DetectCodec(data []byte) Codec {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return YAMLCodec{}
	}
	switch trimmed[0] {
	case '{', '[':
		return JSONCodec{}
	default:
		return YAMLCodec{}
	}
}
