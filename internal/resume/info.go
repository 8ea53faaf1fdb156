// Package resume holds the data threaded through the workflow: the uploaded
// file and the resume identity returned by the upload step.
package resume

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Info is the resume identity produced by an upload. Raw is the authoritative
// object and is encoded verbatim; Name and Size are read from it when present.
type Info struct {
	Name string
	Size int64

	Raw map[string]any
}

// NewInfo builds an Info from a decoded JSON object. The map is copied.
func NewInfo(raw map[string]any) *Info {
	info := &Info{Raw: cloneMap(raw)}
	if info.Raw == nil {
		info.Raw = make(map[string]any)
	}
	info.decodeKnown()
	return info
}

// FromValue converts an arbitrary decoded JSON value into an Info.
// It returns nil when the value is not a JSON object.
func FromValue(v any) *Info {
	raw, ok := v.(map[string]any)
	if !ok || raw == nil {
		return nil
	}
	return NewInfo(raw)
}

// Clone returns a deep copy so callers never share the stored object.
func (i *Info) Clone() *Info {
	if i == nil {
		return nil
	}
	return NewInfo(i.Raw)
}

// Field returns a top-level value from the raw object.
func (i *Info) Field(key string) (any, bool) {
	if i == nil || i.Raw == nil {
		return nil, false
	}
	v, ok := i.Raw[key]
	return v, ok
}

func (i *Info) MarshalJSON() ([]byte, error) {
	if i.Raw == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(i.Raw)
}

func (i *Info) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return fmt.Errorf("decode resume info: %w", err)
	}
	if raw == nil {
		return errors.New("resume info must be a JSON object")
	}

	*i = Info{Raw: raw}
	i.decodeKnown()
	return nil
}

// decodeKnown fills the typed fields. Fields of an unexpected type stay zero;
// Raw keeps the original value.
func (i *Info) decodeKnown() {
	var known struct {
		Name string `mapstructure:"name"`
		Size int64  `mapstructure:"size"`
	}

	cfg := &mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &known,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return
	}
	// Partial failures are expected for richer server payloads.
	_ = decoder.Decode(i.Raw)

	i.Name = known.Name
	i.Size = known.Size
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return cloneMap(typed)
	case []any:
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
