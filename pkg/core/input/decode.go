// Package input decodes hand-written valuation documents. JSON is tried
// strictly first, then repaired, then read as Hjson; YAML files are read
// with their yaml tags.
package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"

	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

// Format records which strategy produced the decoded value.
type Format string

const (
	FormatJSON     Format = "json"
	FormatRepaired Format = "json_repaired"
	FormatHJSON    Format = "hjson"
	FormatYAML     Format = "yaml"
)

// RepairJSON fixes common hand-editing mistakes: unquoted keys, single
// quotes, trailing commas, comments and unclosed brackets.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair: %w", err)
	}
	return repaired, nil
}

// HJSONToJSON converts Hjson (comments, unquoted keys and strings, optional
// commas) into standard JSON.
func HJSONToJSON(data string) (string, error) {
	var v interface{}
	if err := hjson.Unmarshal([]byte(data), &v); err != nil {
		return "", fmt.Errorf("hjson: %w", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hjson to json: %w", err)
	}
	return string(out), nil
}

// SmartParse decodes data into v, trying strict JSON, repaired JSON and
// Hjson in that order. It returns the strategy that succeeded.
func SmartParse(data string, v interface{}) (Format, error) {
	strictErr := json.Unmarshal([]byte(data), v)
	if strictErr == nil {
		return FormatJSON, nil
	}

	if repaired, err := RepairJSON(data); err == nil {
		if err := json.Unmarshal([]byte(repaired), v); err == nil {
			return FormatRepaired, nil
		}
	}

	if converted, err := HJSONToJSON(data); err == nil {
		if err := json.Unmarshal([]byte(converted), v); err == nil {
			return FormatHJSON, nil
		}
	}

	return "", fmt.Errorf("decode input: no strategy succeeded: %w", strictErr)
}

// ErrIncomplete marks a document that ends inside an object, array, string
// or block comment.
var ErrIncomplete = errors.New("incomplete document")

// CheckComplete returns ErrIncomplete when data ends before every bracket,
// string and block comment it opens is closed. Repair closes those, so a
// truncated document must be caught before it reaches SmartParse.
func CheckComplete(data string) error {
	var (
		open  []byte
		quote byte
		last  byte // last significant byte outside strings and comments
	)
	for i := 0; i < len(data); i++ {
		c := data[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
				last = c
			}
			continue
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '"':
			quote = c
		case '\'':
			// single quotes only open a string in value or key position;
			// inside an Hjson quoteless string they are literal
			if last == 0 || strings.IndexByte("{[:,", last) >= 0 {
				quote = c
			}
		case '#':
			i = lineEnd(data, i)
			continue
		case '/':
			if i+1 < len(data) && data[i+1] == '/' {
				i = lineEnd(data, i)
				continue
			}
			if i+1 < len(data) && data[i+1] == '*' {
				end := strings.Index(data[i+2:], "*/")
				if end < 0 {
					return fmt.Errorf("%w: unterminated comment", ErrIncomplete)
				}
				i += end + 3
				continue
			}
		case '{', '[':
			open = append(open, c)
		case '}', ']':
			if len(open) > 0 {
				open = open[:len(open)-1]
			}
		}
		last = c
	}
	switch {
	case quote != 0:
		return fmt.Errorf("%w: unterminated string", ErrIncomplete)
	case len(open) > 0:
		return fmt.Errorf("%w: %d unclosed bracket(s)", ErrIncomplete, len(open))
	}
	return nil
}

func lineEnd(data string, i int) int {
	if n := strings.IndexByte(data[i:], '\n'); n >= 0 {
		return i + n
	}
	return len(data)
}

// ParseComplete is SmartParse for documents that must arrive whole, such as
// request bodies: lenient syntax is accepted but truncation is not.
func ParseComplete(data string, v interface{}) (Format, error) {
	if err := CheckComplete(data); err != nil {
		return "", err
	}
	return SmartParse(data, v)
}

// Decode reads one ValuationInput from a JSON-like document.
func Decode(data []byte) (models.ValuationInput, Format, error) {
	var in models.ValuationInput
	f, err := SmartParse(string(data), &in)
	if err != nil {
		return models.ValuationInput{}, "", err
	}
	return in, f, nil
}

// DecodeFile reads a ValuationInput from path. .yaml and .yml files are
// parsed as YAML; anything else goes through SmartParse.
func DecodeFile(path string) (models.ValuationInput, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ValuationInput{}, "", fmt.Errorf("read input: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var in models.ValuationInput
		if err := yaml.Unmarshal(data, &in); err != nil {
			return models.ValuationInput{}, "", fmt.Errorf("yaml input %s: %w", path, err)
		}
		return in, FormatYAML, nil
	default:
		return Decode(data)
	}
}
