package survey

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// EndSurvey is the scalar branching target that ends the survey.
const EndSurvey = -1

type BranchingKind int

const (
	BranchAbsent BranchingKind = iota
	BranchScalar
	BranchStructured
)

// Branching is a "go to" rule as submitted: absent, a single scalar target
// (question index or EndSurvey), or an already structured JSON value.
type Branching struct {
	Kind BranchingKind
	Raw  json.RawMessage
}

func ScalarBranching(target int) Branching {
	return Branching{Kind: BranchScalar, Raw: json.RawMessage(strconv.Itoa(target))}
}

func (b *Branching) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*b = Branching{}
		return nil
	}
	if !json.Valid(trimmed) {
		return errors.New("branching: invalid json")
	}

	raw := append(json.RawMessage(nil), trimmed...)
	switch trimmed[0] {
	case '{', '[':
		*b = Branching{Kind: BranchStructured, Raw: raw}
	default:
		*b = Branching{Kind: BranchScalar, Raw: raw}
	}
	return nil
}

func (b Branching) MarshalJSON() ([]byte, error) {
	if b.Kind == BranchAbsent {
		return []byte("null"), nil
	}
	return b.Raw, nil
}

// NormalizeBranching returns the canonical stored form of b: nil for no
// branching, the raw value for structured input, and {"next_question": raw}
// for a scalar. Placeholder scalars (blank, or integers below EndSurvey)
// mean "no selection" and normalize to nil.
func NormalizeBranching(b Branching) json.RawMessage {
	switch b.Kind {
	case BranchStructured:
		return b.Raw
	case BranchScalar:
		if isPlaceholder(b.Raw) {
			return nil
		}
		out := make([]byte, 0, len(b.Raw)+18)
		out = append(out, `{"next_question":`...)
		out = append(out, b.Raw...)
		out = append(out, '}')
		return out
	default:
		return nil
	}
}

func isPlaceholder(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return true
	}
	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return true
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return true
		}
	}
	n, err := strconv.Atoi(text)
	return err == nil && n < EndSurvey
}

// OptionBranching holds per option branching keyed by the option's index in
// the submitted options array, so skipped blank options leave gaps.
type OptionBranching map[int]Branching

// UnmarshalJSON accepts an array (index = position) or an object keyed by
// decimal position.
func (o *OptionBranching) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*o = nil
		return nil
	}

	out := OptionBranching{}
	switch trimmed[0] {
	case '[':
		var list []Branching
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return errors.Wrap(err, "option_branching")
		}
		for i, b := range list {
			if b.Kind != BranchAbsent {
				out[i] = b
			}
		}
	case '{':
		var byKey map[string]Branching
		if err := json.Unmarshal(trimmed, &byKey); err != nil {
			return errors.Wrap(err, "option_branching")
		}
		for key, b := range byKey {
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 {
				return errors.Errorf("option_branching: invalid option index %q", key)
			}
			if b.Kind != BranchAbsent {
				out[i] = b
			}
		}
	default:
		return errors.New("option_branching: expected array or object")
	}
	*o = out
	return nil
}
