package customcmd

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Candidate is an unvalidated command definition as received from an
// authoring surface (slash command or dashboard).
type Candidate struct {
	Trigger      string `json:"trigger"`
	Kind         Kind   `json:"type"`
	Response     string `json:"response"`
	FunctionName string `json:"function_name"`
	Code         string `json:"code"`
	Description  string `json:"description"`
	Embed        bool   `json:"embed"`
}

// Patch carries the fields of an edit request. Supplying Response,
// FunctionName, or Code re-tags the command's Kind to match; supplying more
// than one of them is rejected as ambiguous.
type Patch struct {
	Response     *string `json:"response,omitempty"`
	FunctionName *string `json:"function_name,omitempty"`
	Code         *string `json:"code,omitempty"`
	Description  *string `json:"description,omitempty"`
	Embed        *bool   `json:"embed,omitempty"`
}

// Validate checks a candidate and returns a normalized Definition: trigger
// trimmed and lowercased, Kind-inactive content fields cleared so stale
// values can never be persisted. Uniqueness against the store is checked by
// the store itself on insert.
func Validate(c Candidate) (Definition, error) {
	trigger := strings.ToLower(strings.TrimSpace(c.Trigger))
	if trigger == "" {
		return Definition{}, &ValidationError{Field: "trigger", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(trigger) > MaxTriggerLen {
		return Definition{}, &ValidationError{Field: "trigger", Reason: fmt.Sprintf("longer than %d characters", MaxTriggerLen)}
	}
	if utf8.RuneCountInString(c.Description) > MaxDescriptionLen {
		return Definition{}, &ValidationError{Field: "description", Reason: fmt.Sprintf("longer than %d characters", MaxDescriptionLen)}
	}

	def := Definition{
		Trigger:     trigger,
		Kind:        c.Kind,
		Description: c.Description,
		Embed:       c.Embed,
	}

	switch c.Kind {
	case KindText:
		if strings.TrimSpace(c.Response) == "" {
			return Definition{}, &ValidationError{Field: "response", Reason: "required for text commands"}
		}
		if utf8.RuneCountInString(c.Response) > MaxTemplateLen {
			return Definition{}, &ValidationError{Field: "response", Reason: fmt.Sprintf("longer than %d characters", MaxTemplateLen)}
		}
		def.Response = c.Response
	case KindFunction:
		if c.FunctionName == "" {
			return Definition{}, &ValidationError{Field: "function", Reason: "required for function commands"}
		}
		if _, ok := LookupBuiltin(c.FunctionName); !ok {
			return Definition{}, &ValidationError{Field: "function", Reason: fmt.Sprintf("unknown built-in %q", c.FunctionName)}
		}
		def.FunctionName = c.FunctionName
	case KindCode:
		if strings.TrimSpace(c.Code) == "" {
			return Definition{}, &ValidationError{Field: "code", Reason: "required for code commands"}
		}
		if utf8.RuneCountInString(c.Code) > MaxScriptLen {
			return Definition{}, &ValidationError{Field: "code", Reason: fmt.Sprintf("longer than %d characters", MaxScriptLen)}
		}
		def.Code = c.Code
	default:
		return Definition{}, &ValidationError{Field: "type", Reason: fmt.Sprintf("must be one of %q, %q, %q", KindText, KindFunction, KindCode)}
	}

	return def, nil
}

// applyPatch merges an edit request into an existing definition. Exactly one
// content field may be supplied; it re-tags Kind and clears the other two.
func applyPatch(def Definition, p Patch) (Definition, error) {
	supplied := 0
	if p.Response != nil {
		supplied++
	}
	if p.FunctionName != nil {
		supplied++
	}
	if p.Code != nil {
		supplied++
	}
	if supplied > 1 {
		return Definition{}, &ValidationError{Field: "type", Reason: "supply only one of response, function, or code"}
	}

	switch {
	case p.Response != nil:
		def.Kind = KindText
		def.Response = *p.Response
		def.FunctionName = ""
		def.Code = ""
	case p.FunctionName != nil:
		def.Kind = KindFunction
		def.FunctionName = *p.FunctionName
		def.Response = ""
		def.Code = ""
	case p.Code != nil:
		def.Kind = KindCode
		def.Code = *p.Code
		def.Response = ""
		def.FunctionName = ""
	}

	if p.Description != nil {
		def.Description = *p.Description
	}
	if p.Embed != nil {
		def.Embed = *p.Embed
	}

	// Re-run field validation so an edit cannot sneak in an empty body or an
	// unknown built-in.
	validated, err := Validate(Candidate{
		Trigger:      def.Trigger,
		Kind:         def.Kind,
		Response:     def.Response,
		FunctionName: def.FunctionName,
		Code:         def.Code,
		Description:  def.Description,
		Embed:        def.Embed,
	})
	if err != nil {
		return Definition{}, err
	}
	validated.CreatedBy = def.CreatedBy
	validated.CreatedAt = def.CreatedAt
	validated.UpdatedAt = def.UpdatedAt
	return validated, nil
}
