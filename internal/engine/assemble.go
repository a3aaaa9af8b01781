// ABOUTME: Message Assembler — turns an ExtractionMap plus Context into ordered messages, spec.md §4.5
// ABOUTME: Then the Redundancy Filter drops any action whose omitIfExistsAny names an action already emitted, §4.6

package engine

import (
	"strconv"

	"github.com/BumpyClock/doublefetch/internal/message"
	"github.com/BumpyClock/doublefetch/internal/patterns"
)

// NonceSource draws the per-message antiDuplicates value. Production
// code uses a math/rand-backed default; tests inject a deterministic
// one to make assembled messages reproducible.
type NonceSource func() int

// Assemble implements spec.md §4.5 and §4.6: walk the rule's output
// actions in declaration order, build each one's payload from context
// and extracted fields, discard actions whose required data is absent,
// then drop any surviving action that spec.md §4.6's redundancy rule
// rules out.
func Assemble(category string, compiled *patterns.Compiled, extraction ExtractionMap, ctx Context, nonce NonceSource) []message.Message {
	order := compiled.Rule.OutputOrder()
	emitted := make([]message.Message, 0, len(order))
	emittedActions := make(map[string]bool, len(order))

	for _, action := range order {
		schema := compiled.Rule.Output[action]
		payload, ok := buildPayload(schema, extraction, ctx)
		if !ok {
			continue
		}
		emitted = append(emitted, message.Message{
			Body: message.Body{
				Action:         action,
				Payload:        payload,
				Ver:            message.ProtocolVersion,
				AntiDuplicates: nonce(),
			},
			DeduplicateBy: schema.DeduplicateBy,
		})
		emittedActions[action] = true
	}

	return filterRedundant(compiled, emitted, emittedActions)
}

// buildPayload assembles one action's payload, returning ok=false if the
// action must be discarded entirely.
func buildPayload(schema *patterns.OutputSchema, extraction ExtractionMap, ctx Context) (map[string]any, bool) {
	payload := make(map[string]any, len(schema.Fields))

	for _, field := range schema.Fields {
		if field.Source == nil {
			assignContextField(payload, field, ctx)
			continue
		}

		ext := extraction[*field.Source]
		switch {
		case ext == nil || ext.Kind == patterns.InputFirst:
			if !assignSingleValueField(payload, field, ext) {
				return nil, false
			}
		case ext.Kind == patterns.InputAll:
			if !assignArrayMergedField(payload, field, ext) {
				return nil, false
			}
		}
	}

	return payload, true
}

// assignContextField implements the context-field rule: absence of a
// required field just skips insertion, it never discards the action.
func assignContextField(payload map[string]any, field patterns.OutputField, ctx Context) {
	v := ctx.value(field.Key)
	if !field.Optional && !present(v) {
		return
	}
	if present(v) {
		payload[field.Key] = *v
	}
}

// assignSingleValueField implements the first-input-sourced field rule:
// absence of a required value discards the whole action; otherwise the
// key is always inserted, with null standing in for absence.
func assignSingleValueField(payload map[string]any, field patterns.OutputField, ext *Extraction) bool {
	var v *string
	if ext != nil {
		v = ext.First[field.Key]
	}
	if !field.Optional && !present(v) {
		return false
	}
	if present(v) {
		payload[field.Key] = *v
	} else {
		payload[field.Key] = nil
	}
	return true
}

// assignArrayMergedField implements the all-input-sourced field rule:
// reconstruct array-of-objects by zipping every field declared under the
// source input against every matched root element, filtered to the
// indices where every required sibling field is present, then reassign
// survivors to a dense positional "0", "1", ... mapping of entry objects.
func assignArrayMergedField(payload map[string]any, field patterns.OutputField, ext *Extraction) bool {
	requiredKeys := field.RequiredKeys
	if len(requiredKeys) == 0 {
		requiredKeys = make([]string, 0, len(ext.All))
		for k := range ext.All {
			requiredKeys = append(requiredKeys, k)
		}
	}

	positional := make(map[string]any)
	next := 0
	for i := 0; i < ext.Count; i++ {
		if !rowSatisfies(ext, requiredKeys, i) {
			continue
		}
		entry := make(map[string]any, len(ext.All))
		for k, col := range ext.All {
			if i < len(col) && present(col[i]) {
				entry[k] = *col[i]
			} else {
				entry[k] = nil
			}
		}
		positional[strconv.Itoa(next)] = entry
		next++
	}

	if next == 0 && !field.Optional {
		return false
	}
	payload[field.Key] = positional
	return true
}

func rowSatisfies(ext *Extraction, requiredKeys []string, i int) bool {
	for _, k := range requiredKeys {
		col := ext.All[k]
		if i >= len(col) || !present(col[i]) {
			return false
		}
	}
	return true
}

// filterRedundant implements spec.md §4.6: an action carrying
// omitIfExistsAny is dropped if any of the named actions are present in
// the pre-filter emitted set. The filter is a single pass over the
// actions as originally emitted — it never considers actions dropped by
// this same pass.
func filterRedundant(compiled *patterns.Compiled, emitted []message.Message, emittedActions map[string]bool) []message.Message {
	order := compiled.Rule.OutputOrder()
	result := make([]message.Message, 0, len(emitted))

	i := 0
	for _, action := range order {
		schema := compiled.Rule.Output[action]
		if i >= len(emitted) {
			break
		}
		// Messages were appended in the same order as actions that
		// survived buildPayload, so advance in lockstep by recomputing
		// which action a given emitted message belongs to.
		if emitted[i].Body.Action != action {
			continue
		}
		if omittedByRedundancy(schema.OmitIfExistsAny, emittedActions) {
			i++
			continue
		}
		result = append(result, emitted[i])
		i++
	}

	return result
}

func omittedByRedundancy(omitIfExistsAny []string, emittedActions map[string]bool) bool {
	for _, other := range omitIfExistsAny {
		if emittedActions[other] {
			return true
		}
	}
	return false
}
