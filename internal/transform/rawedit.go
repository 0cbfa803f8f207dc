package transform

import "encoding/json"

// setField returns raw with key set to value, preserving every other key
// verbatim. Grounded on the design-notes requirement that unknown keys
// survive an UpdateLine untouched: reading and rewriting through
// map[string]json.RawMessage keeps every field's original bytes except
// the one being changed.
func setField(raw json.RawMessage, key string, value json.RawMessage) (json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]json.RawMessage{}
	}
	m[key] = value
	return json.Marshal(m)
}

func getField(raw json.RawMessage, key string) (json.RawMessage, bool) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

// setEntryContent returns entryRaw with its message.content replaced by
// content, leaving every other field of the entry and of the message
// object untouched.
func setEntryContent(entryRaw json.RawMessage, content []json.RawMessage) (json.RawMessage, error) {
	msgRaw, ok := getField(entryRaw, "message")
	if !ok {
		return nil, errNoMessageField
	}
	if content == nil {
		content = []json.RawMessage{}
	}
	contentBytes, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	newMsg, err := setField(msgRaw, "content", contentBytes)
	if err != nil {
		return nil, err
	}
	return setField(entryRaw, "message", newMsg)
}

// setParentUUID returns entryRaw with parentUuid set to parent (null when
// parent is nil).
func setParentUUID(entryRaw json.RawMessage, parent *string) (json.RawMessage, error) {
	var value json.RawMessage
	if parent == nil || *parent == "" {
		value = json.RawMessage("null")
	} else {
		b, err := json.Marshal(*parent)
		if err != nil {
			return nil, err
		}
		value = b
	}
	return setField(entryRaw, "parentUuid", value)
}

var errNoMessageField = jsonFieldError("entry has no message field")

type jsonFieldError string

func (e jsonFieldError) Error() string { return string(e) }
