package academic

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// SchemaVersion identifies which stored shape a record blob was read from.
type SchemaVersion int

const (
	// VersionEmpty covers missing or malformed data.
	VersionEmpty SchemaVersion = iota
	// VersionFlat is {"math": 95, "updatedAt": "..."}.
	VersionFlat
	// VersionList is [{"subject": "math", "grade": 95}].
	VersionList
	// VersionCourses is {"courses": [...], "preferences": {...}, "updatedAt": "..."}.
	VersionCourses
)

// CurrentVersion is the shape Encode writes.
const CurrentVersion = VersionCourses

func (v SchemaVersion) String() string {
	switch v {
	case VersionFlat:
		return "flat"
	case VersionList:
		return "list"
	case VersionCourses:
		return "courses"
	default:
		return "empty"
	}
}

type Record struct {
	Subject string  `json:"subject"`
	Grade   float64 `json:"grade"`
}

// Document is the canonical in-memory form of a student's academic data.
type Document struct {
	Version     SchemaVersion
	Courses     []Record
	Preferences map[string]any
	UpdatedAt   string
}

var metadataKeys = map[string]struct{}{
	"updatedat": {},
	"createdat": {},
	"timestamp": {},
}

// Normalize reads any stored shape of academic data. It never fails: data
// it cannot make sense of yields an empty document.
func Normalize(raw []byte) Document {
	doc := Document{Courses: []Record{}}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return doc
	}

	var top any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&top); err != nil {
		return doc
	}

	switch v := top.(type) {
	case []any:
		doc.Version = VersionList
		doc.Courses = recordsFromList(v)
	case map[string]any:
		if list, ok := coursesField(v); ok {
			doc.Version = VersionCourses
			doc.Courses = recordsFromList(list)
			if prefs, ok := v["preferences"].(map[string]any); ok {
				doc.Preferences = prefs
			}
		} else {
			doc.Version = VersionFlat
			doc.Courses = recordsFromFlat(v)
		}
		if s, ok := v["updatedAt"].(string); ok {
			doc.UpdatedAt = s
		}
	}
	return doc
}

// Encode writes the document in the current shape.
func (d Document) Encode(now time.Time) ([]byte, error) {
	courses := d.Courses
	if courses == nil {
		courses = []Record{}
	}
	out := map[string]any{
		"courses":   courses,
		"updatedAt": now.UTC().Format(time.RFC3339),
	}
	if len(d.Preferences) > 0 {
		out["preferences"] = d.Preferences
	}
	return json.Marshal(out)
}

func coursesField(m map[string]any) ([]any, bool) {
	for _, key := range []string{"courses", "subjects"} {
		if list, ok := m[key].([]any); ok {
			return list, true
		}
	}
	return nil, false
}

func recordsFromList(list []any) []Record {
	out := make([]Record, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		subject := firstString(m, "subject", "name")
		if subject == "" {
			continue
		}
		grade, _ := toFloat(m["grade"])
		out = append(out, Record{Subject: subject, Grade: grade})
	}
	return out
}

func recordsFromFlat(m map[string]any) []Record {
	keys := make([]string, 0, len(m))
	for k := range m {
		if _, skip := metadataKeys[strings.ToLower(k)]; skip {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Record, 0, len(keys))
	for _, k := range keys {
		n, ok := m[k].(json.Number)
		if !ok {
			continue
		}
		f, err := n.Float64()
		if err != nil {
			continue
		}
		out = append(out, Record{Subject: k, Grade: f})
	}
	return out
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}
