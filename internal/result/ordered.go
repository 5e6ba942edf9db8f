package result

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// CategoryEntry is one member of skills_by_category.
type CategoryEntry struct {
	Name     string
	Category SkillCategory
}

// SkillCategories keeps skills_by_category in document order.
type SkillCategories []CategoryEntry

func (s *SkillCategories) UnmarshalJSON(data []byte) error {
	var out SkillCategories
	err := forEachMember(data, func(key string, raw []byte) error {
		var category SkillCategory
		if err := json.Unmarshal(raw, &category); err != nil {
			return fmt.Errorf("category %q: %w", key, err)
		}
		out = append(out, CategoryEntry{Name: key, Category: category})
		return nil
	})
	if err != nil {
		return err
	}

	*s = out
	return nil
}

// Names returns category names in document order.
func (s SkillCategories) Names() []string {
	names := make([]string, 0, len(s))
	for _, entry := range s {
		names = append(names, entry.Name)
	}
	return names
}

// SectionEntry reports whether the service detected a resume section.
type SectionEntry struct {
	Name  string
	Found bool
}

// Sections keeps sections_found in document order.
type Sections []SectionEntry

func (s *Sections) UnmarshalJSON(data []byte) error {
	var out Sections
	err := forEachMember(data, func(key string, raw []byte) error {
		value := gjson.ParseBytes(raw)
		if value.Type != gjson.True && value.Type != gjson.False {
			return fmt.Errorf("section %q: expected boolean, got %s", key, value.Type)
		}
		out = append(out, SectionEntry{Name: key, Found: value.Bool()})
		return nil
	})
	if err != nil {
		return err
	}

	*s = out
	return nil
}

// forEachMember walks a JSON object in document order. A null value is an empty object.
func forEachMember(data []byte, fn func(key string, raw []byte) error) error {
	parsed := gjson.ParseBytes(data)
	if parsed.Type == gjson.Null {
		return nil
	}
	if !parsed.IsObject() {
		return fmt.Errorf("expected object, got %s", parsed.Type)
	}

	var err error
	parsed.ForEach(func(key, value gjson.Result) bool {
		err = fn(key.String(), []byte(value.Raw))
		return err == nil
	})

	return err
}
