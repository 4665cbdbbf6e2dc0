package bitfield

import (
	"reflect"
	"strconv"
	"strings"
)

// TagSetting holds the parsed `key:value` pairs of a struct tag. Keys are upper case.
type TagSetting map[string]string

func (this TagSetting) Enable(key string) {
	this[key] = key
}

func (this TagSetting) Set(key, value string) {
	this[key] = value
}

func (this TagSetting) Flag(name string) bool {
	if this == nil {
		return false
	}
	return this[name] != ""
}

func (this TagSetting) Update(setting ...map[string]string) {
	for _, setting := range setting {
		for k, v := range setting {
			this[k] = v
		}
	}
}

func (this TagSetting) GetString(name string) string {
	if this == nil {
		return ""
	}
	return this[name]
}

// GetStrings splits the value of name by comma, dropping empty items.
func (this TagSetting) GetStrings(name string) (values []string) {
	for _, v := range strings.Split(this.GetString(name), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return
}

func (this TagSetting) GetInt(name string) (int, error) {
	v := this.GetString(name)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// Parse parses the tags of names found in tag.
func (this *TagSetting) Parse(tag reflect.StructTag, names ...string) {
	for _, name := range names {
		if s, ok := tag.Lookup(name); ok {
			this.ParseString(s)
		}
	}
}

// ParseString parses `key;key:value;key:{nested;value}` items. Items without value are enabled
// as flags. Braces keep their content, semicolons included, as the raw value.
func (this *TagSetting) ParseString(s string) {
	if *this == nil {
		*this = TagSetting{}
	}

	var (
		depth int
		start int
	)

	add := func(item string) {
		if item = strings.TrimSpace(item); item == "" {
			return
		}
		parts := strings.SplitN(item, ":", 2)
		key := strings.ToUpper(strings.TrimSpace(parts[0]))
		if len(parts) == 2 {
			(*this)[key] = strings.TrimSpace(parts[1])
		} else {
			this.Enable(key)
		}
	}

	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				add(s[start:i])
				start = i + 1
			}
		}
	}
	add(s[start:])
}

func parseFieldTagSetting(field reflect.StructField) (setting TagSetting) {
	setting.Parse(field.Tag, "sql", "aorm", "bitfield")
	if setting == nil {
		setting = TagSetting{}
	}
	return setting
}
