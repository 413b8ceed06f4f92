// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package nodes

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var intPattern = regexp.MustCompile(`^[+-]?\d+$`)

// ParseOptionalInt interprets a widget value as an optional integer.
//
// Hosts deliver widget values loosely typed: nil, a string, a number, or a
// single-element slice wrapping one of those. Blank or nil means "unset"
// and yields (nil, nil). Integer values and integer-looking strings yield
// the parsed value. Everything else (booleans, floats, multi-element
// slices, non-integer strings) is a hard error so a typo in the graph
// surfaces instead of silently becoming zero.
func ParseOptionalInt(value any, field string) (*int, error) {
	if value == nil {
		return nil, nil
	}
	if list, ok := value.([]any); ok {
		if len(list) != 1 {
			return nil, fmt.Errorf("%s must be a single integer, got list of length %d", field, len(list))
		}
		value = list[0]
	}
	switch v := value.(type) {
	case bool:
		return nil, fmt.Errorf("%s must be an integer (blank for unset), got bool", field)
	case int:
		return &v, nil
	case int64:
		n := int(v)
		return &n, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		if !intPattern.MatchString(s) {
			return nil, fmt.Errorf("%s must be an integer (blank for unset), got %q", field, v)
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer (blank for unset), got %q", field, v)
		}
		return &n, nil
	default:
		return nil, fmt.Errorf("%s must be an integer (blank for unset), got type %T", field, value)
	}
}
