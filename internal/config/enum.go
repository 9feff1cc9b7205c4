package config

import (
	"fmt"
	"strings"
)

// parseEnum maps text onto the index of its case-insensitive match in names.
func parseEnum[T ~uint8](kind string, names []string, text []byte) (T, error) {
	for i, name := range names {
		if strings.EqualFold(name, strings.TrimSpace(string(text))) {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q, want one of %s", kind, text, strings.Join(names, ", "))
}

func enumName[T ~uint8](names []string, v T) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", names[0], v)
}
