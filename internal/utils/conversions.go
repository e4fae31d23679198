package utils

import "fmt"

// ToStringSlice converts a decoded JSON array into strings. Non-string scalars are
// formatted with fmt.Sprint; nested arrays are flattened.
func ToStringSlice(slice []any) []string {
	stringSlice := make([]string, 0, len(slice))
	for _, v := range slice {
		switch s := v.(type) {
		case string:
			stringSlice = append(stringSlice, s)
		case []any:
			stringSlice = append(stringSlice, ToStringSlice(s)...)
		case nil:
		default:
			stringSlice = append(stringSlice, fmt.Sprint(s))
		}
	}
	return stringSlice
}
