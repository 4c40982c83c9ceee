package chainmap

import (
	"encoding/json"
	"fmt"
	"strings"
)

// String Implement the formatting output interface for fmt.Print %v
func (m *MapOf[K, V]) String() string {
	return strings.Replace(fmt.Sprint(m.ToMap()), "map[", "MapOf[", 1)
}

// MarshalJSON JSON serialization
func (m *MapOf[K, V]) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToMap())
}

// UnmarshalJSON JSON deserialization. Decoded pairs are inserted, so keys
// already present keep their current values.
func (m *MapOf[K, V]) UnmarshalJSON(data []byte) error {
	var sm map[K]V
	if err := json.Unmarshal(data, &sm); err != nil {
		return err
	}
	for k, v := range sm {
		m.Insert(k, v)
	}
	return nil
}
