package tile

import (
	"encoding/json"
)

// MarshalJSON implements the encoding/json.Marshaler interface to marshal letters into strings.
func (l Letter) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(l))
}

// UnmarshalJSON implements the encoding/json.Unmarshaler interface to unmarshal letters from strings.
// The letter is validated and uppercased.
func (l *Letter) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	l2, err := NewLetter(s)
	if err != nil {
		return err
	}
	*l = l2
	return nil
}
