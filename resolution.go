package ordering

import "encoding/json"

// Resolution records how a priority was produced for one candidate: the
// winning strategy, the resolved order, and the merged attributes when the
// annotation strategy fired.
type Resolution struct {
	Candidate  string       `json:"candidate"`
	Strategy   string       `json:"strategy"`
	Order      int          `json:"order"`
	Attributes AttributeMap `json:"attributes,omitempty"`
}

// ToJSON serialises the resolution for logging or transport helpers.
func (r Resolution) ToJSON() ([]byte, error) {
	type alias Resolution
	return json.Marshal(alias(r))
}

// ResolutionFromJSON deserialises a payload previously generated via ToJSON.
func ResolutionFromJSON(payload []byte) (Resolution, error) {
	type alias Resolution
	var res alias
	if err := json.Unmarshal(payload, &res); err != nil {
		return Resolution{}, err
	}
	return Resolution(res), nil
}
