package library

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Secret is a credential the backend never reveals. A stored value comes back as
// boolean true; anything else means nothing is stored.
type Secret struct {
	Stored bool
}

func (s *Secret) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		s.Stored = true
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		// A backend that echoes the secret still only tells us it is stored.
		s.Stored = strings.TrimSpace(v) != ""
	default:
		s.Stored = false
	}
	return nil
}

func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Stored)
}

// Flag is a boolean stored by the backend as 0/1, "0"/"1" or true/false.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(bytes.TrimSpace(data)), `"`) {
	case "1", "true", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}

// MU list statuses in display order.
var MUListStatuses = []string{"plan-to", "reading", "completed", "one-shots", "dropped", "on-hold", "ongoing"}

// Settings as returned by GET /settings.
type Settings struct {
	MainRating     string `json:"main_rating"`
	TitleLanguages string `json:"title_languages"`
	Password       Secret `json:"password"`

	MUIntegration Flag          `json:"mu_integration"`
	MUUsername    string        `json:"mu_username"`
	MUPassword    Secret        `json:"mu_password"`
	MUAutomation  Flag          `json:"mu_automation"`
	MULists       map[string]ID `json:"mu_lists"`

	DexIntegration       Flag   `json:"dex_integration"`
	DexUsername          string `json:"dex_username"`
	DexPassword          Secret `json:"dex_password"`
	DexClientID          string `json:"dex_client_id"`
	DexSecret            Secret `json:"dex_secret"`
	DexIntegrationForced Flag   `json:"dex_integration_forced"`
	DexAutomation        Flag   `json:"dex_automation"`

	MALIntegration Flag   `json:"mal_integration"`
	MALClientID    Secret `json:"mal_client_id"`
	MALAutomation  Flag   `json:"mal_automation"`
}
