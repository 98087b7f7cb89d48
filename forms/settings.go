package forms

import (
	"regexp"
	"strconv"
	"strings"

	"manga_tracker/lang"
	"manga_tracker/library"
)

type FieldKind int

const (
	KindText FieldKind = iota
	KindSecret
	KindToggle
	KindChoice
	KindNumber
)

// Settings groups. Every group except general is an integration whose
// fields only exist while its "<group>_integration" toggle is on.
const (
	GroupGeneral = "general"
	GroupMU      = "mu"
	GroupDex     = "dex"
	GroupMAL     = "mal"
)

var Integrations = []string{GroupMU, GroupDex, GroupMAL}

// MUListPrefix prefixes the per-status MangaUpdates list id fields.
const MUListPrefix = "mu_lists."

// MUListDefaults are the MangaUpdates list ids used when a field is left blank.
var MUListDefaults = map[string]int{
	"plan-to":   1,
	"reading":   0,
	"completed": 2,
	"one-shots": 2,
	"dropped":   3,
	"on-hold":   4,
	"ongoing":   0,
}

var RatingSources = []string{"mu", "dex", "mal"}

type SettingsField struct {
	Key      string
	Group    string
	Kind     FieldKind
	Options  []string
	Required bool
}

func (f SettingsField) Label() string {
	if status, ok := strings.CutPrefix(f.Key, MUListPrefix); ok {
		return lang.SectionName(status)
	}
	return lang.SettingsFieldLabel(f.Key)
}

var SettingsFields = buildSettingsFields()

func buildSettingsFields() []SettingsField {
	fields := []SettingsField{
		{Key: "main_rating", Group: GroupGeneral, Kind: KindChoice, Options: RatingSources},
		{Key: "title_languages", Group: GroupGeneral, Kind: KindText},
		{Key: "password", Group: GroupGeneral, Kind: KindSecret},

		{Key: "mu_integration", Group: GroupGeneral, Kind: KindToggle},
		{Key: "mu_username", Group: GroupMU, Kind: KindText, Required: true},
		{Key: "mu_password", Group: GroupMU, Kind: KindSecret, Required: true},
		{Key: "mu_automation", Group: GroupMU, Kind: KindToggle},
	}
	for _, status := range library.MUListStatuses {
		fields = append(fields, SettingsField{Key: MUListPrefix + status, Group: GroupMU, Kind: KindNumber})
	}
	return append(fields,
		SettingsField{Key: "dex_integration", Group: GroupGeneral, Kind: KindToggle},
		SettingsField{Key: "dex_username", Group: GroupDex, Kind: KindText, Required: true},
		SettingsField{Key: "dex_password", Group: GroupDex, Kind: KindSecret, Required: true},
		SettingsField{Key: "dex_client_id", Group: GroupDex, Kind: KindText, Required: true},
		SettingsField{Key: "dex_secret", Group: GroupDex, Kind: KindSecret, Required: true},
		SettingsField{Key: "dex_integration_forced", Group: GroupDex, Kind: KindToggle},
		SettingsField{Key: "dex_automation", Group: GroupDex, Kind: KindToggle},

		SettingsField{Key: "mal_integration", Group: GroupGeneral, Kind: KindToggle},
		SettingsField{Key: "mal_client_id", Group: GroupMAL, Kind: KindSecret, Required: true},
		SettingsField{Key: "mal_automation", Group: GroupMAL, Kind: KindToggle},
	)
}

func settingsField(key string) (SettingsField, bool) {
	for _, f := range SettingsFields {
		if f.Key == key {
			return f, true
		}
	}
	return SettingsField{}, false
}

var (
	titleLanguagesPattern = regexp.MustCompile(`^[a-z]{2}(,[a-z]{2})*$`)
	malClientIDPattern    = regexp.MustCompile(`^[0-9a-f]{32}$`)
)

// IntegrationState is where an integration stands for the form.
type IntegrationState int

const (
	Disabled IntegrationState = iota
	Unconfigured
	Configured
)

func (s IntegrationState) String() string {
	switch s {
	case Unconfigured:
		return "unconfigured"
	case Configured:
		return "configured"
	}
	return "disabled"
}

// SettingsForm is the editable copy of the backend settings.
// Secret inputs start empty; the backend only says whether one is stored.
type SettingsForm struct {
	original library.Settings
	text     map[string]string
	checked  map[string]bool
	stored   map[string]bool
	errors   map[string]string
}

func NewSettingsForm(s library.Settings) *SettingsForm {
	f := &SettingsForm{}
	f.load(s)
	return f
}

func (f *SettingsForm) load(s library.Settings) {
	f.original = s
	f.text = map[string]string{
		"main_rating":     matchOption(s.MainRating, RatingSources, RatingSources[0]),
		"title_languages": s.TitleLanguages,
		"mu_username":     s.MUUsername,
		"dex_username":    s.DexUsername,
		"dex_client_id":   s.DexClientID,
	}
	for _, status := range library.MUListStatuses {
		if id, ok := s.MULists[status]; ok {
			f.text[MUListPrefix+status] = id.String()
		}
	}
	f.checked = map[string]bool{
		"mu_integration":         bool(s.MUIntegration),
		"mu_automation":          bool(s.MUAutomation),
		"dex_integration":        bool(s.DexIntegration),
		"dex_integration_forced": bool(s.DexIntegrationForced),
		"dex_automation":         bool(s.DexAutomation),
		"mal_integration":        bool(s.MALIntegration),
		"mal_automation":         bool(s.MALAutomation),
	}
	f.stored = map[string]bool{
		"password":      s.Password.Stored,
		"mu_password":   s.MUPassword.Stored,
		"dex_password":  s.DexPassword.Stored,
		"dex_secret":    s.DexSecret.Stored,
		"mal_client_id": s.MALClientID.Stored,
	}
	f.errors = map[string]string{}
}

// Original is the reset baseline.
func (f *SettingsForm) Original() library.Settings { return f.original }

func (f *SettingsForm) Value(key string) string { return f.text[key] }

func (f *SettingsForm) Checked(key string) bool { return f.checked[key] }

func (f *SettingsForm) Stored(key string) bool { return f.stored[key] }

func (f *SettingsForm) Error(key string) string { return f.errors[key] }

func (f *SettingsForm) Errors() FieldErrors {
	out := FieldErrors{}
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Enabled reports whether an integration group is switched on. General is always on.
func (f *SettingsForm) Enabled(group string) bool {
	if group == GroupGeneral {
		return true
	}
	return f.checked[group+"_integration"]
}

func (f *SettingsForm) State(group string) IntegrationState {
	if !f.Enabled(group) {
		return Disabled
	}
	for _, field := range SettingsFields {
		if field.Group == group && field.Kind == KindSecret && !f.stored[field.Key] {
			return Unconfigured
		}
	}
	return Configured
}

// Visible fields are those whose group is enabled.
func (f *SettingsForm) Visible(key string) bool {
	field, ok := settingsField(key)
	return ok && f.Enabled(field.Group)
}

// VisibleFields lists the fields to show, in order.
func (f *SettingsForm) VisibleFields() []SettingsField {
	var out []SettingsField
	for _, field := range SettingsFields {
		if f.Enabled(field.Group) {
			out = append(out, field)
		}
	}
	return out
}

// Required is true for a visible required field, unless it is a secret the
// backend already holds.
func (f *SettingsForm) Required(key string) bool {
	field, ok := settingsField(key)
	if !ok || !field.Required || !f.Enabled(field.Group) {
		return false
	}
	if field.Kind == KindSecret && f.stored[key] {
		return false
	}
	return true
}

// Placeholder is the hint shown in an empty input.
func (f *SettingsForm) Placeholder(key string) string {
	if f.stored[key] {
		return lang.Active().Settings.Stored
	}
	if status, ok := strings.CutPrefix(key, MUListPrefix); ok {
		return strconv.Itoa(MUListDefaults[status])
	}
	if f.Required(key) {
		return lang.Active().Settings.Required
	}
	return ""
}

// SetValue stores typed text. A field already flagged invalid is checked again
// so the message goes away as soon as the input is fixed.
func (f *SettingsForm) SetValue(key, value string) {
	f.text[key] = value
	if _, invalid := f.errors[key]; invalid {
		f.validate(key)
	}
}

// Blur validates the field the cursor is leaving.
func (f *SettingsForm) Blur(key string) { f.validate(key) }

// Toggle flips a checkbox. Switching an integration changes which fields are
// shown and required, so their messages are recomputed.
func (f *SettingsForm) Toggle(key string) {
	field, ok := settingsField(key)
	if !ok || field.Kind != KindToggle {
		return
	}
	f.checked[key] = !f.checked[key]
	if group, ok := strings.CutSuffix(key, "_integration"); ok {
		for _, dep := range SettingsFields {
			if dep.Group != group {
				continue
			}
			if !f.checked[key] {
				delete(f.errors, dep.Key)
			} else if _, invalid := f.errors[dep.Key]; invalid {
				f.validate(dep.Key)
			}
		}
	}
}

// NextOption cycles a choice field.
func (f *SettingsForm) NextOption(key string) {
	field, ok := settingsField(key)
	if !ok || field.Kind != KindChoice || len(field.Options) == 0 {
		return
	}
	cur := f.text[key]
	for i, o := range field.Options {
		if o == cur {
			f.text[key] = field.Options[(i+1)%len(field.Options)]
			return
		}
	}
	f.text[key] = field.Options[0]
}

func (f *SettingsForm) validate(key string) {
	if msg := f.check(key); msg != "" {
		f.errors[key] = msg
		return
	}
	delete(f.errors, key)
}

func (f *SettingsForm) check(key string) string {
	if !f.Visible(key) {
		return ""
	}
	s := lang.Active().Settings
	v := strings.TrimSpace(f.text[key])
	if v == "" {
		if f.Required(key) {
			return s.Required
		}
		return ""
	}
	switch {
	case key == "title_languages":
		if !titleLanguagesPattern.MatchString(v) {
			return s.InvalidLanguages
		}
	case key == "mal_client_id":
		if !malClientIDPattern.MatchString(v) {
			return s.InvalidClientID
		}
	case strings.HasPrefix(key, MUListPrefix):
		if n, err := strconv.Atoi(v); err != nil || n < 0 {
			return s.InvalidListID
		}
	}
	return ""
}

// Validate checks every field and keeps the messages for display.
func (f *SettingsForm) Validate() error {
	for _, field := range SettingsFields {
		f.validate(field.Key)
	}
	return f.Errors().orNil()
}

// Payload validates and builds the sparse PUT /settings body: integration
// flags always, an integration's other fields only while it is enabled, and
// secrets only when a new value was typed.
func (f *SettingsForm) Payload() (map[string]any, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	p := map[string]any{}
	for _, field := range SettingsFields {
		if !f.Enabled(field.Group) {
			continue
		}
		if strings.HasPrefix(field.Key, MUListPrefix) {
			continue
		}
		switch field.Kind {
		case KindToggle:
			p[field.Key] = f.checked[field.Key]
		case KindSecret:
			if v := strings.TrimSpace(f.text[field.Key]); v != "" {
				p[field.Key] = v
			}
		default:
			p[field.Key] = strings.TrimSpace(f.text[field.Key])
		}
	}
	if f.Enabled(GroupMU) {
		lists := map[string]int{}
		for _, status := range library.MUListStatuses {
			lists[status] = MUListDefaults[status]
			if v := strings.TrimSpace(f.text[MUListPrefix+status]); v != "" {
				lists[status], _ = strconv.Atoi(v)
			}
		}
		p["mu_lists"] = lists
	}
	return p, nil
}

// Saved is called after a successful PUT with the payload that was sent.
// Secret inputs are cleared and the sent values become the reset baseline.
func (f *SettingsForm) Saved(payload map[string]any) {
	o := f.original
	str := func(key string, dst *string) {
		if v, ok := payload[key].(string); ok {
			*dst = v
		}
	}
	flag := func(key string, dst *library.Flag) {
		if v, ok := payload[key].(bool); ok {
			*dst = library.Flag(v)
		}
	}
	secret := func(key string, dst *library.Secret) {
		if _, ok := payload[key]; ok {
			dst.Stored = true
		}
	}
	str("main_rating", &o.MainRating)
	str("title_languages", &o.TitleLanguages)
	str("mu_username", &o.MUUsername)
	str("dex_username", &o.DexUsername)
	str("dex_client_id", &o.DexClientID)
	flag("mu_integration", &o.MUIntegration)
	flag("mu_automation", &o.MUAutomation)
	flag("dex_integration", &o.DexIntegration)
	flag("dex_integration_forced", &o.DexIntegrationForced)
	flag("dex_automation", &o.DexAutomation)
	flag("mal_integration", &o.MALIntegration)
	flag("mal_automation", &o.MALAutomation)
	secret("password", &o.Password)
	secret("mu_password", &o.MUPassword)
	secret("dex_password", &o.DexPassword)
	secret("dex_secret", &o.DexSecret)
	secret("mal_client_id", &o.MALClientID)
	if lists, ok := payload["mu_lists"].(map[string]int); ok {
		o.MULists = make(map[string]library.ID, len(lists))
		for k, v := range lists {
			o.MULists[k] = library.ID(strconv.Itoa(v))
		}
	}
	f.load(o)
}

// Reset throws away edits and goes back to the last loaded or saved settings.
func (f *SettingsForm) Reset() { f.load(f.original) }
