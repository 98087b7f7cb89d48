package lang

import (
	"fmt"
	"sync"
)

type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleChinese Locale = "zh"
)

type TabsStrings struct {
	List     string
	Add      string
	Settings string
}

type ListStrings struct {
	SectionNames   map[string]string
	TypeNames      map[string]string
	SortNames      map[string]string
	Loading        string
	NoSeries       string
	ErrorTemplate  string
	ErrorGeneric   string
	PageTemplate   string
	GenrePrompt    string
	GenreHint      string
	FilterSummary  string
	AltTitlesTitle string
	AltTitlesHint  string
	NoRating       string
	OpenLinkFailed string
	HelpKeys       string
	FilterHelpKeys string
	PickerHelpKeys string
	IncludedLabel  string
	ExcludedLabel  string
	TypeLabel      string
	SortLabel      string
}

type AddStrings struct {
	ExternalTab    string
	ManualTab      string
	FieldLabels    map[string]string
	StatusNames    map[string]string
	NoIDs          string
	Fetching       string
	FetchOK        string
	FetchFailed    string
	Submitting     string
	Added          string
	ExistsTemplate string
	AddFailed      string
	NetworkTmpl    string
	RequiredTmpl   string
	InvalidYear    string
	InvalidIDTmpl  string
	HelpKeys       string
}

type SettingsStrings struct {
	FieldLabels      map[string]string
	GroupNames       map[string]string
	LanguageLabel    string
	LanguageNames    map[Locale]string
	Loading          string
	LoadFailed       string
	Saving           string
	Saved            string
	SaveFailed       string
	FixFields        string
	Stored           string
	Required         string
	InvalidLanguages string
	InvalidClientID  string
	InvalidListID    string
	SaveConfigFailed string
	HelpKeys         string
}

type LoginStrings struct {
	Title       string
	Placeholder string
	Failed      string
	Connection  string
	LoggingIn   string
	HelpKeys    string
}

type CommonStrings struct {
	UnknownState string
	Yes          string
	No           string
}

type Strings struct {
	Tabs     TabsStrings
	List     ListStrings
	Add      AddStrings
	Settings SettingsStrings
	Login    LoginStrings
	Common   CommonStrings
}

var (
	mu sync.RWMutex

	translations = map[Locale]*Strings{
		LocaleChinese: {
			Tabs: TabsStrings{
				List:     "列表",
				Add:      "添加",
				Settings: "设置",
			},
			List: ListStrings{
				SectionNames: map[string]string{
					"":          "全部",
					"plan-to":   "计划阅读",
					"reading":   "在读",
					"completed": "已读完",
					"one-shots": "短篇",
					"on-hold":   "搁置",
					"dropped":   "弃坑",
					"ongoing":   "连载中",
				},
				TypeNames: map[string]string{
					"all":    "全部",
					"manga":  "漫画",
					"manhwa": "韩漫",
					"manhua": "国漫",
					"novel":  "小说",
					"minor":  "其他",
				},
				SortNames: map[string]string{
					"":       "默认",
					"title":  "标题",
					"rating": "评分",
					"added":  "添加时间",
				},
				Loading:        "加载中…",
				NoSeries:       "没有找到作品",
				ErrorTemplate:  "加载数据出错：%s",
				ErrorGeneric:   "加载数据出错",
				PageTemplate:   "第 %d 页",
				GenrePrompt:    "类型：",
				GenreHint:      "action, -nsfw, romance",
				FilterSummary:  "包含 %s | 排除 %s",
				AltTitlesTitle: "其他标题",
				AltTitlesHint:  "esc 关闭",
				NoRating:       "-",
				OpenLinkFailed: "无法打开链接：%s",
				HelpKeys:       "←/→ 分区 • t 类型 • s 排序 • / 筛选 • g 类型标签 • r 重置 • [/] 翻页 • enter 详情 • a 其他标题 • o/1-5 打开链接 • f1-f3 标签页 • q 退出",
				FilterHelpKeys: "enter 应用 • esc 取消 • -类型 表示排除",
				PickerHelpKeys: "space/enter 切换 包含/排除/无 • / 搜索 • esc 关闭",
				IncludedLabel:  "包含",
				ExcludedLabel:  "排除",
				TypeLabel:      "类型",
				SortLabel:      "排序",
			},
			Add: AddStrings{
				ExternalTab: "外部 ID",
				ManualTab:   "手动添加",
				FieldLabels: map[string]string{
					"mu":          "MangaUpdates",
					"dex":         "MangaDex",
					"mal":         "MyAnimeList",
					"bato":        "Bato.to",
					"line":        "LINE Webtoon",
					"title":       "标题",
					"alt_titles":  "其他标题",
					"type":        "类型",
					"status":      "状态",
					"year":        "年份",
					"description": "简介",
					"vol_ch":      "卷/话",
					"is_md":       "Markdown",
					"genres":      "类型标签",
					"authors":     "作者",
					"thumbnail":   "封面链接",
				},
				StatusNames: map[string]string{
					"plan-to":   "计划阅读",
					"reading":   "在读",
					"completed": "已读完",
					"one-shot":  "短篇",
					"dropped":   "弃坑",
					"on-hold":   "搁置",
					"ongoing":   "连载中",
				},
				NoIDs:          "请至少填写一个外部 ID",
				Fetching:       "正在获取…",
				FetchOK:        "作品数据获取成功！请检查并编辑。",
				FetchFailed:    "获取作品数据失败",
				Submitting:     "正在提交…",
				Added:          "作品添加成功！",
				ExistsTemplate: "作品已存在。%s",
				AddFailed:      "添加作品失败",
				NetworkTmpl:    "网络错误：%s",
				RequiredTmpl:   "%s 为必填项",
				InvalidYear:    "年份必须是数字",
				InvalidIDTmpl:  "%s 必须是数字",
				HelpKeys:       "tab/shift+tab 切换字段 • enter 按 ID 获取 • ctrl+s 提交 • ctrl+t 切换方式 • space/←/→ 切换选项 • esc 返回",
			},
			Settings: SettingsStrings{
				FieldLabels: map[string]string{
					"main_rating":            "主要评分来源",
					"title_languages":        "标题语言",
					"password":               "应用密码",
					"mu_integration":         "启用 MangaUpdates",
					"mu_username":            "用户名",
					"mu_password":            "密码",
					"mu_automation":          "自动同步",
					"dex_integration":        "启用 MangaDex",
					"dex_username":           "用户名",
					"dex_password":           "密码",
					"dex_client_id":          "Client ID",
					"dex_secret":             "Client Secret",
					"dex_integration_forced": "强制使用 MangaDex",
					"dex_automation":         "自动同步",
					"mal_integration":        "启用 MyAnimeList",
					"mal_client_id":          "Client ID",
					"mal_automation":         "自动同步",
				},
				GroupNames: map[string]string{
					"general": "通用",
					"mu":      "MangaUpdates",
					"dex":     "MangaDex",
					"mal":     "MyAnimeList",
				},
				LanguageLabel: "界面语言",
				LanguageNames: map[Locale]string{
					LocaleChinese: "简体中文",
					LocaleEnglish: "English",
				},
				Loading:          "正在加载设置…",
				LoadFailed:       "加载设置失败",
				Saving:           "正在保存…",
				Saved:            "设置已保存！",
				SaveFailed:       "保存设置失败",
				FixFields:        "请修正标出的字段",
				Stored:           "（已保存）",
				Required:         "必填",
				InvalidLanguages: "使用逗号分隔的两位小写语言代码，例如 en,ja",
				InvalidClientID:  "应为 32 位十六进制字符",
				InvalidListID:    "必须是非负整数",
				SaveConfigFailed: "保存配置失败",
				HelpKeys:         "tab/↑/↓ 切换字段 • space 切换 • ctrl+s 保存 • ctrl+r 还原 • esc 返回",
			},
			Login: LoginStrings{
				Title:       "登录",
				Placeholder: "密码",
				Failed:      "登录失败",
				Connection:  "连接错误，请重试。",
				LoggingIn:   "正在登录…",
				HelpKeys:    "enter 登录 • ctrl+c 退出",
			},
			Common: CommonStrings{
				UnknownState: "未知状态",
				Yes:          "是",
				No:           "否",
			},
		},
		LocaleEnglish: {
			Tabs: TabsStrings{
				List:     "List",
				Add:      "Add",
				Settings: "Settings",
			},
			List: ListStrings{
				SectionNames: map[string]string{
					"":          "All",
					"plan-to":   "Plan to Read",
					"reading":   "Reading",
					"completed": "Completed",
					"one-shots": "One-shots",
					"on-hold":   "On hold",
					"dropped":   "Dropped",
					"ongoing":   "Ongoing",
				},
				TypeNames: map[string]string{
					"all":    "All",
					"manga":  "Manga",
					"manhwa": "Manhwa",
					"manhua": "Manhua",
					"novel":  "Novel",
					"minor":  "Minor",
				},
				SortNames: map[string]string{
					"":       "Default",
					"title":  "Title",
					"rating": "Rating",
					"added":  "Date added",
				},
				Loading:        "Loading…",
				NoSeries:       "No series found",
				ErrorTemplate:  "Error loading data: %s",
				ErrorGeneric:   "Error loading data",
				PageTemplate:   "Page %d",
				GenrePrompt:    "Genres: ",
				GenreHint:      "action, -nsfw, romance",
				FilterSummary:  "included %s | excluded %s",
				AltTitlesTitle: "Alternative Titles",
				AltTitlesHint:  "esc to close",
				NoRating:       "-",
				OpenLinkFailed: "Could not open link: %s",
				HelpKeys:       "←/→ section • t type • s sort • / filter • g genres • r reset • [/] page • enter details • a alt titles • o/1-5 open link • f1-f3 tabs • q quit",
				FilterHelpKeys: "enter apply • esc cancel • prefix a genre with - to exclude it",
				PickerHelpKeys: "space/enter cycle included/excluded/none • / search • esc close",
				IncludedLabel:  "Included",
				ExcludedLabel:  "Excluded",
				TypeLabel:      "Type",
				SortLabel:      "Sort",
			},
			Add: AddStrings{
				ExternalTab: "External IDs",
				ManualTab:   "Manual entry",
				FieldLabels: map[string]string{
					"mu":          "MangaUpdates",
					"dex":         "MangaDex",
					"mal":         "MyAnimeList",
					"bato":        "Bato.to",
					"line":        "LINE Webtoon",
					"title":       "Title",
					"alt_titles":  "Alt titles",
					"type":        "Type",
					"status":      "Status",
					"year":        "Year",
					"description": "Description",
					"vol_ch":      "Vol/Ch",
					"is_md":       "Markdown",
					"genres":      "Genres",
					"authors":     "Authors",
					"thumbnail":   "Thumbnail URL",
				},
				StatusNames: map[string]string{
					"plan-to":   "Plan to Read",
					"reading":   "Reading",
					"completed": "Completed",
					"one-shot":  "One-shot",
					"dropped":   "Dropped",
					"on-hold":   "On Hold",
					"ongoing":   "Ongoing",
				},
				NoIDs:          "Please enter at least one external ID",
				Fetching:       "Fetching…",
				FetchOK:        "Series data fetched successfully! Review and edit as needed.",
				FetchFailed:    "Failed to fetch series data",
				Submitting:     "Submitting…",
				Added:          "Series added successfully!",
				ExistsTemplate: "Series already exists. %s",
				AddFailed:      "Failed to add series",
				NetworkTmpl:    "Network error: %s",
				RequiredTmpl:   "%s is required",
				InvalidYear:    "Year must be a number",
				InvalidIDTmpl:  "%s must be a number",
				HelpKeys:       "tab/shift+tab field • enter on an ID fetches • ctrl+s submit • ctrl+t switch mode • space/←/→ change option • esc back",
			},
			Settings: SettingsStrings{
				FieldLabels: map[string]string{
					"main_rating":            "Main rating",
					"title_languages":        "Title languages",
					"password":               "App password",
					"mu_integration":         "Enable MangaUpdates",
					"mu_username":            "Username",
					"mu_password":            "Password",
					"mu_automation":          "Automation",
					"dex_integration":        "Enable MangaDex",
					"dex_username":           "Username",
					"dex_password":           "Password",
					"dex_client_id":          "Client ID",
					"dex_secret":             "Client secret",
					"dex_integration_forced": "Force MangaDex",
					"dex_automation":         "Automation",
					"mal_integration":        "Enable MyAnimeList",
					"mal_client_id":          "Client ID",
					"mal_automation":         "Automation",
				},
				GroupNames: map[string]string{
					"general": "General",
					"mu":      "MangaUpdates",
					"dex":     "MangaDex",
					"mal":     "MyAnimeList",
				},
				LanguageLabel: "Interface language",
				LanguageNames: map[Locale]string{
					LocaleChinese: "简体中文",
					LocaleEnglish: "English",
				},
				Loading:          "Loading settings…",
				LoadFailed:       "Failed to load settings",
				Saving:           "Saving…",
				Saved:            "Settings saved successfully!",
				SaveFailed:       "Failed to save settings",
				FixFields:        "Please fix the highlighted fields",
				Stored:           "(stored)",
				Required:         "Required",
				InvalidLanguages: "Use comma separated two letter codes, e.g. en,ja",
				InvalidClientID:  "Must be 32 hexadecimal characters",
				InvalidListID:    "Must be a non-negative integer",
				SaveConfigFailed: "Failed to save config",
				HelpKeys:         "tab/↑/↓ field • space toggle • ctrl+s save • ctrl+r revert • esc back",
			},
			Login: LoginStrings{
				Title:       "Log in",
				Placeholder: "Password",
				Failed:      "Login failed",
				Connection:  "Connection error. Please try again.",
				LoggingIn:   "Logging in…",
				HelpKeys:    "enter log in • ctrl+c quit",
			},
			Common: CommonStrings{
				UnknownState: "Unknown state",
				Yes:          "yes",
				No:           "no",
			},
		},
	}

	availableLocales = []Locale{
		LocaleEnglish,
		LocaleChinese,
	}

	currentLocale = LocaleEnglish
	current       = translations[currentLocale]
)

func AvailableLocales() []Locale {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Locale, len(availableLocales))
	copy(out, availableLocales)
	return out
}

func SetLocale(loc Locale) bool {
	mu.Lock()
	defer mu.Unlock()
	strings, ok := translations[loc]
	if !ok {
		return false
	}
	currentLocale = loc
	current = strings
	return true
}

func CurrentLocale() Locale {
	mu.RLock()
	defer mu.RUnlock()
	return currentLocale
}

func Active() *Strings {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func LanguageName(loc Locale) string {
	s := Active()
	if name, ok := s.Settings.LanguageNames[loc]; ok {
		return name
	}
	return string(loc)
}

// lookup falls back to the key so a missing translation still shows something.
func lookup(m map[string]string, key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return key
}

func SectionName(status string) string { return lookup(Active().List.SectionNames, status) }

func TypeName(t string) string { return lookup(Active().List.TypeNames, t) }

func SortName(key string) string { return lookup(Active().List.SortNames, key) }

func AddFieldLabel(key string) string { return lookup(Active().Add.FieldLabels, key) }

func StatusName(status string) string { return lookup(Active().Add.StatusNames, status) }

func SettingsFieldLabel(key string) string { return lookup(Active().Settings.FieldLabels, key) }

func GroupName(key string) string { return lookup(Active().Settings.GroupNames, key) }

func PageLabel(page int) string {
	return fmt.Sprintf(Active().List.PageTemplate, page)
}

func ListError(msg string) string {
	if msg == "" {
		return Active().List.ErrorGeneric
	}
	return fmt.Sprintf(Active().List.ErrorTemplate, msg)
}

func SeriesExists(msg string) string {
	return fmt.Sprintf(Active().Add.ExistsTemplate, msg)
}

func NetworkError(err error) string {
	return fmt.Sprintf(Active().Add.NetworkTmpl, err)
}

func FieldRequired(label string) string {
	return fmt.Sprintf(Active().Add.RequiredTmpl, label)
}

func InvalidNumber(label string) string {
	return fmt.Sprintf(Active().Add.InvalidIDTmpl, label)
}

func OpenLinkFailed(err error) string {
	return fmt.Sprintf(Active().List.OpenLinkFailed, err)
}

func FilterSummary(included, excluded string) string {
	return fmt.Sprintf(Active().List.FilterSummary, included, excluded)
}
