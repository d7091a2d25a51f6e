package forms

// FieldType enumerates the intake field kinds.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldTextarea    FieldType = "textarea"
	FieldEmail       FieldType = "email"
	FieldURL         FieldType = "url"
	FieldNumber      FieldType = "number"
	FieldSelect      FieldType = "select"
	FieldMultiselect FieldType = "multiselect"
	FieldCheckbox    FieldType = "checkbox"
)

// Field declares one intake question.
type Field struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required,omitempty"`
	Options  []string  `json:"options,omitempty"`
}

// Section is one logical group of intake fields.
type Section struct {
	Key    string  `json:"key"`
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// sectionStorageKey maps UI section keys to the keys used in stored response
// rows. Sections not listed map to themselves.
var sectionStorageKey = map[string]string{
	"company": "business",
}

// StorageSectionKey returns the storage key for a UI section key.
func StorageSectionKey(uiKey string) string {
	if mapped, ok := sectionStorageKey[uiKey]; ok {
		return mapped
	}
	return uiKey
}

var sections = []Section{
	{
		Key:   "company",
		Title: "Company",
		Fields: []Field{
			{Key: "company_name", Label: "Company name", Type: FieldText, Required: true},
			{Key: "website", Label: "Website", Type: FieldURL},
			{Key: "industry", Label: "Industry", Type: FieldText},
			{Key: "business_type", Label: "Business type", Type: FieldSelect,
				Options: []string{"B2B", "B2C", "B2B2C", "Marketplace", "Nonprofit"}},
			{Key: "country", Label: "Country", Type: FieldText},
			{Key: "timezone", Label: "Timezone", Type: FieldText},
		},
	},
	{
		Key:   "services",
		Title: "Services",
		Fields: []Field{
			{Key: "selected_services", Label: "Selected services", Type: FieldMultiselect, Required: true},
			{Key: "budget_range", Label: "Monthly budget range", Type: FieldSelect,
				Options: []string{"Under $2k", "$2k-$5k", "$5k-$10k", "$10k-$25k", "Over $25k"}},
			{Key: "target_start", Label: "Target start date", Type: FieldText},
		},
	},
	{
		Key:   "seo",
		Title: "SEO",
		Fields: []Field{
			{Key: "seo_goals", Label: "SEO goals", Type: FieldTextarea},
			{Key: "target_keywords", Label: "Target keywords", Type: FieldTextarea},
			{Key: "competitor_urls", Label: "Competitor URLs", Type: FieldTextarea},
			{Key: "has_existing_seo", Label: "Existing SEO engagement", Type: FieldCheckbox},
		},
	},
	{
		Key:   "ppc",
		Title: "PPC",
		Fields: []Field{
			{Key: "ppc_platforms", Label: "Advertising platforms", Type: FieldMultiselect},
			{Key: "monthly_ad_budget", Label: "Monthly ad budget", Type: FieldNumber},
			{Key: "ppc_goals", Label: "PPC goals", Type: FieldTextarea},
		},
	},
	{
		Key:   "social",
		Title: "Social Media",
		Fields: []Field{
			{Key: "social_platforms", Label: "Social platforms", Type: FieldMultiselect},
			{Key: "posting_frequency", Label: "Posting frequency", Type: FieldSelect,
				Options: []string{"Daily", "A few times a week", "Weekly", "Monthly"}},
			{Key: "social_goals", Label: "Social media goals", Type: FieldTextarea},
		},
	},
	{
		Key:   "analytics",
		Title: "Analytics and Tagging",
		Fields: []Field{
			{Key: "analytics_tools", Label: "Analytics tools in use", Type: FieldMultiselect},
			{Key: "tracking_goals", Label: "Tracking goals", Type: FieldTextarea},
			{Key: "has_tag_manager", Label: "Tag manager installed", Type: FieldCheckbox},
		},
	},
	{
		Key:   "webdev",
		Title: "Website Development",
		Fields: []Field{
			{Key: "website_platform", Label: "Website platform", Type: FieldSelect,
				Options: []string{"WordPress", "Shopify", "Webflow", "Custom", "Other"}},
			{Key: "webdev_scope", Label: "Development scope", Type: FieldTextarea},
			{Key: "needs_hosting", Label: "Needs hosting", Type: FieldCheckbox},
		},
	},
	{
		Key:   "email",
		Title: "Email Marketing",
		Fields: []Field{
			{Key: "email_platform", Label: "Email platform", Type: FieldText},
			{Key: "list_size", Label: "List size", Type: FieldNumber},
			{Key: "email_goals", Label: "Email marketing goals", Type: FieldTextarea},
		},
	},
}

// Sections returns the intake section declarations in display order.
func Sections() []Section {
	return sections
}

// FindSection returns the section declared for the given UI key.
func FindSection(uiKey string) (Section, bool) {
	for _, section := range sections {
		if section.Key == uiKey {
			return section, true
		}
	}
	return Section{}, false
}
