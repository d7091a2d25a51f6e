package forms

// displayServiceToKey maps the display names shown in the services section to
// internal catalog keys. Unknown display names are dropped during resolution.
var displayServiceToKey = map[string]string{
	"SEO":                          "seo",
	"PPC":                          "ppc",
	"Social Media":                 "social",
	"Analytics and Tagging":        "analytics",
	"Website Development":          "webdev",
	"Email Marketing":              "email",
	"Conversion Rate Optimization": "cro",
	"Local SEO and Listings":       "local",
}

// CatalogEntry is one service of the static catalog.
type CatalogEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// catalog order is stable so seeding and display stay deterministic.
var catalog = []CatalogEntry{
	{Key: "seo", Label: "SEO"},
	{Key: "ppc", Label: "PPC"},
	{Key: "social", Label: "Social Media"},
	{Key: "analytics", Label: "Analytics and Tagging"},
	{Key: "webdev", Label: "Website Development"},
	{Key: "email", Label: "Email Marketing"},
	{Key: "cro", Label: "Conversion Rate Optimization"},
	{Key: "local", Label: "Local SEO and Listings"},
}

// ServiceCatalog returns the full static service catalog.
func ServiceCatalog() []CatalogEntry {
	return catalog
}

// ServiceKeyLabel returns the display label for an internal service key.
func ServiceKeyLabel(key string) string {
	for _, entry := range catalog {
		if entry.Key == key {
			return entry.Label
		}
	}
	return key
}

// ResolveServiceKeys maps display names to internal keys, silently dropping
// unknown names and duplicates while preserving order.
func ResolveServiceKeys(displayNames []string) []string {
	keys := make([]string, 0, len(displayNames))
	seen := make(map[string]bool, len(displayNames))
	for _, name := range displayNames {
		key, ok := displayServiceToKey[name]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}
