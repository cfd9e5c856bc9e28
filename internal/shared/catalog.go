package shared

// Genre is a browsable catalog genre with its display colour.
type Genre struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Genres are the genres offered as gallery filters, in display order.
var Genres = []Genre{
	{"Action", "#ef4444"},
	{"Adventure", "#f97316"},
	{"Comedy", "#eab308"},
	{"Drama", "#8b5cf6"},
	{"Fantasy", "#6e2cf4"},
	{"Horror", "#dc2626"},
	{"Mecha", "#64748b"},
	{"Music", "#ec4899"},
	{"Mystery", "#a855f7"},
	{"Psychological", "#7c3aed"},
	{"Romance", "#f472b6"},
	{"Sci-Fi", "#0ea5e9"},
	{"Slice of Life", "#10b981"},
	{"Sports", "#22c55e"},
	{"Supernatural", "#c026d3"},
	{"Thriller", "#b91c1c"},
}

// DefaultTags is the tag set a fresh installation is seeded with.
var DefaultTags = []Tag{
	{Name: "emotional", Category: TagCategoryMood, Color: "#e11d8f"},
	{Name: "hype", Category: TagCategoryMood, Color: "#f97316"},
	{Name: "wholesome", Category: TagCategoryMood, Color: "#10b981"},
	{Name: "dark", Category: TagCategoryMood, Color: "#6366f1"},
	{Name: "melancholic", Category: TagCategoryMood, Color: "#8b5cf6"},
	{Name: "funny", Category: TagCategoryMood, Color: "#eab308"},
	{Name: "tense", Category: TagCategoryMood, Color: "#ef4444"},
	{Name: "peaceful", Category: TagCategoryMood, Color: "#06b6d4"},

	{Name: "sakura", Category: TagCategoryVisual, Color: "#f9a8d4"},
	{Name: "rain", Category: TagCategoryVisual, Color: "#60a5fa"},
	{Name: "sunset", Category: TagCategoryVisual, Color: "#fb923c"},
	{Name: "night sky", Category: TagCategoryVisual, Color: "#818cf8"},
	{Name: "ocean", Category: TagCategoryVisual, Color: "#0ea5e9"},
	{Name: "snow", Category: TagCategoryVisual, Color: "#e0f2fe"},
	{Name: "forest", Category: TagCategoryVisual, Color: "#4ade80"},
	{Name: "city lights", Category: TagCategoryVisual, Color: "#fbbf24"},

	{Name: "fight scene", Category: TagCategoryTheme, Color: "#ef4444"},
	{Name: "confession", Category: TagCategoryTheme, Color: "#f472b6"},
	{Name: "sacrifice", Category: TagCategoryTheme, Color: "#a78bfa"},
	{Name: "reunion", Category: TagCategoryTheme, Color: "#34d399"},
	{Name: "flashback", Category: TagCategoryTheme, Color: "#94a3b8"},
	{Name: "power-up", Category: TagCategoryTheme, Color: "#fbbf24"},
	{Name: "farewell", Category: TagCategoryTheme, Color: "#818cf8"},
}
