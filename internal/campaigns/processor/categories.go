package processor

// Category is a static campaign category with display metadata.
type Category struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// categories is the fixed set of campaign categories. Slugs are stored on
// campaigns; the rest is display metadata.
var categories = []Category{
	{Slug: "education", Name: "Education", Description: "Schools, scholarships and learning programs", Icon: "book"},
	{Slug: "healthcare", Name: "Healthcare", Description: "Medical treatment and public health", Icon: "heart-pulse"},
	{Slug: "disaster_relief", Name: "Disaster Relief", Description: "Response to natural disasters and emergencies", Icon: "life-ring"},
	{Slug: "environment", Name: "Environment", Description: "Conservation and sustainability projects", Icon: "leaf"},
	{Slug: "community", Name: "Community", Description: "Local infrastructure and community development", Icon: "users"},
	{Slug: "children", Name: "Children", Description: "Child welfare and protection", Icon: "child"},
	{Slug: "elderly", Name: "Elderly", Description: "Care and support for the elderly", Icon: "hand-holding-heart"},
	{Slug: "animals", Name: "Animals", Description: "Animal rescue and welfare", Icon: "paw"},
	{Slug: "other", Name: "Other", Description: "Everything else", Icon: "ellipsis"},
}

// Categories returns the static campaign category list.
func (p *CampaignProcessor) Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}
