package gmaps

// Selectors are the XPath expressions used against the Maps UI. Row-scoped
// selectors start with "." so that they resolve relative to the listing row.
type Selectors struct {
	Listing     string
	Name        string
	Address     string
	Website     string
	PhoneNumber string
	Reviews     string
}

// DefaultSelectors match the English Maps UI.
var DefaultSelectors = Selectors{
	Listing:     `//a[contains(@href, "https://www.google.com/maps/place")]`,
	Name:        `//div[@role="main"]//h1 | //div[contains(@class, "fontHeadlineSmall")]`,
	Address:     `//button[@data-item-id="address"]//div[contains(@class, "fontBodyMedium")]`,
	Website:     `//a[@data-item-id="authority"]//div[contains(@class, "fontBodyMedium")]`,
	PhoneNumber: `//button[contains(@data-item-id, "phone:tel:")]//div[contains(@class, "fontBodyMedium")]`,
	Reviews:     `.//span[@role="img"]`,
}
