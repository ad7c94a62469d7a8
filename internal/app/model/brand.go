package model

type Brand struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	WebsiteURL  *string `json:"website_url"`
	LogoURL     *string `json:"logo_url,omitempty"`
}
