package domain

import (
	"fmt"
	"strings"
)

// BusinessContext describes a business and its audience.
//
// JSON names follow the form fields posted by the web client, which is why
// the business name travels as "website".
type BusinessContext struct {
	// BusinessName is the name of the business (required).
	BusinessName string `json:"website"`

	// WebsiteURL is optional; when set, extracted site data may be appended
	// to AdditionalContext before generation.
	WebsiteURL string `json:"websiteUrl,omitempty"`

	// ICA is the ideal-customer description (required).
	ICA string `json:"ica"`

	// Services describes services/products (required).
	Services string `json:"services"`

	// KeyTransformation is the before/after statement (required).
	KeyTransformation string `json:"keyTransformation"`

	// TopPerformingContent lists prior top-performing titles (optional).
	TopPerformingContent string `json:"topPerformingBlogs,omitempty"`

	// AdditionalContext is free-text audience context (optional).
	AdditionalContext string `json:"additionalContext,omitempty"`

	// UserName and UserEmail are the captured lead (optional).
	UserName  string `json:"userName,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`
}

// HasLead reports whether both a name and an email were supplied.
func (c BusinessContext) HasLead() bool {
	return strings.TrimSpace(c.UserName) != "" && strings.TrimSpace(c.UserEmail) != ""
}

// WithoutLead returns a copy with the lead fields cleared.
func (c BusinessContext) WithoutLead() BusinessContext {
	c.UserName = ""
	c.UserEmail = ""
	return c
}

// WithAdditionalContext returns a copy with extra appended to AdditionalContext.
func (c BusinessContext) WithAdditionalContext(extra string) BusinessContext {
	c.AdditionalContext += extra
	return c
}

// Validate checks that every required field is non-empty.
// The core never calls it; it backs the form-facing API only.
func (c BusinessContext) Validate() error {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"website", c.BusinessName},
		{"ica", c.ICA},
		{"services", c.Services},
		{"keyTransformation", c.KeyTransformation},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

// WebsiteData is what the website metadata collaborator returns.
type WebsiteData struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Author      string `json:"author,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
	Date        string `json:"date,omitempty"`
	Lang        string `json:"lang,omitempty"`
	Logo        string `json:"logo,omitempty"`
	URL         string `json:"url,omitempty"`
	ContentText string `json:"contentText,omitempty"`
}
