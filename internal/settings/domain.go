// Package settings holds the site wide configuration edited from the back
// office. Today that is only the price visibility toggle.
package settings

import "time"

// Settings is the singleton site configuration row.
type Settings struct {
	ShowPrices bool      `json:"showPrices"`
	UpdatedAt  time.Time `json:"updatedAt,omitempty"`
}

// Default is used when the settings row has never been written.
func Default() Settings {
	return Settings{ShowPrices: true}
}

// UpdateInput is the admin payload for PUT /api/admin/settings.
type UpdateInput struct {
	ShowPrices *bool `json:"showPrices" validate:"required"`
}
