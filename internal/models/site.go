package models

// Company is the business profile printed on invoices, loaded from the [site] table of config.toml.
type Company struct {
	Name    string `json:"name" mapstructure:"name"`
	Tagline string `json:"tagline" mapstructure:"tagline"`
	Address string `json:"address" mapstructure:"address"`
	Phone   string `json:"phone" mapstructure:"phone"`
	Email   string `json:"email" mapstructure:"email"`
	GSTIN   string `json:"gstin" mapstructure:"gstin"`
	Logo    string `json:"logo" mapstructure:"logo"` // path to a PNG/JPEG drawn on PDFs
}
