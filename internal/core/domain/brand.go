package domain

import "errors"

var ErrBrandNotFound = errors.New("brand not found")

// ThemeColors carries the two colours every brand page is painted with.
type ThemeColors struct {
	Primary   string `json:"primary" yaml:"primary" validate:"required"`
	Secondary string `json:"secondary" yaml:"secondary" validate:"required"`
}

// Brand is one storefront of the group. Brands are loaded once at startup
// and never change afterwards.
type Brand struct {
	ID             string      `json:"id" yaml:"id" validate:"required,lowercase,alphanum"`
	DisplayName    string      `json:"display_name" yaml:"display_name" validate:"required"`
	OrganizationID string      `json:"organization_id" yaml:"organization_id" validate:"required,startswith=org_"`
	Description    string      `json:"description,omitempty" yaml:"description"`
	Theme          ThemeColors `json:"theme" yaml:"theme"`
	LogoRef        string      `json:"logo,omitempty" yaml:"logo"`
	Features       []string    `json:"features,omitempty" yaml:"features"`
}

// Organization is the identity-platform tenant that staff accounts belong to.
type Organization struct {
	Name           string `json:"name" yaml:"name" validate:"required"`
	DisplayName    string `json:"display_name" yaml:"display_name" validate:"required"`
	OrganizationID string `json:"organization_id" yaml:"organization_id" validate:"required,startswith=org_"`
}
