package types

import "time"

// RawAsset is one row of the inventory snapshot as it is stored.  JSON and
// YAML keys follow the inventory export the handhelds are provisioned with.
type RawAsset struct {
	ServiceTag string `json:"serviceTag" yaml:"serviceTag"`

	FirstName    string `json:"firstName" yaml:"firstName"`
	LastName     string `json:"lastName" yaml:"lastName"`
	JobTitle     string `json:"jobTitle" yaml:"jobTitle"`
	Department   string `json:"avyNDepartment" yaml:"avyNDepartment"`
	Company      string `json:"company" yaml:"company"`
	Email        string `json:"mail" yaml:"mail"`
	Phone        string `json:"mobile" yaml:"mobile"`
	WorkLocation string `json:"workLocationDescription" yaml:"workLocationDescription"`
	BadgeID      string `json:"badgeId" yaml:"badgeId"`

	AssetTag      string `json:"assetTag" yaml:"assetTag"`
	ModelName     string `json:"modelName" yaml:"modelName"`
	AssetType     string `json:"assetTypeName" yaml:"assetTypeName"`
	Manufacturer  string `json:"manufacturerName" yaml:"manufacturerName"`
	Area          string `json:"areaName" yaml:"areaName"`
	Observation   string `json:"observation" yaml:"observation"`
	InventoryDate string `json:"inventoryDate" yaml:"inventoryDate"` // RFC3339, date-only or unix ms
}

// AssetRecord is a parsed, immutable inventory row.
type AssetRecord struct {
	ServiceTag string

	FirstName    string
	LastName     string
	JobTitle     string
	Department   string
	Company      string
	Email        string
	Phone        string
	WorkLocation string
	BadgeID      string

	AssetTag      string
	ModelName     string
	AssetType     string
	Manufacturer  string
	Area          string
	Observation   string
	InventoryDate time.Time // zero when the snapshot had no usable date
}

// FullName joins first and last name, skipping empty parts.
func (r AssetRecord) FullName() string {
	switch {
	case r.FirstName == "":
		return r.LastName
	case r.LastName == "":
		return r.FirstName
	default:
		return r.FirstName + " " + r.LastName
	}
}
