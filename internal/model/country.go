package model

import "time"

// Country is a reference-data record keyed by its ISO-style code.
type Country struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"uniqueIndex;size:3;not null"`
	Name      string    `json:"name" gorm:"size:255;not null;index"`
	Active    bool      `json:"active" gorm:"default:true;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CountryPatch carries a partial update. Only non-nil fields are applied.
type CountryPatch struct {
	Code   *string
	Name   *string
	Active *bool
}

// Changes returns the column assignments for the set fields.
func (p CountryPatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.Code != nil {
		changes["code"] = *p.Code
	}
	if p.Name != nil {
		changes["name"] = *p.Name
	}
	if p.Active != nil {
		changes["active"] = *p.Active
	}
	return changes
}
