package model

// Listing is a raw organization record from the business-listing search API.
// Only Name and Website feed the discovery core; the rest passes through to
// the export row.
type Listing struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Website string `json:"website,omitempty"`
	Phone   string `json:"phone,omitempty"`
}
