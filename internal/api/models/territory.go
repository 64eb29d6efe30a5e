package models

// Territory is the API view of a claimed territory.
type Territory struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"ownerId"`
	Vertices         []Point   `json:"vertices"`
	AreaSquareMeters float64   `json:"areaSquareMeters"`
	ClaimedAt        Timestamp `json:"claimedAt"`
}

// TerritoryList is a list of active territories.
type TerritoryList struct {
	Items []Territory `json:"items"`
	Count int         `json:"count"`
}
