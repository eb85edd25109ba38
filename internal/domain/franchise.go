package domain

// LocationStatusActive is the status of a location that is open for business.
const LocationStatusActive = "ACTIVE"

// Location is a Square location as returned by the Locations API.
type Location struct {
	ID            string       `json:"id"`
	Name          string       `json:"name,omitempty"`
	Status        string       `json:"status,omitempty"`
	Timezone      string       `json:"timezone,omitempty"`
	BusinessEmail string       `json:"business_email,omitempty"`
	Address       *Address     `json:"address,omitempty"`
	Coordinates   *Coordinates `json:"coordinates,omitempty"`
}

// Address is a Square postal address.
type Address struct {
	AddressLine1                 string `json:"address_line_1,omitempty"`
	AddressLine2                 string `json:"address_line_2,omitempty"`
	Locality                     string `json:"locality,omitempty"`
	AdministrativeDistrictLevel1 string `json:"administrative_district_level_1,omitempty"`
	PostalCode                   string `json:"postal_code,omitempty"`
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Franchise is the public view of a franchise location.
type Franchise struct {
	ID      string           `json:"id"`
	Name    string           `json:"name,omitempty"`
	Address FranchiseAddress `json:"address"`
	Email   string           `json:"email,omitempty"`
}

// FranchiseAddress is the postal address and position of a franchise.
type FranchiseAddress struct {
	AddressLine1 string   `json:"addressLine1,omitempty"`
	AddressLine2 string   `json:"addressLine2,omitempty"`
	City         string   `json:"city,omitempty"`
	State        string   `json:"state,omitempty"`
	PostalCode   string   `json:"postalCode,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}
