package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a value object representing a shipping destination.
// It is immutable - all operations return new Address instances.
// Every field is required: an order cannot ship without a complete address.
type Address struct {
	street     string
	city       string
	region     string
	postalCode string
	country    string
}

// NewAddress creates a new Address. All five fields are required and
// must be non-blank after trimming.
func NewAddress(street, city, region, postalCode, country string) (Address, error) {
	addr := Address{
		street:     strings.TrimSpace(street),
		city:       strings.TrimSpace(city),
		region:     strings.TrimSpace(region),
		postalCode: strings.TrimSpace(postalCode),
		country:    strings.TrimSpace(country),
	}

	if err := addr.validate(); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// MustNewAddress creates a new Address, panics on error. Test helper.
func MustNewAddress(street, city, region, postalCode, country string) Address {
	addr, err := NewAddress(street, city, region, postalCode, country)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress returns an empty address (zero value)
func EmptyAddress() Address {
	return Address{}
}

func (a Address) validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"street", a.street, 200},
		{"city", a.city, 100},
		{"region", a.region, 100},
		{"postal code", a.postalCode, 20},
		{"country", a.country, 100},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%s cannot be empty", f.name)
		}
		if len(f.value) > f.max {
			return fmt.Errorf("%s cannot exceed %d characters", f.name, f.max)
		}
	}
	return nil
}

// Street returns the street line
func (a Address) Street() string {
	return a.street
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// Region returns the state/province/region
func (a Address) Region() string {
	return a.region
}

// PostalCode returns the postal code
func (a Address) PostalCode() string {
	return a.postalCode
}

// Country returns the country
func (a Address) Country() string {
	return a.country
}

// IsEmpty returns true if the address has no fields set
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// FullAddress returns the complete formatted address string
func (a Address) FullAddress() string {
	if a.IsEmpty() {
		return ""
	}
	return strings.Join([]string{a.street, a.city, a.region, a.postalCode, a.country}, ", ")
}

// String returns a string representation of the address
func (a Address) String() string {
	return a.FullAddress()
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a == other
}

// addressJSON is used for JSON marshaling/unmarshaling
type addressJSON struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Street:     a.street,
		City:       a.city,
		Region:     a.region,
		PostalCode: a.postalCode,
		Country:    a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler. An all-blank payload yields
// EmptyAddress so optional address columns can round-trip.
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	if v.Street == "" && v.City == "" && v.Region == "" && v.PostalCode == "" && v.Country == "" {
		*a = EmptyAddress()
		return nil
	}

	addr, err := NewAddress(v.Street, v.City, v.Region, v.PostalCode, v.Country)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Value implements driver.Valuer for database storage as a JSON column
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = EmptyAddress()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = EmptyAddress()
		return nil
	}

	return json.Unmarshal(data, a)
}
