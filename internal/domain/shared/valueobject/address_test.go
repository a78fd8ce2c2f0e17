package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("valid address", func(t *testing.T) {
		addr, err := NewAddress("1 Main St", "Springfield", "IL", "62701", "USA")
		require.NoError(t, err)
		assert.Equal(t, "1 Main St", addr.Street())
		assert.Equal(t, "Springfield", addr.City())
		assert.Equal(t, "IL", addr.Region())
		assert.Equal(t, "62701", addr.PostalCode())
		assert.Equal(t, "USA", addr.Country())
	})

	t.Run("trims whitespace", func(t *testing.T) {
		addr, err := NewAddress("  1 Main St  ", " Springfield ", " IL ", " 62701 ", " USA ")
		require.NoError(t, err)
		assert.Equal(t, "1 Main St", addr.Street())
		assert.Equal(t, "USA", addr.Country())
	})

	t.Run("every field is required", func(t *testing.T) {
		cases := []struct {
			name                                   string
			street, city, region, postal, country string
		}{
			{"missing street", "", "Springfield", "IL", "62701", "USA"},
			{"missing city", "1 Main St", "", "IL", "62701", "USA"},
			{"missing region", "1 Main St", "Springfield", "", "62701", "USA"},
			{"missing postal code", "1 Main St", "Springfield", "IL", "", "USA"},
			{"missing country", "1 Main St", "Springfield", "IL", "62701", ""},
			{"blank street", "   ", "Springfield", "IL", "62701", "USA"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewAddress(tc.street, tc.city, tc.region, tc.postal, tc.country)
				assert.Error(t, err)
			})
		}
	})
}

func TestAddress_FullAddress(t *testing.T) {
	addr := MustNewAddress("1 Main St", "Springfield", "IL", "62701", "USA")
	assert.Equal(t, "1 Main St, Springfield, IL, 62701, USA", addr.FullAddress())
	assert.Equal(t, "", EmptyAddress().FullAddress())
}

func TestAddress_JSONRoundTrip(t *testing.T) {
	addr := MustNewAddress("1 Main St", "Springfield", "IL", "62701", "USA")

	data, err := json.Marshal(addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, addr.Equals(decoded))
}

func TestAddress_Scan(t *testing.T) {
	t.Run("nil yields empty address", func(t *testing.T) {
		var addr Address
		require.NoError(t, addr.Scan(nil))
		assert.True(t, addr.IsEmpty())
	})

	t.Run("json bytes", func(t *testing.T) {
		var addr Address
		require.NoError(t, addr.Scan([]byte(`{"street":"1 Main St","city":"Springfield","region":"IL","postal_code":"62701","country":"USA"}`)))
		assert.Equal(t, "Springfield", addr.City())
	})

	t.Run("incomplete json is rejected", func(t *testing.T) {
		var addr Address
		err := addr.Scan([]byte(`{"street":"1 Main St"}`))
		assert.Error(t, err)
	})
}
