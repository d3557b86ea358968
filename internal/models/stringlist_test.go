package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListValue(t *testing.T) {
	v, err := StringList{"English", "Spanish"}.Value()
	require.NoError(t, err)
	assert.Equal(t, "English,Spanish", v)

	v, err = StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestStringListScan(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan("English, Spanish ,French"))
	assert.Equal(t, StringList{"English", "Spanish", "French"}, l)

	// Empty column decodes to nil, not an empty-string element
	require.NoError(t, l.Scan(""))
	assert.Nil(t, l)

	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)

	require.NoError(t, l.Scan([]byte("Peanuts")))
	assert.Equal(t, StringList{"Peanuts"}, l)

	assert.Error(t, l.Scan(42))
}

func TestMedicationListRoundTrip(t *testing.T) {
	meds := MedicationList{{Name: "Amoxicillin", Dosage: "500mg", Frequency: "3x daily", Duration: "7 days"}}

	v, err := meds.Value()
	require.NoError(t, err)

	var decoded MedicationList
	require.NoError(t, decoded.Scan(v))
	assert.Equal(t, meds, decoded)

	var empty MedicationList
	require.NoError(t, empty.Scan("[]"))
	assert.Empty(t, empty)
}
