package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer_EmptyCollections(t *testing.T) {
	c := NewCustomer("1", "Jane Doe", "555-0100", nil, "")

	assert.Equal(t, []string{}, c.PreferredStyles)
	assert.Empty(t, c.ServiceHistory)
	assert.Nil(t, c.LastVisit())

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","name":"Jane Doe","phoneNumber":"555-0100","preferredStyles":[],"serviceHistory":[],"notes":""}`, string(data))
}

func TestAddServiceVisit(t *testing.T) {
	c := NewCustomer("1", "Jane Doe", "555-0100", []string{"Bob"}, "")
	before := time.Now().UTC().Truncate(time.Microsecond)

	c.AddServiceVisit(NewServiceVisit([]string{"Haircut"}, "first"))
	c.AddServiceVisit(NewServiceVisit([]string{"Color"}, "second"))

	require.Len(t, c.ServiceHistory, 2)
	last := c.LastVisit()
	require.NotNil(t, last)
	assert.Equal(t, "second", last.Notes)
	assert.False(t, last.Date.Before(before))
}

func TestMutators(t *testing.T) {
	c := NewCustomer("1", "Jane Doe", "555-0100", []string{"Bob"}, "old")

	c.UpdatePreferredStyles([]string{"Pixie", "Fade"})
	c.UpdateNotes("prefers mornings")

	assert.Equal(t, []string{"Pixie", "Fade"}, c.PreferredStyles)
	assert.Equal(t, "prefers mornings", c.Notes)
}

func TestClone_DoesNotShareSlices(t *testing.T) {
	c := NewCustomer("1", "Jane Doe", "555-0100", []string{"Bob"}, "")
	c.AddServiceVisit(NewServiceVisit([]string{"Haircut"}, ""))

	cp := c.Clone()
	cp.PreferredStyles[0] = "Changed"
	cp.ServiceHistory[0].ServicesTaken[0] = "Changed"
	cp.AddServiceVisit(NewServiceVisit(nil, ""))

	assert.Equal(t, "Bob", c.PreferredStyles[0])
	assert.Equal(t, "Haircut", c.ServiceHistory[0].ServicesTaken[0])
	assert.Len(t, c.ServiceHistory, 1)
}
