package models

import (
	"time"
)

// Customer is a salon client with contact info, preferences and visit history.
type Customer struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	PhoneNumber     string         `json:"phoneNumber"`
	PreferredStyles []string       `json:"preferredStyles"`
	ServiceHistory  []ServiceVisit `json:"serviceHistory"`
	Notes           string         `json:"notes"`
}

// ServiceVisit is one dated record of services performed for a customer.
type ServiceVisit struct {
	Date          time.Time `json:"date"`
	ServicesTaken []string  `json:"servicesTaken"`
	Notes         string    `json:"notes"`
}

// NewCustomer returns a customer with an empty history. Nil style lists are
// normalised to empty ones so they encode as [] rather than null.
func NewCustomer(id, name, phoneNumber string, preferredStyles []string, notes string) Customer {
	if preferredStyles == nil {
		preferredStyles = []string{}
	}
	return Customer{
		ID:              id,
		Name:            name,
		PhoneNumber:     phoneNumber,
		PreferredStyles: preferredStyles,
		ServiceHistory:  []ServiceVisit{},
		Notes:           notes,
	}
}

// NewServiceVisit stamps a visit with the current time.
// Microsecond precision is what postgres keeps for TIMESTAMPTZ.
func NewServiceVisit(servicesTaken []string, notes string) ServiceVisit {
	if servicesTaken == nil {
		servicesTaken = []string{}
	}
	return ServiceVisit{
		Date:          time.Now().UTC().Truncate(time.Microsecond),
		ServicesTaken: servicesTaken,
		Notes:         notes,
	}
}

func (c *Customer) AddServiceVisit(visit ServiceVisit) {
	c.ServiceHistory = append(c.ServiceHistory, visit)
}

func (c *Customer) UpdatePreferredStyles(styles []string) {
	c.PreferredStyles = styles
}

func (c *Customer) UpdateNotes(notes string) {
	c.Notes = notes
}

// LastVisit returns the most recent visit, or nil if there are none.
func (c *Customer) LastVisit() *ServiceVisit {
	if len(c.ServiceHistory) == 0 {
		return nil
	}
	return &c.ServiceHistory[len(c.ServiceHistory)-1]
}

// Clone returns a deep copy that shares no slices with c.
func (c Customer) Clone() Customer {
	out := c
	out.PreferredStyles = append([]string{}, c.PreferredStyles...)
	out.ServiceHistory = make([]ServiceVisit, len(c.ServiceHistory))
	for i, v := range c.ServiceHistory {
		v.ServicesTaken = append([]string{}, v.ServicesTaken...)
		out.ServiceHistory[i] = v
	}
	return out
}
