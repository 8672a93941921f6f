// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package customer is the CRM customer directory screen.
package customer

import (
	"strings"
	"time"

	"github.com/taibuivan/erpconsole/internal/erp"
	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/store"
	"github.com/taibuivan/erpconsole/internal/platform/validate"
)

// Customer statuses.
const (
	StatusProspect = "Prospect"
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusOnHold   = "On Hold"
	StatusLead     = "Lead"
)

var statuses = []string{StatusProspect, StatusActive, StatusInactive, StatusOnHold, StatusLead}

// Customer is a buyer, either a person or an organisation.
type Customer struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	CompanyName  string `json:"companyName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	Country      string `json:"country"`
	CustomerType string `json:"customerType"`
	Status       string `json:"status"`
	JoinedDate   string `json:"joinedDate"`
	Notes        string `json:"notes"`
	TaxID        string `json:"taxId,omitempty"`
}

// FullName joins first and last name.
func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// DisplayName is the company name, or the person's name for individuals.
func (c Customer) DisplayName() string {
	if c.CompanyName != "" {
		return c.CompanyName
	}
	return c.FullName()
}

func (c Customer) ResourceID() string  { return c.ID }
func (c Customer) DisplayCode() string { return "" }

func (c Customer) Field(name string) (any, bool) {
	switch name {
	case "id":
		return c.ID, true
	case "firstName":
		return c.FirstName, true
	case "lastName":
		return c.LastName, true
	case "fullName":
		return c.FullName(), true
	case "companyName":
		return c.CompanyName, true
	case "email":
		return c.Email, true
	case "phone":
		return c.Phone, true
	case "address":
		return c.Address, true
	case "city":
		return c.City, true
	case "state":
		return c.State, true
	case "zipCode":
		return c.ZipCode, true
	case "country":
		return c.Country, true
	case "customerType":
		return c.CustomerType, true
	case "status":
		return c.Status, true
	case "joinedDate":
		return c.JoinedDate, true
	case "notes":
		return c.Notes, true
	case "taxId":
		return c.TaxID, true
	}
	return nil, false
}

// Screen describes the customers list.
func Screen() erp.Screen[Customer] {
	return erp.Screen[Customer]{
		Config: listctl.Config[Customer]{
			Name:         "customers",
			Label:        "Customer",
			PageSize:     8,
			SearchFields: []string{"fullName", "companyName", "email", "customerType", "city"},
			Statuses:     statuses,
			Columns: []listctl.Column{
				{Field: "id", Header: "Internal ID"},
				{Field: "firstName", Header: "First Name"},
				{Field: "lastName", Header: "Last Name"},
				{Field: "companyName", Header: "Company Name"},
				{Field: "email", Header: "Email"},
				{Field: "phone", Header: "Phone"},
				{Field: "address", Header: "Address"},
				{Field: "city", Header: "City"},
				{Field: "state", Header: "State"},
				{Field: "zipCode", Header: "Zip Code"},
				{Field: "country", Header: "Country"},
				{Field: "customerType", Header: "Customer Type"},
				{Field: "status", Header: "Status"},
				{Field: "joinedDate", Header: "Joined Date"},
				{Field: "taxId", Header: "Tax ID"},
				{Field: "notes", Header: "Notes"},
			},
			FilenameBase: "customers_list",
		},
		Kind: store.Kind[Customer]{
			Name:  "customers",
			Label: "Customer",
			Seed:  seed,
			Assign: func(input Customer, seq int, now time.Time) (Customer, error) {
				if err := check(input); err != nil {
					return Customer{}, err
				}
				input.ID = store.ID("cust", seq)
				if input.JoinedDate == "" {
					input.JoinedDate = store.Today(now)
				}
				return input, nil
			},
			Revise: func(_, after Customer, _ time.Time) (Customer, error) {
				return after, check(after)
			},
		},
	}
}

func check(c Customer) error {
	const nameOrCompany = "Either First Name or Company Name is required."

	validator := &validate.Validator{}
	noName := strings.TrimSpace(c.FirstName) == "" && strings.TrimSpace(c.CompanyName) == ""
	validator.
		Custom("firstName", noName, nameOrCompany).
		Custom("companyName", noName, nameOrCompany).
		MaxLen("firstName", c.FirstName, 50).
		MaxLen("lastName", c.LastName, 50).
		MaxLen("companyName", c.CompanyName, 100).
		Email("email", c.Email).
		Required("customerType", c.CustomerType).
		OneOf("status", c.Status, statuses...)
	return validator.Err()
}

var seed = []Customer{
	{
		ID: "cust001", FirstName: "Michael", LastName: "Scott", CompanyName: "Dunder Mifflin Scranton",
		Email: "michael.scott@dundermifflin.com", Phone: "555-0101",
		Address: "1725 Slough Avenue, Scranton, PA", City: "Scranton", State: "PA", ZipCode: "18505", Country: "USA",
		CustomerType: "Corporate", Status: StatusActive, JoinedDate: "2005-03-24",
		Notes: `Loves "That's what she said" jokes. Buys a lot of paper.`, TaxID: "DM-SCRANTON-TAXID",
	},
	{
		ID: "cust002", FirstName: "Leslie", LastName: "Knope", CompanyName: "Pawnee Parks Department",
		Email: "leslie.knope@pawneeparks.gov", Phone: "555-0102",
		Address: "3500 N Liberty Dr, Pawnee, IN", City: "Pawnee", State: "IN", ZipCode: "47501", Country: "USA",
		CustomerType: "Government", Status: StatusActive, JoinedDate: "2009-04-09",
		Notes: "Very enthusiastic about binders and public service.",
	},
	{
		ID: "cust003", FirstName: "Peter", LastName: "Parker",
		Email: "spidey@dailybugle.com", Phone: "555-0103",
		Address: "20 Ingram Street, Forest Hills, Queens, NY", City: "Queens", State: "NY", ZipCode: "11375", Country: "USA",
		CustomerType: "Individual", Status: StatusProspect, JoinedDate: "2023-08-10",
		Notes: "Seems to disappear a lot. Interested in camera equipment.",
	},
	{
		ID: "cust004", FirstName: "Leia", LastName: "Organa", CompanyName: "Rebel Alliance Supplies",
		Email: "leia.o@rebelbase.org", Phone: "555-0104",
		Address: "Echo Base, Hoth System", City: "Echo Base", State: "Hoth", ZipCode: "N/A", Country: "Outer Rim",
		CustomerType: "Non-Profit/Organization", Status: StatusActive, JoinedDate: "1977-05-25",
		Notes: "Needs supplies for various outposts. Discreet shipping required.",
	},
}
