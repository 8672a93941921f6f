// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package employee is the HR employee roster screen.
package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/erpconsole/internal/erp"
	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/store"
	"github.com/taibuivan/erpconsole/internal/platform/validate"
)

// Employment statuses.
const (
	StatusActive     = "Active"
	StatusOnLeave    = "On Leave"
	StatusTerminated = "Terminated"
	StatusProbation  = "Probation"
	StatusContract   = "Contract"
)

var statuses = []string{StatusActive, StatusOnLeave, StatusTerminated, StatusProbation, StatusContract}

// Departments offered by the employee form.
var Departments = []string{
	"Engineering", "Marketing", "Sales", "Human Resources",
	"Finance", "Operations", "Customer Support",
}

// Employee is a staff member.
type Employee struct {
	ID         string           `json:"id"`
	FirstName  string           `json:"firstName"`
	LastName   string           `json:"lastName"`
	EmployeeID string           `json:"employeeId"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone"`
	Department string           `json:"department"`
	Position   string           `json:"position"`
	HireDate   string           `json:"hireDate"`
	Status     string           `json:"status"`
	Salary     *decimal.Decimal `json:"salary,omitempty"`
	Address    string           `json:"address"`
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func (e Employee) ResourceID() string  { return e.ID }
func (e Employee) DisplayCode() string { return e.EmployeeID }

func (e Employee) Field(name string) (any, bool) {
	switch name {
	case "id":
		return e.ID, true
	case "firstName":
		return e.FirstName, true
	case "lastName":
		return e.LastName, true
	case "fullName":
		return e.FullName(), true
	case "employeeId":
		return e.EmployeeID, true
	case "email":
		return e.Email, true
	case "phone":
		return e.Phone, true
	case "department":
		return e.Department, true
	case "position":
		return e.Position, true
	case "hireDate":
		return e.HireDate, true
	case "status":
		return e.Status, true
	case "salary":
		return e.Salary, true
	case "address":
		return e.Address, true
	}
	return nil, false
}

// Screen describes the employees list.
func Screen() erp.Screen[Employee] {
	return erp.Screen[Employee]{
		Config: listctl.Config[Employee]{
			Name:         "employees",
			Label:        "Employee",
			PageSize:     8,
			SearchFields: []string{"fullName", "employeeId", "email", "department", "position"},
			Statuses:     statuses,
			Columns: []listctl.Column{
				{Field: "id", Header: "Internal ID"},
				{Field: "employeeId", Header: "Employee ID"},
				{Field: "firstName", Header: "First Name"},
				{Field: "lastName", Header: "Last Name"},
				{Field: "email", Header: "Email"},
				{Field: "phone", Header: "Phone"},
				{Field: "department", Header: "Department"},
				{Field: "position", Header: "Position"},
				{Field: "hireDate", Header: "Hire Date"},
				{Field: "status", Header: "Status"},
			},
			FilenameBase: "employees_list",
		},
		Kind: store.Kind[Employee]{
			Name:  "employees",
			Label: "Employee",
			Seed:  seed,
			Assign: func(input Employee, seq int, now time.Time) (Employee, error) {
				if input.HireDate == "" {
					input.HireDate = store.Today(now)
				}
				if input.Status == "" {
					input.Status = StatusActive
				}
				if err := check(input); err != nil {
					return Employee{}, err
				}
				input.ID = store.ID("emp", seq)
				return input, nil
			},
			Revise: func(_, after Employee, _ time.Time) (Employee, error) {
				return after, check(after)
			},
		},
	}
}

func check(e Employee) error {
	validator := &validate.Validator{}
	validator.
		Required("firstName", e.FirstName).
		Required("lastName", e.LastName).
		Required("employeeId", e.EmployeeID).
		Email("email", e.Email).
		OneOf("department", e.Department, Departments...).
		Required("position", e.Position).
		Required("hireDate", e.HireDate).
		OneOf("status", e.Status, statuses...).
		Custom("salary", e.Salary != nil && e.Salary.IsNegative(), "Salary cannot be negative.")
	return validator.Err()
}

func salary(amount int64) *decimal.Decimal {
	d := decimal.NewFromInt(amount)
	return &d
}

var seed = []Employee{
	{ID: "emp001", FirstName: "John", LastName: "Doe", EmployeeID: "E-1001", Email: "john.doe@erpconsole.dev", Phone: "555-0201", Department: "Operations", Position: "Manager", HireDate: "2019-06-03", Status: StatusActive, Salary: salary(98000), Address: "12 Elm St, Anytown"},
	{ID: "emp002", FirstName: "Jane", LastName: "Smith", EmployeeID: "E-1002", Email: "jane.smith@erpconsole.dev", Phone: "555-0202", Department: "Human Resources", Position: "HR Specialist", HireDate: "2020-02-17", Status: StatusActive, Salary: salary(67000), Address: "48 Oak Ave, Anytown"},
	{ID: "emp003", FirstName: "Robert", LastName: "Johnson", EmployeeID: "E-1003", Email: "robert.johnson@erpconsole.dev", Phone: "555-0203", Department: "Sales", Position: "Sales Rep", HireDate: "2021-09-01", Status: StatusActive, Salary: salary(58000), Address: "7 Pine Rd, Anytown"},
	{ID: "emp004", FirstName: "Emily", LastName: "Davis", EmployeeID: "E-1004", Email: "emily.davis@erpconsole.dev", Phone: "555-0204", Department: "Finance", Position: "Accountant", HireDate: "2022-11-14", Status: StatusOnLeave, Salary: salary(72000), Address: "301 Birch Blvd, Anytown"},
}
