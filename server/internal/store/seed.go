package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/honeyraes/honeyraes/pkg/types"
)

// Seed is the initial content of a Store.
type Seed struct {
	Customers []types.Customer      `yaml:"customers"`
	Employees []types.Employee      `yaml:"employees"`
	Tickets   []types.ServiceTicket `yaml:"service_tickets"`
}

// DefaultSeed returns the built-in shop data.
func DefaultSeed() Seed {
	return Seed{
		Customers: []types.Customer{
			{ID: 0, Name: "John Doe", Address: "123 Main St Nashville, TN 37011"},
			{ID: 1, Name: "John Smith", Address: "234 Fessler Lane Nashville, TN 37012"},
			{ID: 2, Name: "Jane Jones", Address: "535 Bell Road Antioch TN 37013"},
		},
		Employees: []types.Employee{
			{ID: 0, Name: "Sandy Monroe", Specialty: "Internal Combustion"},
			{ID: 1, Name: "Mike Smith", Specialty: "Electrical"},
		},
		Tickets: []types.ServiceTicket{
			{ID: 0, CustomerID: 0, EmployeeID: types.IntPtr(0), Description: "Car is rattling", DateCompleted: "02/02/2023"},
			{ID: 1, CustomerID: 1, EmployeeID: types.IntPtr(1), Description: "Battery won't charge", Emergency: true, DateCompleted: "05/03/2023"},
			{ID: 2, CustomerID: 2, EmployeeID: types.IntPtr(0), Description: "Break light out", DateCompleted: "07/11/2023"},
			{ID: 3, CustomerID: 0, EmployeeID: types.IntPtr(1), Description: "Engine light on", DateCompleted: "09/12/2023"},
			{ID: 4, CustomerID: 1, EmployeeID: types.IntPtr(0), Description: "Dashboard lights out", Emergency: true, DateCompleted: "01/15/2024"},
		},
	}
}

// LoadSeed reads a Seed from the YAML file at path.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("seed: read %q: %w", path, err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("seed: parse yaml: %w", err)
	}
	if err := validateSeed(seed); err != nil {
		return Seed{}, fmt.Errorf("seed %q: %w", path, err)
	}
	return seed, nil
}

// validateSeed rejects duplicate ids within a collection.
func validateSeed(seed Seed) error {
	seen := make(map[int]bool)
	for _, c := range seed.Customers {
		if seen[c.ID] {
			return fmt.Errorf("duplicate customer id %d", c.ID)
		}
		seen[c.ID] = true
	}
	clear(seen)
	for _, e := range seed.Employees {
		if seen[e.ID] {
			return fmt.Errorf("duplicate employee id %d", e.ID)
		}
		seen[e.ID] = true
	}
	clear(seen)
	for _, t := range seed.Tickets {
		if seen[t.ID] {
			return fmt.Errorf("duplicate service ticket id %d", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}
