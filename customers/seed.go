package customers

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stokaro/schemaroute/session"
)

// Seeder inserts a first customer into tenants that have none.
type Seeder struct{}

// Seed implements tenantmigrator.Seeder. Names are prefixed with the upper-cased
// tenant so every tenant's data is recognisable.
func (Seeder) Seed(ctx context.Context, s *session.Session) error {
	n, err := s.Count(ctx, Customer{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	name := s.Tenant()
	if name == "" {
		name = s.Schema()
	}
	prefix := cases.Upper(language.Und).String(name) + " "

	customer := &Customer{
		FirstName: prefix + "John",
		LastName:  prefix + "Doe",
	}
	if err := s.Insert(ctx, customer); err != nil {
		return fmt.Errorf("failed to seed customer: %w", err)
	}

	s.Logger().InfoContext(ctx, "Seeded customer", "firstName", customer.FirstName, "lastName", customer.LastName)
	return nil
}
