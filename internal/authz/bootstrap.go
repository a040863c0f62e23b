package authz

import (
	"fmt"

	"github.com/storeflow/storeflow/internal/constants"
)

// RoleSeed is a builtin role definition.
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds is the platform role matrix. The landlord role owns
// everything under /admin; tenant roles are scoped by the tenant check in
// the auth middleware, so their policies only shape which endpoints each
// role may touch.
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.StaffRoleLandlord,
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
		{
			Role: constants.StaffRoleOwner,
			Policies: []Policy{
				{Object: "/admin/products", Action: "*"},
				{Object: "/admin/products/:id", Action: "*"},
				{Object: "/admin/products/:id/variants", Action: "*"},
				{Object: "/admin/products/:id/variants/:variantId", Action: "*"},
				{Object: "/admin/attributes", Action: "*"},
				{Object: "/admin/attributes/:id", Action: "*"},
				{Object: "/admin/attributes/:id/values", Action: "*"},
				{Object: "/admin/attributes/values/:valueId", Action: "*"},
				{Object: "/admin/orders", Action: "*"},
				{Object: "/admin/orders/:id", Action: "*"},
				{Object: "/admin/orders/:id/status", Action: "*"},
				{Object: "/admin/customers", Action: "*"},
				{Object: "/admin/customers/:id", Action: "*"},
				{Object: "/admin/pages", Action: "*"},
				{Object: "/admin/pages/:id", Action: "*"},
				{Object: "/admin/forms", Action: "*"},
				{Object: "/admin/forms/:id", Action: "*"},
				{Object: "/admin/forms/:id/submissions", Action: "GET"},
				{Object: "/admin/theme", Action: "*"},
				{Object: "/admin/theme/overrides", Action: "*"},
				{Object: "/admin/theme/preview", Action: "GET"},
				{Object: "/admin/themes", Action: "GET"},
				{Object: "/admin/media", Action: "*"},
				{Object: "/admin/media/:id", Action: "*"},
				{Object: "/admin/staff", Action: "*"},
				{Object: "/admin/staff/:id", Action: "*"},
				{Object: "/admin/tickets", Action: "*"},
				{Object: "/admin/tickets/:id", Action: "*"},
				{Object: "/admin/tickets/:id/reply", Action: "*"},
				{Object: "/admin/tickets/:id/close", Action: "*"},
				{Object: "/admin/tickets/:id/reopen", Action: "*"},
			},
		},
		{
			Role:     constants.StaffRoleManager,
			Inherits: []string{constants.StaffRoleSupport},
			Policies: []Policy{
				{Object: "/admin/products", Action: "*"},
				{Object: "/admin/products/:id", Action: "*"},
				{Object: "/admin/products/:id/variants", Action: "*"},
				{Object: "/admin/products/:id/variants/:variantId", Action: "*"},
				{Object: "/admin/attributes", Action: "*"},
				{Object: "/admin/attributes/:id", Action: "*"},
				{Object: "/admin/attributes/:id/values", Action: "*"},
				{Object: "/admin/attributes/values/:valueId", Action: "*"},
				{Object: "/admin/orders/:id/status", Action: "PATCH"},
				{Object: "/admin/pages", Action: "*"},
				{Object: "/admin/pages/:id", Action: "*"},
				{Object: "/admin/forms", Action: "*"},
				{Object: "/admin/forms/:id", Action: "*"},
				{Object: "/admin/theme", Action: "*"},
				{Object: "/admin/theme/overrides", Action: "*"},
				{Object: "/admin/theme/preview", Action: "GET"},
				{Object: "/admin/media", Action: "*"},
				{Object: "/admin/media/:id", Action: "*"},
			},
		},
		{
			Role: constants.StaffRoleSupport,
			Policies: []Policy{
				{Object: "/admin/products", Action: "GET"},
				{Object: "/admin/products/:id", Action: "GET"},
				{Object: "/admin/orders", Action: "GET"},
				{Object: "/admin/orders/:id", Action: "GET"},
				{Object: "/admin/customers", Action: "GET"},
				{Object: "/admin/customers/:id", Action: "GET"},
				{Object: "/admin/forms/:id/submissions", Action: "GET"},
				{Object: "/admin/themes", Action: "GET"},
				{Object: "/admin/theme", Action: "GET"},
				{Object: "/admin/tickets", Action: "*"},
				{Object: "/admin/tickets/:id", Action: "*"},
				{Object: "/admin/tickets/:id/reply", Action: "*"},
				{Object: "/admin/tickets/:id/close", Action: "*"},
				{Object: "/admin/tickets/:id/reopen", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles seeds the builtin roles and their policies.
// Seeding is idempotent; existing rules are left untouched.
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := s.EnsureRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}

// AssignStaffRole links a staff subject to one builtin role, replacing
// previous assignments.
func (s *Service) AssignStaffRole(staffID uint, role string) error {
	return s.SetStaffRoles(staffID, []string{role})
}

// EnsureStaffRole assigns a role to a staff subject that has no grouping
// yet. Accounts created outside the staff API (the seeded landlord, tenant
// owner bootstrap) get their stored role here without clobbering any
// assignment an admin made later.
func (s *Service) EnsureStaffRole(staffID uint, role string) error {
	roles, err := s.GetStaffRoles(staffID)
	if err != nil {
		return err
	}
	if len(roles) > 0 {
		return nil
	}
	return s.AssignStaffRole(staffID, role)
}
