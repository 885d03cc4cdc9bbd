package orgunit

import (
	"context"
	"errors"
)

// Lookup loads one unit of the caller's tenant.
type Lookup func(ctx context.Context, id string) (OrgUnit, error)

// ResolveApprover returns the employee who approves requests of employeeID.
// It is the manager of the employee's unit; when the employee manages that
// unit (or it has no manager) the walk continues with the parent units.
func ResolveApprover(ctx context.Context, get Lookup, employeeID string, unitID *string) (string, error) {
	seen := make(map[string]bool)
	for next := unitID; next != nil; {
		if seen[*next] {
			return "", ErrParentCycle
		}
		seen[*next] = true

		unit, err := get(ctx, *next)
		if err != nil {
			if errors.Is(err, ErrOrgUnitNotFound) {
				break
			}
			return "", err
		}
		if m := unit.ManagerEmployeeID; m != nil && *m != "" && *m != employeeID {
			return *m, nil
		}
		next = unit.ParentID
	}
	return "", ErrNoApproverConfigured
}

// CheckParent rejects moving unitID under parentID when parentID is unitID
// itself or one of its descendants.
func CheckParent(ctx context.Context, get Lookup, unitID, parentID string) error {
	seen := make(map[string]bool)
	for next := &parentID; next != nil; {
		if *next == unitID || seen[*next] {
			return ErrParentCycle
		}
		seen[*next] = true

		unit, err := get(ctx, *next)
		if err != nil {
			return err
		}
		next = unit.ParentID
	}
	return nil
}
