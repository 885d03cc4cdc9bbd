package orgunit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func lookupFrom(units ...OrgUnit) Lookup {
	byID := make(map[string]OrgUnit, len(units))
	for _, u := range units {
		byID[u.ID] = u
	}
	return func(_ context.Context, id string) (OrgUnit, error) {
		u, ok := byID[id]
		if !ok {
			return OrgUnit{}, ErrOrgUnitNotFound
		}
		return u, nil
	}
}

func TestResolveApprover(t *testing.T) {
	ctx := context.Background()
	get := lookupFrom(
		OrgUnit{ID: "company", ManagerEmployeeID: ptr("ceo")},
		OrgUnit{ID: "eng", ParentID: ptr("company"), ManagerEmployeeID: ptr("cto")},
		OrgUnit{ID: "backend", ParentID: ptr("eng")},
		OrgUnit{ID: "orphan"},
	)

	tests := []struct {
		name     string
		employee string
		unit     *string
		want     string
		wantErr  error
	}{
		{name: "unit manager approves", employee: "dev", unit: ptr("eng"), want: "cto"},
		{name: "unit without manager walks up", employee: "dev", unit: ptr("backend"), want: "cto"},
		{name: "manager of own unit walks up", employee: "cto", unit: ptr("eng"), want: "ceo"},
		{name: "top manager has no approver", employee: "ceo", unit: ptr("company"), wantErr: ErrNoApproverConfigured},
		{name: "no unit", employee: "dev", wantErr: ErrNoApproverConfigured},
		{name: "unit without any manager", employee: "dev", unit: ptr("orphan"), wantErr: ErrNoApproverConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveApprover(ctx, get, tt.employee, tt.unit)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveApprover_Cycle(t *testing.T) {
	get := lookupFrom(
		OrgUnit{ID: "a", ParentID: ptr("b")},
		OrgUnit{ID: "b", ParentID: ptr("a")},
	)
	_, err := ResolveApprover(context.Background(), get, "dev", ptr("a"))
	assert.ErrorIs(t, err, ErrParentCycle)
}

func TestCheckParent(t *testing.T) {
	ctx := context.Background()
	get := lookupFrom(
		OrgUnit{ID: "company"},
		OrgUnit{ID: "eng", ParentID: ptr("company")},
		OrgUnit{ID: "backend", ParentID: ptr("eng")},
	)

	assert.NoError(t, CheckParent(ctx, get, "backend", "company"))
	assert.ErrorIs(t, CheckParent(ctx, get, "eng", "eng"), ErrParentCycle)
	assert.ErrorIs(t, CheckParent(ctx, get, "eng", "backend"), ErrParentCycle)
	assert.ErrorIs(t, CheckParent(ctx, get, "eng", "missing"), ErrOrgUnitNotFound)
}
