package rbac

import (
	"context"
	"errors"
	"testing"

	"github.com/yoiioy700/rbac-system/internal/shared"
)

type recordingAudit struct {
	calls      int
	actor      string
	action     string
	permission string
}

func (r *recordingAudit) ActionExecuted(ctx context.Context, actor, action, permission string) {
	r.calls++
	r.actor, r.action, r.permission = actor, action, permission
}

func newExecutor(roleSet Set, recorder Recorder, effect EffectFunc) *Executor {
	engine := NewEngine(
		stubAssignments{role: "worker", assigned: true},
		stubRoles{sets: map[string]Set{"worker": roleSet}},
	)
	return NewExecutor(engine, recorder, effect)
}

func TestExecuteRejectsUnknownAction(t *testing.T) {
	x := newExecutor(All(), nil, nil)
	err := x.Execute(context.Background(), "alice", Action("resource.destroy"))
	if !errors.Is(err, shared.ErrInvalidAction) {
		t.Fatalf("got %v, want ErrInvalidAction", err)
	}
}

func TestExecuteDeniedProducesNoEffect(t *testing.T) {
	audit := &recordingAudit{}
	effects := 0
	x := newExecutor(Set{PermissionRead}, audit, func(ctx context.Context, actor string, action Action) error {
		effects++
		return nil
	})

	err := x.Execute(context.Background(), "alice", ActionDeleteResource)
	if !errors.Is(err, shared.ErrPermissionDenied) {
		t.Fatalf("got %v, want ErrPermissionDenied", err)
	}
	if effects != 0 {
		t.Errorf("denied action ran its effect %d times", effects)
	}
	if audit.calls != 0 {
		t.Errorf("denied action was recorded %d times", audit.calls)
	}
}

func TestExecuteAllowedRunsEffectAndRecords(t *testing.T) {
	audit := &recordingAudit{}
	effects := 0
	x := newExecutor(Set{PermissionUpdate}, audit, func(ctx context.Context, actor string, action Action) error {
		effects++
		return nil
	})

	if err := x.Execute(context.Background(), "alice", ActionUpdateResource); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if effects != 1 {
		t.Errorf("effect ran %d times, want 1", effects)
	}
	if audit.calls != 1 || audit.actor != "alice" || audit.action != "resource.update" || audit.permission != "update" {
		t.Errorf("recorded %+v", audit)
	}
}

func TestExecuteAdminActionNeedsAdminNotCRUD(t *testing.T) {
	x := newExecutor(Set{PermissionRead, PermissionCreate, PermissionUpdate, PermissionDelete}, nil, nil)
	err := x.Execute(context.Background(), "alice", ActionAdminOperation)
	if !errors.Is(err, shared.ErrPermissionDenied) {
		t.Fatalf("got %v, want ErrPermissionDenied", err)
	}

	x = newExecutor(Set{PermissionAdmin}, nil, nil)
	if err := x.Execute(context.Background(), "alice", ActionAdminOperation); err != nil {
		t.Fatalf("admin action with admin permission: %v", err)
	}
}

func TestExecuteEffectFailureSkipsRecorder(t *testing.T) {
	audit := &recordingAudit{}
	boom := errors.New("boom")
	x := newExecutor(Set{PermissionRead}, audit, func(ctx context.Context, actor string, action Action) error {
		return boom
	})

	if err := x.Execute(context.Background(), "alice", ActionReadResource); !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	if audit.calls != 0 {
		t.Errorf("failed effect was recorded %d times", audit.calls)
	}
}
