package assignment

import (
	"context"
	"testing"

	"github.com/SmartBusLink/SmartBusLink/internal/user"
	"github.com/SmartBusLink/SmartBusLink/internal/vehicle"
)

func newLedgerFixture() (*Ledger, *memStore, *memDrivers, *memVehicles) {
	store := newMemStore()
	drivers := newMemDrivers(
		&user.User{ID: "d1", UserType: user.TypeDriver, IsActive: true, DutyStatus: user.DutyAvailable},
		&user.User{ID: "d-leave", UserType: user.TypeDriver, IsActive: true, DutyStatus: user.DutyOnLeave},
	)
	vehicles := newMemVehicles(
		&vehicle.Vehicle{ID: "v1", IsActive: true, Condition: vehicle.ConditionWorkable, AssignmentStatus: vehicle.AssignmentAvailable},
	)
	return NewLedger(store, drivers, vehicles, nopLogger{}), store, drivers, vehicles
}

func TestLedgerReleaseDriverIfIdle(t *testing.T) {
	ledger, store, drivers, _ := newLedgerFixture()
	ctx := context.Background()

	if err := ledger.BindDriver(ctx, "d1", "a1"); err != nil {
		t.Fatalf("bind: %v", err)
	}
	seedAssignment(t, store, "a1", "d1", "", day("2024-06-01"), StatusAccepted)
	seedAssignment(t, store, "a2", "d1", "", day("2024-06-02"), StatusPending)

	// 还有其他活跃排班，不释放
	if err := ledger.ReleaseDriverIfIdle(ctx, "d1", "a1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if d := drivers.get("d1"); d.DutyStatus != user.DutyAssigned {
		t.Fatalf("driver released while still busy: %+v", d)
	}

	// a2 结束后变为真正空闲
	a2, _ := store.FindByID(ctx, "a2")
	a2.Status = StatusRejected
	if err := store.Save(ctx, a2); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := ledger.ReleaseDriverIfIdle(ctx, "d1", "a1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if d := drivers.get("d1"); d.DutyStatus != user.DutyAvailable || d.CurrentAssignmentID != "" {
		t.Fatalf("driver not released: %+v", d)
	}
}

func TestLedgerReleaseRespectsManualStatus(t *testing.T) {
	ledger, _, drivers, _ := newLedgerFixture()

	if err := ledger.ReleaseDriverIfIdle(context.Background(), "d-leave", ""); err != nil {
		t.Fatalf("release: %v", err)
	}
	if d := drivers.get("d-leave"); d.DutyStatus != user.DutyOnLeave {
		t.Fatalf("manual on_leave overwritten to %s", d.DutyStatus)
	}
}

func TestLedgerReleaseVehicleIfIdle(t *testing.T) {
	ledger, store, _, vehicles := newLedgerFixture()
	ctx := context.Background()
	d := day("2024-06-01")

	if err := ledger.BindVehicle(ctx, "v1", "a1", d); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if v := vehicles.get("v1"); v.AssignmentStatus != vehicle.AssignmentAssigned || v.CurrentAssignmentDate == nil {
		t.Fatalf("vehicle not bound: %+v", v)
	}
	seedAssignment(t, store, "a1", "d1", "v1", d, StatusPending)

	if err := ledger.ReleaseVehicleIfIdle(ctx, "v1", "a1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if v := vehicles.get("v1"); v.AssignmentStatus != vehicle.AssignmentAvailable || v.CurrentAssignmentDate != nil {
		t.Fatalf("vehicle not released: %+v", v)
	}

	// 空 id 直接忽略
	if err := ledger.ReleaseVehicleIfIdle(ctx, "", "a1"); err != nil {
		t.Fatalf("empty id: %v", err)
	}
}
