package domain

import "testing"

func TestAppointmentStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestActorKind_InitialStatus(t *testing.T) {
	if got := ActorDoctor.InitialStatus(); got != StatusConfirmed {
		t.Fatalf("doctor bookings must start confirmed, got %s", got)
	}
	if got := ActorAdmin.InitialStatus(); got != StatusPending {
		t.Fatalf("admin bookings must start pending, got %s", got)
	}
	if got := ActorPatient.InitialStatus(); got != StatusPending {
		t.Fatalf("patient bookings must start pending, got %s", got)
	}
}

func TestUser_HasRole(t *testing.T) {
	u := &User{Roles: []string{RolePatient, RoleDoctor}}
	if !u.HasRole(RoleDoctor) {
		t.Fatalf("expected role to be present")
	}
	if u.HasRole(RoleAdmin) {
		t.Fatalf("expected role to be absent")
	}
}
