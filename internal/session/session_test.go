package session

import (
	"testing"

	"staffbot/internal/roles"
)

func TestEffectiveRole(t *testing.T) {
	op := roles.Operator

	cases := []struct {
		name    string
		sess    *Session
		primary roles.Role
		want    roles.Role
	}{
		{"nil session", nil, roles.Operator, roles.Operator},
		{"no override", &Session{}, roles.Consultant, roles.Consultant},
		{"admin with override", &Session{ActingRole: &op}, roles.Admin, roles.Operator},
		{"creator with override", &Session{ActingRole: &op}, roles.Creator, roles.Operator},
		{"override ignored for non-admin", &Session{ActingRole: &op}, roles.Consultant, roles.Consultant},
	}
	for _, tc := range cases {
		if got := tc.sess.EffectiveRole(tc.primary); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestClearActingAlsoLeavesScanning(t *testing.T) {
	op := roles.Operator
	s := &Session{ActingRole: &op, ScanningRole: &op}

	s.ClearActing()

	if s.ActingRole != nil || s.ScanningRole != nil {
		t.Errorf("both overrides must be dropped: %+v", s)
	}
}

func TestScanning(t *testing.T) {
	var s *Session
	if s.Scanning() {
		t.Error("nil session never scans")
	}
	s = &Session{}
	if s.Scanning() {
		t.Error("blank session never scans")
	}
	rent := roles.OperatorRent
	s.ScanningRole = &rent
	if !s.Scanning() {
		t.Error("scanning role set but Scanning is false")
	}
}

func TestStoreGetCreates(t *testing.T) {
	st := NewStore()

	if _, ok := st.Peek(7); ok {
		t.Fatal("peek must not create sessions")
	}
	s := st.Get(7)
	if s == nil {
		t.Fatal("get must create a session")
	}
	if again := st.Get(7); again != s {
		t.Error("get must return the same session for the same chat")
	}
}

func TestStoreClear(t *testing.T) {
	st := NewStore()
	op := roles.Operator
	st.Get(7).ActingRole = &op

	st.Clear(7)

	if _, ok := st.Peek(7); ok {
		t.Error("cleared session must be gone")
	}
	if st.Get(7).ActingRole != nil {
		t.Error("recreated session must be blank")
	}
}

func TestStoreIsolatesChats(t *testing.T) {
	st := NewStore()
	op := roles.Operator
	st.Get(1).ActingRole = &op

	if st.Get(2).ActingRole != nil {
		t.Error("sessions must be per chat")
	}
}
