package telegram

import (
	"testing"

	"staffbot/internal/nav"
	"staffbot/internal/roles"

	tele "gopkg.in/telebot.v4"
)

func TestDecodeCallback(t *testing.T) {
	cases := []struct {
		name   string
		data   string
		unique string
		want   nav.Action
		ok     bool
	}{
		{
			name: "start work raw",
			data: "\fstart_work",
			want: nav.Action{Kind: nav.ActBeginWork},
			ok:   true,
		},
		{
			name:   "start work parsed",
			unique: "start_work",
			want:   nav.Action{Kind: nav.ActBeginWork},
			ok:     true,
		},
		{
			name: "admin menu choice",
			data: "\fadmin_menu|operator",
			want: nav.Action{Kind: nav.ActChooseSubrole, Choice: nav.ChoiceOperator},
			ok:   true,
		},
		{
			name: "admin menu unknown choice",
			data: "\fadmin_menu|superuser",
			ok:   false,
		},
		{
			name: "menu item keeps label verbatim",
			data: "\fmenu|📋 Обязанности",
			want: nav.Action{Kind: nav.ActSelectMenuItem, Label: "📋 Обязанности"},
			ok:   true,
		},
		{
			name: "menu item empty label",
			data: "\fmenu|",
			ok:   false,
		},
		{
			name: "admin back",
			data: "\fadmin_back",
			want: nav.Action{Kind: nav.ActReturnToRoleChoice},
			ok:   true,
		},
		{
			name: "back to menu with role",
			data: "\fback_to_menu|consultant",
			want: nav.Action{Kind: nav.ActReturnToRoleMenu, Role: roles.Consultant},
			ok:   true,
		},
		{
			name: "back to menu bad role",
			data: "\fback_to_menu|nobody",
			ok:   false,
		},
		{
			name: "scan again",
			data: "\fqr_again",
			want: nav.Action{Kind: nav.ActScanAgain},
			ok:   true,
		},
		{
			name: "unknown key",
			data: "\fwat|payload",
			ok:   false,
		},
		{
			name: "empty",
			data: "",
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cb := &tele.Callback{Data: tc.data, Unique: tc.unique}
			got, ok := DecodeCallback(cb)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("action = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestDecodeCallbackNil(t *testing.T) {
	if _, ok := DecodeCallback(nil); ok {
		t.Error("nil callback must not decode")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	controls := []nav.Control{
		{Label: "go", Action: nav.Action{Kind: nav.ActBeginWork}},
		{Label: "op", Action: nav.Action{Kind: nav.ActChooseSubrole, Choice: nav.ChoiceOperatorRent}},
		{Label: "item", Action: nav.Action{Kind: nav.ActSelectMenuItem, Label: "💰 Вопросы оплаты"}},
		{Label: "back", Action: nav.Action{Kind: nav.ActReturnToRoleChoice}},
		{Label: "menu", Action: nav.Action{Kind: nav.ActReturnToRoleMenu, Role: roles.Operator}},
		{Label: "again", Action: nav.Action{Kind: nav.ActScanAgain}},
	}
	for _, ctl := range controls {
		btn := encodeControl(ctl)
		cb := &tele.Callback{Unique: btn.Unique, Data: btn.Data}
		got, ok := DecodeCallback(cb)
		if !ok {
			t.Errorf("%q: encoded control failed to decode", ctl.Label)
			continue
		}
		if got != ctl.Action {
			t.Errorf("%q: round trip changed action: %+v vs %+v", ctl.Label, got, ctl.Action)
		}
	}
}
