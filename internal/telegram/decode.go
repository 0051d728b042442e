// Package telegram binds the navigation engine to the bot transport:
// callback decoding, screen rendering and the QR photo pipeline.
package telegram

import (
	tghelpers "staffbot/core/telegram/helpers"
	"staffbot/core/telegram/keyboard"
	"staffbot/internal/nav"
	"staffbot/internal/roles"

	tele "gopkg.in/telebot.v4"
)

// Callback keys. Every inline button carries one of these plus an
// optional payload.
const (
	cbStartWork  = "start_work"
	cbAdminMenu  = "admin_menu"
	cbMenuItem   = "menu"
	cbAdminBack  = "admin_back"
	cbBackToMenu = "back_to_menu"
	cbScanAgain  = "qr_again"
)

// DecodeCallback maps raw callback data onto a navigation action. It is
// the single place where wire strings become typed actions; unknown keys
// or malformed payloads yield ok=false and the update is dropped.
func DecodeCallback(cb *tele.Callback) (nav.Action, bool) {
	if cb == nil {
		return nav.Action{}, false
	}
	key, payload := tghelpers.SplitCallback(cb)

	switch key {
	case cbStartWork:
		return nav.Action{Kind: nav.ActBeginWork}, true

	case cbAdminMenu:
		if !nav.KnownChoice(payload) {
			return nav.Action{}, false
		}
		return nav.Action{Kind: nav.ActChooseSubrole, Choice: nav.Choice(payload)}, true

	case cbMenuItem:
		if payload == "" {
			return nav.Action{}, false
		}
		return nav.Action{Kind: nav.ActSelectMenuItem, Label: payload}, true

	case cbAdminBack:
		return nav.Action{Kind: nav.ActReturnToRoleChoice}, true

	case cbBackToMenu:
		role, err := roles.Parse(payload)
		if err != nil {
			return nav.Action{}, false
		}
		return nav.Action{Kind: nav.ActReturnToRoleMenu, Role: role}, true

	case cbScanAgain:
		return nav.Action{Kind: nav.ActScanAgain}, true
	}

	return nav.Action{}, false
}

// encodeControl turns a screen control into an inline button whose
// callback data DecodeCallback understands.
func encodeControl(ctl nav.Control) keyboard.InlineBtn {
	btn := keyboard.InlineBtn{Text: ctl.Label}
	switch ctl.Action.Kind {
	case nav.ActBeginWork:
		btn.Unique = cbStartWork
	case nav.ActChooseSubrole:
		btn.Unique = cbAdminMenu
		btn.Data = string(ctl.Action.Choice)
	case nav.ActSelectMenuItem:
		btn.Unique = cbMenuItem
		btn.Data = ctl.Action.Label
	case nav.ActReturnToRoleChoice:
		btn.Unique = cbAdminBack
	case nav.ActReturnToRoleMenu:
		btn.Unique = cbBackToMenu
		btn.Data = string(ctl.Action.Role)
	case nav.ActScanAgain:
		btn.Unique = cbScanAgain
	}
	return btn
}
