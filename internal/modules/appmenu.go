package modules

import (
	"topbar/internal/config"
	"topbar/internal/module"
)

// AppMenu is the launcher button at the bar's left edge. The bar wires its
// click to whatever should open (a command palette, a menu program).
type AppMenu struct {
	module.Base
	glyph   string
	onOpen  func()
	onRight func()
}

// NewAppMenu creates the menu button. onOpen runs on primary click; a nil
// handler makes the button inert.
func NewAppMenu(onOpen func()) *AppMenu {
	return &AppMenu{glyph: "≡", onOpen: onOpen}
}

// ID implements module.Module.
func (a *AppMenu) ID() string { return "app_menu" }

// DisplayText implements module.Module.
func (a *AppMenu) DisplayText(*config.Config) string { return a.glyph }

// Update implements module.Module. The glyph is static.
func (a *AppMenu) Update(module.UpdateContext) {}

// OnClick implements module.Module.
func (a *AppMenu) OnClick() {
	if a.onOpen != nil {
		a.onOpen()
	}
}

// OnRightClick implements module.Module.
func (a *AppMenu) OnRightClick() {
	if a.onRight != nil {
		a.onRight()
	}
}

// SetRightClick installs the secondary-click handler. Used by the settings
// menu wiring; layout never calls this.
func (a *AppMenu) SetRightClick(fn func()) { a.onRight = fn }

// Tooltip implements module.Module.
func (a *AppMenu) Tooltip() (string, bool) { return "Menu", true }
