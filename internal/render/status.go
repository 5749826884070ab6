package render

import (
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// SetBusy flips the aria-busy indicator. Informational only.
func SetBusy(sel *goquery.Selection, busy bool) {
	if sel == nil || sel.Length() == 0 {
		return
	}
	sel.SetAttr("aria-busy", strconv.FormatBool(busy))
}

// SetStatus writes msg into the status region.
func SetStatus(sel *goquery.Selection, msg string) {
	if sel == nil || sel.Length() == 0 {
		return
	}
	sel.SetText(msg)
}

// SetDisabled toggles the disabled attribute on a control.
func SetDisabled(sel *goquery.Selection, disabled bool) {
	if sel == nil || sel.Length() == 0 {
		return
	}
	if disabled {
		sel.SetAttr("disabled", "")
		return
	}
	sel.RemoveAttr("disabled")
}

// SetHidden toggles the hidden attribute.
func SetHidden(sel *goquery.Selection, hidden bool) {
	if sel == nil || sel.Length() == 0 {
		return
	}
	if hidden {
		sel.SetAttr("hidden", "")
		return
	}
	sel.RemoveAttr("hidden")
}
