//go:build js

// Package browser binds the page's collaborators to the DOM.
package browser

import "syscall/js"

// configGlobal is the window property the host page may set to a JSON
// object or string before the client starts.
const configGlobal = "ICHTHYO_CONFIG"

// HashNavigator routes by rewriting location.hash, which App listens to.
type HashNavigator struct{}

func (HashNavigator) NavigateTo(path string) {
	js.Global().Get("location").Set("hash", "#"+path)
}

// AlertNotifier shows messages with window.alert, which blocks until the
// user dismisses it.
type AlertNotifier struct{}

func (AlertNotifier) Notify(message string) {
	js.Global().Call("alert", message)
}

// ConfigJSON returns the config blob set by the host page, or nil.
func ConfigJSON() []byte {
	v := js.Global().Get(configGlobal)
	switch v.Type() {
	case js.TypeUndefined, js.TypeNull:
		return nil
	case js.TypeString:
		return []byte(v.String())
	default:
		return []byte(js.Global().Get("JSON").Call("stringify", v).String())
	}
}

// CurrentRoute returns location.hash, e.g. "#/signup".
func CurrentRoute() string {
	return js.Global().Get("location").Get("hash").String()
}

// OnRouteChange calls fn on every hashchange.
func OnRouteChange(fn func()) {
	js.Global().Set("onhashchange", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		fn()
		return nil
	}))
}
