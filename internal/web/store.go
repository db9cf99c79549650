package web

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// tokenKey is the localStorage key holding the access token.
const tokenKey = "gridstash_token"

// localStore persists the session token in browser localStorage. It
// satisfies session.TokenStore.
type localStore struct{}

func newLocalStore() *localStore { return &localStore{} }

func (l *localStore) Load() (string, error) {
	v := app.Window().Get("localStorage").Call("getItem", tokenKey)
	if v.IsNull() || v.IsUndefined() {
		return "", nil
	}
	return v.String(), nil
}

func (l *localStore) Save(token string) error {
	app.Window().Get("localStorage").Call("setItem", tokenKey, token)
	return nil
}

func (l *localStore) Clear() error {
	app.Window().Get("localStorage").Call("removeItem", tokenKey)
	return nil
}
