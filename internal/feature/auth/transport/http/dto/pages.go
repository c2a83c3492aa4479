// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// AuthPage is the view model of the sign-in and sign-up pages.
type AuthPage struct {
	Title     string
	Action    string // API endpoint the form posts to
	SideImage string
	SignUp    bool
}

// HomePage is the view model of the home page.
type HomePage struct {
	Name     string
	Username string
	ImageURL string
}
