// Package web embeds the recording page served at the HTTP root.
package web

import "embed"

//go:embed static
var StaticFS embed.FS
