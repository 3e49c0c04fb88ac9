// Package swagger serves the embedded OpenAPI document of the dashboard API.
package swagger

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed api/*
var content embed.FS

// GetHandler serves the files under api/, e.g. /openapi.yaml.
func GetHandler() (http.Handler, error) {
	subFS, err := fs.Sub(content, "api")
	if err != nil {
		return nil, err
	}

	return http.FileServer(http.FS(subFS)), nil
}
