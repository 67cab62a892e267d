// Package docs publishes the API document to the swag registry read by
// echo-swagger.
package docs

import (
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

// SwaggerInfo is filled by Register from the embedded OpenAPI document.
var SwaggerInfo = &swag.Spec{
	InfoInstanceName: swag.Name,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

var registerOnce sync.Once

// Register renders doc to JSON and serves it as the default swag instance. Later
// calls replace the served document.
func Register(doc *openapi3.T) error {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("render openapi document: %w", err)
	}

	SwaggerInfo.SwaggerTemplate = string(raw)
	if doc.Info != nil {
		SwaggerInfo.Title = doc.Info.Title
		SwaggerInfo.Version = doc.Info.Version
		SwaggerInfo.Description = doc.Info.Description
	}
	registerOnce.Do(func() {
		swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
	})
	return nil
}
