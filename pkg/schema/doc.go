// Package schema describes template variables as OpenAPI schemas. It
// validates bound values against them with kin-openapi and builds the
// OpenAPI document served by the HTTP API.
package schema
