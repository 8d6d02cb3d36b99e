package main

// General API documentation for swaggo. Regenerate internal/docs with
// `swag init -g cmd/reviewd/docs.go -d ./,./internal/httpapi -o internal/docs`.
//
// @title           reviewd API
// @version         1.0
// @description     HTTP API for compiling session PDFs, previewing the result and submitting it for analysis.
//
// @contact.name   reviewd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
