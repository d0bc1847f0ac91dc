package main

// General API documentation for swaggo. Run `swag init -g cmd/taskd/docs.go` to regenerate docs/.
//
// @title           taskd API
// @version         1.0
// @description     Task-typed inference adapter: one task handler behind a SageMaker-style invocation endpoint.
//
// @contact.name   taskd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
