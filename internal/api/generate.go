package api

//go:generate go tool oapi-codegen -generate types -package api -o types.gen.go ../../api/openapi.yaml
