// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/catalog_client.go -destination=catalog_client_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/auth_client.go -destination=auth_client_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/session_store.go -destination=session_store_mock.go -package=mocks
