// Package mocks provides mock implementations for testing the stockdesk console client.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	authSvc := mocks.NewMockAuthService(ctrl)
//	authSvc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(domainauth.Token("t"), nil)
package mocks

// Generate mock for AuthService interface from internal/ports package.
// This creates MockAuthService with methods Login, GetInfo, Logout.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_service_mock.go github.com/stockdesk/console/internal/ports AuthService

// Generate mock for CaptchaProvider interface from internal/ports package.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=captcha_provider_mock.go github.com/stockdesk/console/internal/ports CaptchaProvider

// Generate mock for StorageMedium interface from internal/ports package.
// This creates MockStorageMedium with methods GetItem, SetItem, RemoveItem.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=storage_medium_mock.go github.com/stockdesk/console/internal/ports StorageMedium
