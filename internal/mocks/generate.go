// Package mocks provides mock implementations for testing the job board client.
//
// This package uses go.uber.org/mock (gomock). To regenerate mocks after interface
// changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	storage := mocks.NewMockStorage(ctrl)
//	storage.EXPECT().Get(gomock.Any(), "user").Return("", false, errors.New("boom"))
package mocks

// Generate mock for Storage interface from the sessions package.
// This creates MockStorage with methods for all Storage interface methods:
// Get, Set, Remove
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=storage_mock.go github.com/d-madiou/job-board-client/sessions Storage
