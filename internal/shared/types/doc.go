// Package types defines the HTTP request bodies shared by the API handlers.
//
// Request Types:
//   - DiscoverRequest: free-text service discovery
//   - ExecuteRequest: "service.tool" execution with JSON params
//   - PackageRequest: options and settings for recipe configuration
package types
