// Package service provides the registry that exposes library operations as
// named tools.
//
// Each provider owns one service ID; tools are addressed as
// "<service>.<tool>", for example "vector.cross" or "package.toolchain".
//
// Discovery scores services against a free-text intent:
//   - ID or name match
//   - description word match
//   - capability match
//   - category match
//
// Example Usage:
//
//	registry := service.NewRegistry()
//	registry.Register(math.NewVectorProvider())
//	services := registry.Discover("cross product", 5)
//	result, err := registry.Execute(ctx, "vector.cross", params, reqCtx)
package service
