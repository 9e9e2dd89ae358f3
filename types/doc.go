// Package types defines the shared interfaces and value types of the
// SimpleMVP library.
//
// It exists as a separate package so that internal packages can depend on
// these definitions without importing the root simplemvp package. The root
// package re-exports everything here via type aliases, so library users
// normally import only github.com/lilislilit/SimpleMVP.
package types
