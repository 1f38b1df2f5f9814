// Command terminus-pkg drives the terminus_math package recipe: it resolves
// options and settings, writes the CMake toolchain, computes the package ID,
// exports sources, runs CMake builds and writes lockfiles.
//
//	terminus-pkg generate -o with_tests=False -s build_type=Debug
//	terminus-pkg build -source . -build build
//	terminus-pkg package -package-dir out/terminus_math
//
// A failing cmake invocation exits with cmake's own status.
package main
