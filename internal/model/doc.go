// Package model classifies a directory as a composition, a component or a
// plain test directory.
//
// Classification tries, in fixed priority order:
//
//  1. Composition: a manifest named explicitly, or exactly one YAML file in
//     the directory that passes IsManifest
//  2. Component: a metadata.yaml carrying a name
//  3. Test directory: the directory exists
//
// A directory with both a manifest and metadata is a composition.
package model
