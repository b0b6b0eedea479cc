// Package watch reports changes to the files a resolution depends on.
//
// A Detector watches every directory below a root (hidden directories
// excluded) with fsnotify and emits one ChangeEvent per burst of changes:
// events arriving within the debounce interval of each other are merged.
// Directories created while watching are added automatically.
//
// Used by "bundletest resolve --watch" to re-resolve the suite whenever a
// test, tests.yaml, metadata.yaml or manifest changes.
package watch
